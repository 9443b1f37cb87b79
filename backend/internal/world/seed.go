package world

import (
	"fmt"
	"log"
	"math"

	"orbital-sim/backend/internal/physics"
)

// SeedBody запись статической таблицы начальных тел
type SeedBody struct {
	Name     string
	Mass     float64 // M☉
	Radius   float64 // АЕ
	Distance float64 // АЕ от Солнца
	Color    string

	// Справочные данные для отображения, в физике не участвуют
	InclinationDeg float64
	Eccentricity   float64
	SurfaceTempK   float64
}

// AsteroidBelt параметры пояса астероидов
type AsteroidBelt struct {
	Count        int
	MinDistance  float64 // АЕ
	DistSpread   float64 // АЕ
	MassMinKg    float64
	MassSpreadKg float64
	MinRadius    float64 // АЕ
	RadiusSpread float64 // АЕ
}

// SeedTable начальная конфигурация солнечной системы
type SeedTable struct {
	Star    SeedBody
	Planets []SeedBody

	// Луна задается смещением и относительной скоростью от родительской планеты
	Moon         SeedBody
	MoonParent   string
	MoonOffset   float64 // АЕ по оси x
	MoonRelSpeed float64 // АЕ/год по оси z
	Belt         AsteroidBelt
}

// DefaultSeedTable солнечная система по умолчанию
func DefaultSeedTable() SeedTable {
	return SeedTable{
		Star: SeedBody{Name: "Sun", Mass: 1.0, Radius: 0.00465, Color: "#ffee88"},
		Planets: []SeedBody{
			{Name: "Mercury", Mass: 1.660e-7, Distance: 0.387, Radius: 0.0000165, Color: "#909090", InclinationDeg: 7.00, Eccentricity: 0.2056, SurfaceTempK: 440},
			{Name: "Venus", Mass: 2.447e-6, Distance: 0.723, Radius: 0.0000404, Color: "#ffaa33", InclinationDeg: 3.39, Eccentricity: 0.0067, SurfaceTempK: 737},
			{Name: "Earth", Mass: 3.003e-6, Distance: 1.000, Radius: 0.0000426, Color: "#3366ff", InclinationDeg: 0.00, Eccentricity: 0.0167, SurfaceTempK: 288},
			{Name: "Mars", Mass: 3.227e-7, Distance: 1.524, Radius: 0.0000227, Color: "#ff5533", InclinationDeg: 1.85, Eccentricity: 0.0934, SurfaceTempK: 210},
			{Name: "Jupiter", Mass: 9.543e-4, Distance: 5.204, Radius: 0.0004779, Color: "#ffbb88", InclinationDeg: 1.31, Eccentricity: 0.0489, SurfaceTempK: 165},
			{Name: "Saturn", Mass: 2.857e-4, Distance: 9.583, Radius: 0.0004027, Color: "#ffdd77", InclinationDeg: 2.49, Eccentricity: 0.0565, SurfaceTempK: 134},
			{Name: "Uranus", Mass: 4.370e-5, Distance: 19.218, Radius: 0.0001737, Color: "#66ddff", InclinationDeg: 0.77, Eccentricity: 0.0464, SurfaceTempK: 76},
			{Name: "Neptune", Mass: 5.150e-5, Distance: 30.110, Radius: 0.0001659, Color: "#5577ff", InclinationDeg: 1.77, Eccentricity: 0.0097, SurfaceTempK: 72},
		},
		Moon: SeedBody{
			Name:           "Moon",
			Mass:           physics.KgToSolarMass(7.35e22),
			Radius:         0.0000117,
			Color:          "#8888ff",
			InclinationDeg: 5.15,
			Eccentricity:   0.0549,
			SurfaceTempK:   250,
		},
		MoonParent:   "Earth",
		MoonOffset:   0.00257,
		MoonRelSpeed: 0.216,
		Belt: AsteroidBelt{
			Count:        200,
			MinDistance:  2.2,
			DistSpread:   1.1,
			MassMinKg:    1e15,
			MassSpreadKg: 1e17,
			MinRadius:    5e-6,
			RadiusSpread: 1e-5,
		},
	}
}

// Reference справочная запись по имени тела
func (t SeedTable) Reference(name string) (SeedBody, bool) {
	if t.Moon.Name == name {
		return t.Moon, true
	}
	for _, p := range t.Planets {
		if p.Name == name {
			return p, true
		}
	}
	return SeedBody{}, false
}

// SeedCreator заполняет мир начальными телами
type SeedCreator struct {
	manager *Manager
	table   SeedTable
	logger  *log.Logger
}

// NewSeedCreator создает новый экземпляр SeedCreator
func NewSeedCreator(manager *Manager, table SeedTable, logger *log.Logger) *SeedCreator {
	if logger == nil {
		logger = log.Default()
	}
	return &SeedCreator{
		manager: manager,
		table:   table,
		logger:  logger,
	}
}

// CreateAll создает звезду, планеты, спутник и пояс астероидов
func (s *SeedCreator) CreateAll(rng physics.RandomSource) {
	s.CreateStar()
	s.CreatePlanets()
	s.CreateMoon()
	s.CreateAsteroidBelt(rng)

	s.logger.Printf("[World] seeded %d bodies (%d planets, %d asteroids)",
		s.manager.Count(), len(s.table.Planets), s.table.Belt.Count)
}

// CreateStar создает центральную звезду в начале координат
func (s *SeedCreator) CreateStar() {
	star := physics.NewBody(s.table.Star.Name, physics.KindStar, s.table.Star.Mass, s.table.Star.Radius,
		physics.Vec3{}, physics.Vec3{})
	star.Color = s.table.Star.Color
	s.manager.Add(star)
}

// CreatePlanets создает планеты на оси x с круговой скоростью вдоль z
func (s *SeedCreator) CreatePlanets() {
	for _, p := range s.table.Planets {
		v := circularSpeed(s.table.Star.Mass, p.Distance)
		planet := physics.NewBody(p.Name, physics.KindPlanet, p.Mass, p.Radius,
			physics.Vec3{p.Distance, 0, 0}, physics.Vec3{0, 0, v})
		planet.OrbitReference = true
		planet.Color = p.Color
		s.manager.Add(planet)
	}
}

// CreateMoon создает спутник рядом с родительской планетой
func (s *SeedCreator) CreateMoon() {
	parent, ok := s.manager.Find(s.table.MoonParent)
	if !ok {
		s.logger.Printf("[World] moon parent %s not found, skipping moon", s.table.MoonParent)
		return
	}

	pos := parent.Position.Add(physics.Vec3{s.table.MoonOffset, 0, 0})
	vel := physics.Vec3{parent.Velocity.X(), 0, parent.Velocity.Z() + s.table.MoonRelSpeed}
	moon := physics.NewBody(s.table.Moon.Name, physics.KindMoon, s.table.Moon.Mass, s.table.Moon.Radius, pos, vel)
	moon.OrbitReference = true
	moon.Color = s.table.Moon.Color
	s.manager.Add(moon)
}

// CreateAsteroidBelt создает пояс астероидов на круговых орбитах
func (s *SeedCreator) CreateAsteroidBelt(rng physics.RandomSource) {
	belt := s.table.Belt
	for i := 0; i < belt.Count; i++ {
		dist := belt.MinDistance + belt.DistSpread*rng.Float64()
		angle := 2 * math.Pi * rng.Float64()
		v := circularSpeed(s.table.Star.Mass, dist)
		mass := physics.KgToSolarMass(belt.MassMinKg + belt.MassSpreadKg*rng.Float64())
		radius := belt.MinRadius + belt.RadiusSpread*rng.Float64()

		asteroid := physics.NewBody(fmt.Sprintf("asteroid-%d", i), physics.KindAsteroid, mass, radius,
			physics.Vec3{dist * math.Cos(angle), 0, dist * math.Sin(angle)},
			physics.Vec3{-v * math.Sin(angle), 0, v * math.Cos(angle)})
		asteroid.Color = "#aaaaaa"
		s.manager.Add(asteroid)
	}
}

// circularSpeed скорость круговой орбиты радиуса r вокруг массы m
func circularSpeed(m, r float64) float64 {
	return math.Sqrt(physics.G * m / r)
}
