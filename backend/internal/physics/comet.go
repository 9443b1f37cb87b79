package physics

import "math"

// NewComet создает комету на окружности SpawnDistance под случайным углом
// со скоростью, направленной к началу координат
func NewComet(id string, rng RandomSource, cfg CometConfig) *Body {
	mass := KgToSolarMass(cfg.MassMinKg + cfg.MassSpreadKg*rng.Float64())
	angle := rng.Float64() * 2 * math.Pi

	pos := Vec3{cfg.SpawnDistance * math.Cos(angle), 0, cfg.SpawnDistance * math.Sin(angle)}
	speed := cfg.SpeedMin + cfg.SpeedSpread*rng.Float64()
	vel := pos.Mul(-speed / cfg.SpawnDistance)

	return NewBody(id, KindComet, mass, cfg.Radius, pos, vel)
}

// CometOutOfBounds вышла ли комета за внешнюю или внутреннюю границу
func CometOutOfBounds(comet *Body, cfg CometConfig) bool {
	dist := PlanarDistance(comet.Position)
	return dist > cfg.OuterBound || dist < cfg.InnerBound
}
