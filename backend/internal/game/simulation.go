package game

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"orbital-sim/backend/internal/physics"
	"orbital-sim/backend/internal/telemetry"
	"orbital-sim/backend/internal/world"
)

// SimulationConfig параметры симуляции
type SimulationConfig struct {
	Timestep     float64 // Годы за тик
	MinTimestep  float64 // Ниже этого шага запущенная симуляция ставится на паузу
	StartRunning bool

	// CometEveryTicks период автоматического появления комет в тиках, 0 отключает
	CometEveryTicks uint64

	RandomSeed  uint64
	JournalSize int
	LogEvery    uint64 // Период сводки в лог в тиках
	Debug       bool   // Подробный лог каждого тика

	// SlowSystemThreshold порог предупреждения о медленной системе
	SlowSystemThreshold time.Duration

	Physics *physics.PhysicsConfig
	Seeds   world.SeedTable
}

// DefaultSimulationConfig конфигурация по умолчанию
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Timestep:            0.001,
		MinTimestep:         1e-6,
		StartRunning:        true,
		CometEveryTicks:     1800,
		RandomSeed:          1,
		JournalSize:         500,
		LogEvery:            600,
		SlowSystemThreshold: 5 * time.Millisecond,
		Physics:             physics.DefaultPhysicsConfig(),
		Seeds:               world.DefaultSeedTable(),
	}
}

// TickReport итог одного вызова Step
type TickReport struct {
	Tick     uint64  `json:"tick"`
	Ran      bool    `json:"ran"` // false, если симуляция на паузе
	Timestep float64 `json:"timestep"`
	SimYears float64 `json:"sim_years"`

	Captured      []string `json:"captured,omitempty"`
	Unstable      []string `json:"unstable,omitempty"`
	Collisions    int      `json:"collisions"`
	Merges        int      `json:"merges"`
	Disruptions   int      `json:"disruptions"`
	Removed       []string `json:"removed,omitempty"`
	RetiredComets []string `json:"retired_comets,omitempty"`
	Added         []string `json:"added,omitempty"`
	SpawnedComet  string   `json:"spawned_comet,omitempty"`
	BodyCount     int      `json:"body_count"`
}

// Simulation контекст симуляции: мир, часы, генератор случайных чисел и конвейер фаз.
// Все внешние вызовы сериализуются мьютексом, тик выполняется атомарно.
type Simulation struct {
	mu sync.RWMutex

	config     SimulationConfig
	world      *world.Manager
	factory    *world.Factory
	seeds      *world.SeedCreator
	collisions *physics.CollisionEngine
	roche      *physics.RocheChecker
	clock      *SimulationClock
	rng        *rand.Rand
	journal    *telemetry.Journal
	pipeline   *Pipeline

	timestep  float64
	tickCount uint64

	// report итог текущего тика, заполняется системами
	report *TickReport

	logger *log.Logger
}

// NewSimulation создает симуляцию и заполняет мир начальной конфигурацией
func NewSimulation(cfg SimulationConfig, journal *telemetry.Journal, logger *log.Logger) *Simulation {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Physics == nil {
		cfg.Physics = physics.DefaultPhysicsConfig()
	}
	if cfg.LogEvery == 0 {
		cfg.LogEvery = 600
	}
	if journal == nil {
		journal = telemetry.NewJournal(cfg.JournalSize, logger)
	}

	manager := world.NewManager()
	sim := &Simulation{
		config:     cfg,
		world:      manager,
		factory:    world.NewFactory(manager, logger),
		seeds:      world.NewSeedCreator(manager, cfg.Seeds, logger),
		collisions: physics.NewCollisionEngine(nil),
		roche:      physics.NewRocheChecker(cfg.Physics),
		clock:      NewSimulationClock(cfg.StartRunning),
		rng:        rand.New(rand.NewPCG(cfg.RandomSeed, cfg.RandomSeed^0x9e3779b97f4a7c15)),
		journal:    journal,
		pipeline:   NewPipeline("Simulation", cfg.SlowSystemThreshold, logger),
		timestep:   cfg.Timestep,
		logger:     logger,
	}

	sim.registerSystems()
	sim.seedLocked()

	logger.Printf("[Simulation] initialized: %d bodies, dt=%.6f yr, running=%v",
		manager.Count(), sim.timestep, sim.clock.Running())
	return sim
}

// registerSystems регистрирует фазы тика в фиксированном порядке
func (s *Simulation) registerSystems() {
	s.pipeline.RegisterSystem(NewIntegrationSystem(s))
	s.pipeline.RegisterSystem(NewCollisionSystem(s))
	s.pipeline.RegisterSystem(NewPurgeSystem(s))
	s.pipeline.RegisterSystem(NewTidalDisruptionSystem(s))
	s.pipeline.RegisterSystem(NewCometLifecycleSystem(s))
	s.pipeline.RegisterSystem(NewClockSystem(s))
}

// seedLocked заполняет мир начальными телами. Пустая таблица оставляет мир пустым.
func (s *Simulation) seedLocked() {
	if s.config.Seeds.Star.Mass <= 0 {
		return
	}
	s.seeds.CreateAll(s.rng)
}

// Step выполняет один тик. Если симуляция на паузе, физика не трогается.
func (s *Simulation) Step() TickReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	running := s.clock.Running()
	report := TickReport{Tick: s.tickCount, Ran: running}

	if running {
		s.tickCount++
		report.Tick = s.tickCount
		report.Timestep = s.timestep

		s.report = &report
		s.pipeline.Execute(s.timestep)
		s.report = nil
	}

	// Тела, созданные фазами, становятся активными только со следующего тика
	for _, body := range s.world.Flush() {
		report.Added = append(report.Added, body.ID)
	}

	if running && s.config.CometEveryTicks > 0 && s.tickCount%s.config.CometEveryTicks == 0 {
		comet := s.spawnCometLocked()
		report.SpawnedComet = comet.ID
	}

	report.SimYears = s.clock.Elapsed()
	report.BodyCount = s.world.Count()

	if running && s.tickCount%s.config.LogEvery == 0 {
		s.logger.Printf("[Simulation] tick %d: %d bodies, %d comets, %s",
			s.tickCount, report.BodyCount, len(s.world.Comets()), s.clock.Calendar())
		s.journal.PrintSummary()
	}
	if s.config.Debug && running {
		s.logger.Printf("[Simulation] DEBUG tick %d: collisions=%d merges=%d disruptions=%d removed=%d added=%d",
			report.Tick, report.Collisions, report.Merges, report.Disruptions, len(report.Removed), len(report.Added))
	}

	return report
}

// spawnCometLocked создает комету и сразу добавляет ее в мир
func (s *Simulation) spawnCometLocked() *physics.Body {
	comet := physics.NewComet(s.world.NextID(string(physics.KindComet)), s.rng, s.config.Physics.Comet)
	s.world.Add(comet)
	s.record(telemetry.Event{
		Type:    telemetry.EventCometSpawned,
		BodyIDs: []string{comet.ID},
		Created: []string{comet.ID},
	})
	return comet
}

// record пишет событие в журнал с текущим тиком и временем
func (s *Simulation) record(event telemetry.Event) {
	event.Tick = s.tickCount
	event.SimYears = s.clock.Elapsed()
	s.journal.Record(event)
}

// Pipeline конвейер фаз симуляции
func (s *Simulation) Pipeline() *Pipeline {
	return s.pipeline
}

// Journal журнал событий симуляции
func (s *Simulation) Journal() *telemetry.Journal {
	return s.journal
}

// TickCount количество выполненных тиков физики
func (s *Simulation) TickCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickCount
}

func bodyIDs(bodies []*physics.Body) []string {
	if len(bodies) == 0 {
		return nil
	}
	ids := make([]string, len(bodies))
	for i, b := range bodies {
		ids[i] = b.ID
	}
	return ids
}
