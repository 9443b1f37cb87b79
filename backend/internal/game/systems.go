package game

import (
	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/physics"
	"orbital-sim/backend/internal/telemetry"
)

// Приоритеты фаз тика
const (
	PriorityIntegration     = 10
	PriorityCollision       = 20
	PriorityPurge           = 30
	PriorityTidalDisruption = 40
	PriorityCometLifecycle  = 50
	PriorityClock           = 60
)

// IntegrationSystem вычисляет ускорения и продвигает все тела на dt
type IntegrationSystem struct {
	name     string
	priority int
	sim      *Simulation
}

// NewIntegrationSystem создает систему интегрирования
func NewIntegrationSystem(sim *Simulation) *IntegrationSystem {
	return &IntegrationSystem{
		name:     "IntegrationSystem",
		priority: PriorityIntegration,
		sim:      sim,
	}
}

// Update интегрирует все тела. Неконечное состояние помечается и возвращается ошибкой.
func (is *IntegrationSystem) Update(deltaTime float64) error {
	result := physics.IntegrateAll(is.sim.world.Bodies(), deltaTime)

	for _, b := range result.Captured {
		is.sim.record(telemetry.Event{
			Type:    telemetry.EventCapture,
			BodyIDs: []string{b.ID},
			Removed: []string{b.ID},
		})
	}
	for _, b := range result.Unstable {
		is.sim.record(telemetry.Event{
			Type:    telemetry.EventNumericInstability,
			BodyIDs: []string{b.ID},
			Removed: []string{b.ID},
			Detail:  "non-finite position or velocity",
		})
	}

	if r := is.sim.report; r != nil {
		r.Captured = append(r.Captured, bodyIDs(result.Captured)...)
		r.Unstable = append(r.Unstable, bodyIDs(result.Unstable)...)
	}

	if len(result.Unstable) > 0 {
		return apperrors.NumericInstabilityf("%d bodies became non-finite: %v",
			len(result.Unstable), bodyIDs(result.Unstable))
	}
	return nil
}

// GetName возвращает имя системы
func (is *IntegrationSystem) GetName() string {
	return is.name
}

// GetPriority возвращает приоритет системы
func (is *IntegrationSystem) GetPriority() int {
	return is.priority
}

// PurgeSystem единственный за тик проход удаления помеченных тел
type PurgeSystem struct {
	name     string
	priority int
	sim      *Simulation
}

// NewPurgeSystem создает систему удаления
func NewPurgeSystem(sim *Simulation) *PurgeSystem {
	return &PurgeSystem{
		name:     "PurgeSystem",
		priority: PriorityPurge,
		sim:      sim,
	}
}

// Update удаляет все помеченные тела
func (ps *PurgeSystem) Update(deltaTime float64) error {
	removed := ps.sim.world.Purge()
	if r := ps.sim.report; r != nil {
		r.Removed = append(r.Removed, bodyIDs(removed)...)
	}
	return nil
}

// GetName возвращает имя системы
func (ps *PurgeSystem) GetName() string {
	return ps.name
}

// GetPriority возвращает приоритет системы
func (ps *PurgeSystem) GetPriority() int {
	return ps.priority
}

// TidalDisruptionSystem разрушает тела внутри приливной зоны компактных объектов
type TidalDisruptionSystem struct {
	name     string
	priority int
	sim      *Simulation
}

// NewTidalDisruptionSystem создает систему приливного разрушения
func NewTidalDisruptionSystem(sim *Simulation) *TidalDisruptionSystem {
	return &TidalDisruptionSystem{
		name:     "TidalDisruptionSystem",
		priority: PriorityTidalDisruption,
		sim:      sim,
	}
}

// Update проверяет все тела на приливное разрушение. Осколки появятся после Flush.
func (ts *TidalDisruptionSystem) Update(deltaTime float64) error {
	events := ts.sim.roche.Check(ts.sim.world.Bodies(), ts.sim.rng, ts.sim.world)

	for _, e := range events {
		ts.sim.logger.Printf("[TidalDisruption] %s disrupted by %s %s into %d fragments",
			e.Progenitor.ID, e.Compact.Kind, e.Compact.ID, len(e.Fragments))
		ts.sim.record(telemetry.Event{
			Type:    telemetry.EventDisruption,
			BodyIDs: []string{e.Progenitor.ID, e.Compact.ID},
			Removed: []string{e.Progenitor.ID},
			Created: bodyIDs(e.Fragments),
		})
	}

	if r := ts.sim.report; r != nil {
		r.Disruptions += len(events)
	}
	return nil
}

// GetName возвращает имя системы
func (ts *TidalDisruptionSystem) GetName() string {
	return ts.name
}

// GetPriority возвращает приоритет системы
func (ts *TidalDisruptionSystem) GetPriority() int {
	return ts.priority
}

// ClockSystem продвигает часы симуляции
type ClockSystem struct {
	name     string
	priority int
	sim      *Simulation
}

// NewClockSystem создает систему часов
func NewClockSystem(sim *Simulation) *ClockSystem {
	return &ClockSystem{
		name:     "ClockSystem",
		priority: PriorityClock,
		sim:      sim,
	}
}

// Update добавляет dt к часам
func (cs *ClockSystem) Update(deltaTime float64) error {
	cs.sim.clock.Advance(deltaTime)
	return nil
}

// GetName возвращает имя системы
func (cs *ClockSystem) GetName() string {
	return cs.name
}

// GetPriority возвращает приоритет системы
func (cs *ClockSystem) GetPriority() int {
	return cs.priority
}
