package game

import (
	"orbital-sim/backend/internal/physics"
	"orbital-sim/backend/internal/telemetry"
)

// CollisionSystem система разрешения столкновений по таблице взаимодействий
type CollisionSystem struct {
	name     string
	priority int
	sim      *Simulation

	// Счетчики по правилам за все время
	ruleCounts map[string]uint64
}

// NewCollisionSystem создает новую систему столкновений
func NewCollisionSystem(sim *Simulation) *CollisionSystem {
	return &CollisionSystem{
		name:       "CollisionSystem",
		priority:   PriorityCollision, // После интегрирования, до удаления
		sim:        sim,
		ruleCounts: make(map[string]uint64),
	}
}

// Update проверяет все пары тел по позициям после интегрирования
func (cs *CollisionSystem) Update(deltaTime float64) error {
	events := cs.sim.collisions.Resolve(cs.sim.world.Bodies(), cs.sim.world)

	for _, e := range events {
		cs.ruleCounts[e.Rule]++
		cs.recordCollision(e)
	}

	if r := cs.sim.report; r != nil {
		r.Collisions += len(events)
		for _, e := range events {
			if e.Merged != nil {
				r.Merges++
			}
		}
	}

	// Сводка по правилам раз в LogEvery тиков
	if len(cs.ruleCounts) > 0 && cs.sim.tickCount%cs.sim.config.LogEvery == 0 {
		cs.sim.logger.Printf("[CollisionSystem] resolved by rule: %v", cs.ruleCounts)
	}

	return nil
}

// recordCollision пишет событие столкновения в журнал и лог
func (cs *CollisionSystem) recordCollision(e physics.CollisionEvent) {
	event := telemetry.Event{
		Type:    telemetry.EventCollision,
		Rule:    e.Rule,
		BodyIDs: []string{e.A.ID, e.B.ID},
		Removed: bodyIDs(e.Removed),
		Detail:  string(e.Outcome),
	}

	if e.Merged != nil {
		event.Type = telemetry.EventMerge
		event.Created = []string{e.Merged.ID}
		cs.sim.logger.Printf("[CollisionSystem] %s + %s merged into %s (mass %.3e M☉)",
			e.A.ID, e.B.ID, e.Merged.ID, e.Merged.Mass)
	} else {
		cs.sim.logger.Printf("[CollisionSystem] %s: %s (%s) x %s (%s), removed %v",
			e.Rule, e.A.ID, e.A.Kind, e.B.ID, e.B.Kind, event.Removed)
	}

	cs.sim.record(event)
}

// RuleCounts копия счетчиков срабатывания правил
func (cs *CollisionSystem) RuleCounts() map[string]uint64 {
	out := make(map[string]uint64, len(cs.ruleCounts))
	for k, v := range cs.ruleCounts {
		out[k] = v
	}
	return out
}

// GetName возвращает имя системы
func (cs *CollisionSystem) GetName() string {
	return cs.name
}

// GetPriority возвращает приоритет системы
func (cs *CollisionSystem) GetPriority() int {
	return cs.priority
}
