package game

import (
	"orbital-sim/backend/internal/physics"
	"orbital-sim/backend/internal/telemetry"
)

// CometLifecycleSystem удаляет кометы, вышедшие за границы
type CometLifecycleSystem struct {
	name     string
	priority int
	sim      *Simulation

	retiredTotal uint64
}

// NewCometLifecycleSystem создает систему жизненного цикла комет
func NewCometLifecycleSystem(sim *Simulation) *CometLifecycleSystem {
	return &CometLifecycleSystem{
		name:     "CometLifecycleSystem",
		priority: PriorityCometLifecycle,
		sim:      sim,
	}
}

// Update помечает кометы дальше внешней или ближе внутренней границы.
// Удаление из мира произойдет в проходе очистки следующего тика.
func (cls *CometLifecycleSystem) Update(deltaTime float64) error {
	cfg := cls.sim.config.Physics.Comet
	comets := cls.sim.world.Comets()

	var retired []*physics.Body
	for i := len(comets) - 1; i >= 0; i-- {
		c := comets[i]
		if !physics.CometOutOfBounds(c, cfg) {
			continue
		}
		cls.sim.world.MarkForRemoval(c)
		cls.sim.world.DropComet(c)
		retired = append(retired, c)

		cls.sim.record(telemetry.Event{
			Type:    telemetry.EventCometRetired,
			BodyIDs: []string{c.ID},
			Removed: []string{c.ID},
		})
	}

	cls.retiredTotal += uint64(len(retired))
	if len(retired) > 0 {
		cls.sim.logger.Printf("[CometLifecycle] retired %d comets (total %d)", len(retired), cls.retiredTotal)
	}

	if r := cls.sim.report; r != nil {
		r.RetiredComets = append(r.RetiredComets, bodyIDs(retired)...)
	}
	return nil
}

// GetName возвращает имя системы
func (cls *CometLifecycleSystem) GetName() string {
	return cls.name
}

// GetPriority возвращает приоритет системы
func (cls *CometLifecycleSystem) GetPriority() int {
	return cls.priority
}
