package game

import (
	"math"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/telemetry"
	"orbital-sim/backend/internal/world"
)

// ToggleRunning переключает паузу и возвращает новое состояние
func (s *Simulation) ToggleRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	running := !s.clock.Running()
	s.clock.SetRunning(running)
	s.logger.Printf("[Simulation] running=%v", running)
	return running
}

// SetRunning устанавливает флаг работы
func (s *Simulation) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.SetRunning(running)
}

// SetTimestep меняет шаг времени. Шаг меньше MinTimestep ставит
// запущенную симуляцию на паузу, в этом случае возвращается paused=true.
func (s *Simulation) SetTimestep(dt float64) (paused bool, err error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return false, apperrors.InvalidParameterf("timestep must be finite and non-negative, got %g", dt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.timestep = dt
	if dt < s.config.MinTimestep && s.clock.Running() {
		s.clock.SetRunning(false)
		paused = true
	}

	s.logger.Printf("[Simulation] timestep set to %.6f yr (paused=%v)", dt, paused)
	return paused, nil
}

// Reset возвращает мир к начальной конфигурации и обнуляет часы.
// Флаг работы и шаг времени сохраняются.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.world.Reset()
	s.clock.Reset()
	s.seedLocked()

	s.record(telemetry.Event{Type: telemetry.EventReset, Detail: "world reseeded"})
	s.logger.Printf("[Simulation] reset: %d bodies", s.world.Count())
}

// ClearComets помечает все кометы на удаление и возвращает их количество
func (s *Simulation) ClearComets() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.world.ClearComets()
	s.logger.Printf("[Simulation] cleared %d comets", n)
	return n
}

// CreateBody создает тело по внешнему запросу. Некорректный запрос
// отклоняется без изменения мира.
func (s *Simulation) CreateBody(req world.CreationRequest) (world.BodySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.factory.Create(req)
	if err != nil {
		return world.BodySnapshot{}, err
	}

	s.record(telemetry.Event{
		Type:    telemetry.EventBodyCreated,
		BodyIDs: []string{body.ID},
		Created: []string{body.ID},
		Detail:  body.Kind.String(),
	})
	return world.SnapshotOf(body), nil
}

// SpawnComet создает комету вне расписания
func (s *Simulation) SpawnComet() world.BodySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return world.SnapshotOf(s.spawnCometLocked())
}
