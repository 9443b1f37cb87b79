package game

import (
	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/physics"
	"orbital-sim/backend/internal/telemetry"
	"orbital-sim/backend/internal/world"
)

// ReferenceData справочные данные тела из начальной таблицы
type ReferenceData struct {
	SemiMajorAxis  float64 `json:"semi_major_axis_au"`
	Eccentricity   float64 `json:"eccentricity"`
	InclinationDeg float64 `json:"inclination_deg"`
	SurfaceTempK   float64 `json:"surface_temp_k"`
}

// BodyReport статистика тела для инспекции
type BodyReport struct {
	physics.BodyStats
	Mass      float64        `json:"mass"`
	MassKg    float64        `json:"mass_kg"`
	Radius    float64        `json:"radius"`
	RadiusKm  float64        `json:"radius_km"`
	Reference *ReferenceData `json:"reference,omitempty"`
}

// ClockState текущее время симуляции
type ClockState struct {
	Tick         uint64   `json:"tick"`
	ElapsedYears float64  `json:"elapsed_years"`
	Running      bool     `json:"running"`
	Timestep     float64  `json:"timestep"`
	Calendar     Calendar `json:"calendar"`
	Display      string   `json:"display"`
}

// Snapshot состояние всех тел
func (s *Simulation) Snapshot() []world.BodySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.world.Snapshot()
}

// BodyStats производная статистика тела по идентификатору
func (s *Simulation) BodyStats(id string) (BodyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.world.Find(id)
	if !ok {
		return BodyReport{}, apperrors.NotFoundf("body %q not found", id)
	}

	report := BodyReport{
		BodyStats: physics.StatsOf(body),
		Mass:      body.Mass,
		MassKg:    body.Mass * physics.SolarMassKg,
		Radius:    body.Radius,
		RadiusKm:  body.Radius * physics.KmPerAU,
	}

	if ref, ok := s.config.Seeds.Reference(body.ID); ok {
		axis := ref.Distance
		if ref.Name == s.config.Seeds.Moon.Name {
			axis = s.config.Seeds.MoonOffset
		}
		report.Reference = &ReferenceData{
			SemiMajorAxis:  axis,
			Eccentricity:   ref.Eccentricity,
			InclinationDeg: ref.InclinationDeg,
			SurfaceTempK:   ref.SurfaceTempK,
		}
	}
	return report, nil
}

// Clock текущее время симуляции и календарь
func (s *Simulation) Clock() ClockState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cal := s.clock.Calendar()
	return ClockState{
		Tick:         s.tickCount,
		ElapsedYears: s.clock.Elapsed(),
		Running:      s.clock.Running(),
		Timestep:     s.timestep,
		Calendar:     cal,
		Display:      cal.String(),
	}
}

// Calendar календарное представление текущего времени
func (s *Simulation) Calendar() Calendar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock.Calendar()
}

// Events последние n событий журнала
func (s *Simulation) Events(n int) []telemetry.Event {
	return s.journal.Recent(n)
}

// CountByKind численность тел по видам
func (s *Simulation) CountByKind() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for kind, n := range s.world.CountByKind() {
		counts[kind.String()] = n
	}
	return counts
}

// GetStats возвращает статистику симуляции
func (s *Simulation) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"tick_count":    s.tickCount,
		"elapsed_years": s.clock.Elapsed(),
		"running":       s.clock.Running(),
		"timestep":      s.timestep,
		"bodies_count":  s.world.Count(),
		"comets_count":  len(s.world.Comets()),
		"systems":       s.pipeline.Monitor().GetSystemsStats(),
	}
}
