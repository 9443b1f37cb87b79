package physics

import "math"

// BodyStats производные величины для отображения
type BodyStats struct {
	ID             string  `json:"id"`
	Kind           Kind    `json:"kind"`
	RadialDistance float64 `json:"radial_distance_au"`
	Speed          float64 `json:"speed_au_per_year"`
	SpeedKmS       float64 `json:"speed_km_s"`
	// OrbitalPeriodDays оценка для почти круговой орбиты вокруг звезды в 1 M☉,
	// nil для типов, где она не имеет смысла
	OrbitalPeriodDays *float64 `json:"orbital_period_days,omitempty"`
}

// StatsOf вычисляет статистику тела
func StatsOf(b *Body) BodyStats {
	dist := PlanarDistance(b.Position)
	speed := b.Velocity.Len()

	stats := BodyStats{
		ID:             b.ID,
		Kind:           b.Kind,
		RadialDistance: dist,
		Speed:          speed,
		SpeedKmS:       AUPerYearToKmPerSecond(speed),
	}

	if b.Kind.HasOrbitalPeriod() && dist > 0 {
		period := 2 * math.Pi * math.Sqrt(dist*dist*dist/G) * DaysPerYear
		stats.OrbitalPeriodDays = &period
	}
	return stats
}
