package physics

import "math"

// DisruptionEvent приливное разрушение тела вблизи компактного объекта
type DisruptionEvent struct {
	Progenitor *Body
	Compact    *Body
	Threshold  float64
	Fragments  []*Body
}

// RocheChecker проверка приливного разрушения
type RocheChecker struct {
	config *PhysicsConfig
}

// NewRocheChecker создает проверку с заданной конфигурацией
func NewRocheChecker(config *PhysicsConfig) *RocheChecker {
	if config == nil {
		config = DefaultPhysicsConfig()
	}
	return &RocheChecker{config: config}
}

// DisruptionRadius радиус приливной зоны компактного тела, 0 для прочих типов
func (rc *RocheChecker) DisruptionRadius(compact *Body) float64 {
	switch compact.Kind {
	case KindBlackHole:
		return SchwarzschildRadius(compact.Mass) * rc.config.RocheBlackHoleFactor
	case KindWhiteDwarf, KindNeutronStar:
		return compact.Radius * rc.config.RocheCompactFactor
	default:
		return 0
	}
}

// Check проверяет все планетоподобные тела с опорной орбитой против всех
// компактных тел. Разрушенное тело помечается, осколки уходят в spawner.
func (rc *RocheChecker) Check(bodies []*Body, rng RandomSource, spawner Spawner) []DisruptionEvent {
	var events []DisruptionEvent

	for _, body := range bodies {
		if !body.Kind.IsTidallyDisruptable() || !body.OrbitReference {
			continue
		}
		for _, compact := range bodies {
			if compact == body || !compact.Kind.IsCompact() {
				continue
			}
			if body.IsMarkedForRemoval() {
				break
			}

			threshold := rc.DisruptionRadius(compact)
			if body.Position.Sub(compact.Position).Len() >= threshold {
				continue
			}

			fragments := rc.Fragment(body, threshold, rng, spawner)
			for _, f := range fragments {
				spawner.Defer(f)
			}
			events = append(events, DisruptionEvent{
				Progenitor: body,
				Compact:    compact,
				Threshold:  threshold,
				Fragments:  fragments,
			})
		}
	}
	return events
}

// Fragment разбивает тело на 5..9 осколков на кольце в плоскости орбит
// и помечает исходное тело на удаление
func (rc *RocheChecker) Fragment(body *Body, threshold float64, rng RandomSource, spawner Spawner) []*Body {
	n := rc.config.FragmentMin
	if rc.config.FragmentSpread > 0 {
		n += rng.IntN(rc.config.FragmentSpread)
	}

	mass := body.Mass / float64(n)
	radius := body.Radius / rc.config.FragmentRadiusDivisor
	offset := threshold * rc.config.FragmentRingFactor

	fragments := make([]*Body, 0, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pos := RingPoint(body.Position, offset, angle)
		vel := Vec3{
			rc.config.FragmentSpeed * math.Cos(angle),
			0,
			rc.config.FragmentSpeed * math.Sin(angle),
		}
		fragments = append(fragments, NewBody(spawner.NextID(string(KindFragment)), KindFragment, mass, radius, pos, vel))
	}

	body.MarkForRemoval()
	return fragments
}
