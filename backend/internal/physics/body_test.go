package physics

import (
	"math"
	"testing"
)

func TestTwoBodyCircularOrbitStaysNearOneAU(t *testing.T) {
	star := NewBody("sun", KindStar, 1, 0.00465, Vec3{}, Vec3{})
	planet := NewBody("earth", KindPlanet, 3.003e-6, 0.0000426, Vec3{1, 0, 0}, Vec3{0, 0, math.Sqrt(G)})
	bodies := []*Body{star, planet}

	const dt = 0.001
	for i := 0; i < 3000; i++ {
		IntegrateAll(bodies, dt)

		r := planet.Position.Sub(star.Position).Len()
		if math.Abs(r-1) > 0.01 {
			t.Fatalf("tick %d: expected distance near 1 AU, got %.6f", i, r)
		}
	}

	if planet.IsMarkedForRemoval() || star.IsMarkedForRemoval() {
		t.Error("Expected no body to be flagged in a stable two-body orbit")
	}
}

func TestAccelerationNewtonThirdLaw(t *testing.T) {
	a := NewBody("a", KindStar, 1, 0, Vec3{0, 0, 0}, Vec3{})
	b := NewBody("b", KindPlanet, 0.5, 0, Vec3{2, 1, -0.5}, Vec3{})
	bodies := []*Body{a, b}

	forceA := a.AccelerationFrom(bodies).Mul(a.Mass)
	forceB := b.AccelerationFrom(bodies).Mul(b.Mass)

	if !vecAlmostEqual(forceA, forceB.Mul(-1), 1e-12) {
		t.Errorf("Expected m_A·a_A == -m_B·a_B, got %v and %v", forceA, forceB)
	}
}

func TestAccelerationSkipsCometsAndZeroSeparation(t *testing.T) {
	tracer := NewBody("tracer", KindAsteroid, 1e-12, 0, Vec3{1, 0, 0}, Vec3{})
	comet := NewBody("comet", KindComet, 1, 0, Vec3{2, 0, 0}, Vec3{})
	twin := NewBody("twin", KindAsteroid, 1, 0, Vec3{1, 0, 0}, Vec3{})

	acc := tracer.AccelerationFrom([]*Body{tracer, comet, twin})
	if acc != (Vec3{}) {
		t.Errorf("Expected zero acceleration, got %v", acc)
	}
	if tracer.IsMarkedForRemoval() {
		t.Error("Zero separation must not flag the body")
	}
}

func TestEventHorizonCaptureShortCircuits(t *testing.T) {
	bh := NewBody("bh", KindBlackHole, 10, SchwarzschildRadius(10), Vec3{}, Vec3{})
	rs := SchwarzschildRadius(10)
	victim := NewBody("victim", KindPlanet, 3e-6, 1e-9, Vec3{rs / 2, 0, 0}, Vec3{})
	star := NewBody("star", KindStar, 1, 0.00465, Vec3{5, 0, 0}, Vec3{})

	acc := victim.AccelerationFrom([]*Body{victim, bh, star})
	if acc != (Vec3{}) {
		t.Errorf("Expected zero acceleration after capture, got %v", acc)
	}
	if !victim.IsMarkedForRemoval() {
		t.Error("Expected captured body to be flagged for removal")
	}
}

func TestSchwarzschildRadius(t *testing.T) {
	// Для 1 M☉ радиус около 2953 м
	got := SchwarzschildRadius(1) * AstronomicalUnitMeters
	if math.Abs(got-2953.3) > 1 {
		t.Errorf("Expected ~2953 m, got %.1f", got)
	}
}

func TestIntegrateIsSemiImplicit(t *testing.T) {
	b := NewBody("b", KindAsteroid, 1e-12, 0, Vec3{}, Vec3{1, 0, 0})
	b.Acceleration = Vec3{2, 0, 0}
	b.Integrate(0.5)

	// v = 1 + 2·0.5 = 2, x = 0 + 2·0.5 = 1
	if !vecAlmostEqual(b.Velocity, Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("Expected velocity (2,0,0), got %v", b.Velocity)
	}
	if !vecAlmostEqual(b.Position, Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("Expected position (1,0,0), got %v", b.Position)
	}
	if b.Trail().Len() != 1 {
		t.Errorf("Expected 1 trail point, got %d", b.Trail().Len())
	}
}

func TestFlaggedBodyIsNotUpdated(t *testing.T) {
	star := NewBody("sun", KindStar, 1, 0, Vec3{}, Vec3{})
	b := NewBody("b", KindPlanet, 1e-6, 0, Vec3{1, 0, 0}, Vec3{0, 0, 1})
	b.MarkForRemoval()

	b.Update(0.01, []*Body{star, b})
	if b.Position != (Vec3{1, 0, 0}) {
		t.Errorf("Expected flagged body to stay in place, got %v", b.Position)
	}
}

func TestIntegrateAllReportsNumericInstability(t *testing.T) {
	good := NewBody("good", KindStar, 1, 0, Vec3{}, Vec3{})
	bad := NewBody("bad", KindAsteroid, 1e-12, 0, Vec3{1, 0, 0}, Vec3{math.Inf(1), 0, 0})

	result := IntegrateAll([]*Body{good, bad}, 0.001)
	if len(result.Unstable) != 1 || result.Unstable[0] != bad {
		t.Fatalf("Expected bad body reported as unstable, got %v", result.Unstable)
	}
	if !bad.IsMarkedForRemoval() {
		t.Error("Expected unstable body to be flagged")
	}
	if good.IsMarkedForRemoval() {
		t.Error("Stable body must not be flagged")
	}
}

func TestUnstableBodyIsIsolatedWithinTick(t *testing.T) {
	// неустойчивое тело обновляется первым, остальные уже видят его позицию
	runaway := NewBody("runaway", KindAsteroid, 1e-12, 0, Vec3{2, 0, 0}, Vec3{math.Inf(1), 0, 0})
	star := NewBody("sun", KindStar, 1, 0, Vec3{}, Vec3{})
	planet := NewBody("earth", KindPlanet, 3e-6, 0, Vec3{1, 0, 0}, Vec3{0, 0, 2 * math.Pi})

	result := IntegrateAll([]*Body{runaway, star, planet}, 0.01)

	if len(result.Unstable) != 1 || result.Unstable[0] != runaway {
		t.Fatalf("Expected only runaway reported as unstable, got %v", bodyIDsOf(result.Unstable))
	}
	for _, b := range []*Body{star, planet} {
		if b.IsMarkedForRemoval() {
			t.Errorf("Expected %s to survive", b.ID)
		}
		if !IsFinite(b.Position) || !IsFinite(b.Velocity) {
			t.Errorf("Expected finite state for %s, got pos=%v vel=%v", b.ID, b.Position, b.Velocity)
		}
	}
}

func TestAccelerationSkipsOverflowingSeparation(t *testing.T) {
	star := NewBody("sun", KindStar, 1, 0, Vec3{}, Vec3{})
	needle := NewBody("needle", KindAsteroid, 1e-5, 0, Vec3{1e-160, 0, 0}, Vec3{})
	planet := NewBody("earth", KindPlanet, 3e-6, 0, Vec3{1, 0, 0}, Vec3{})

	acc := star.AccelerationFrom([]*Body{star, needle, planet})
	if !IsFinite(acc) {
		t.Fatalf("Expected finite acceleration, got %v", acc)
	}
	want := G * planet.Mass
	if !almostEqual(acc.X(), want, 1e-18) {
		t.Errorf("Expected only the planet term %g, got %g", want, acc.X())
	}

	if !star.Update(0.001, []*Body{star, needle, planet}) {
		t.Error("Expected star to stay stable")
	}
}

func TestTrailIsBounded(t *testing.T) {
	tests := []struct {
		kind Kind
		cap  int
	}{
		{KindPlanet, DefaultTrailLength},
		{KindComet, CometTrailLength},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			b := NewBody("b", tt.kind, 1, 0, Vec3{}, Vec3{})
			for i := 0; i < tt.cap+50; i++ {
				b.Trail().Push(Vec3{float64(i), 0, 0})
			}
			points := b.Trail().Points()
			if len(points) != tt.cap {
				t.Fatalf("Expected %d points, got %d", tt.cap, len(points))
			}
			if points[0].X() != 50 || points[len(points)-1].X() != float64(tt.cap+49) {
				t.Errorf("Expected oldest 50 and newest %d, got %v and %v", tt.cap+49, points[0].X(), points[len(points)-1].X())
			}
		})
	}
}

func TestStatsOf(t *testing.T) {
	earth := NewBody("earth", KindPlanet, 3e-6, 0, Vec3{1, 0, 0}, Vec3{0, 0, math.Sqrt(G)})
	stats := StatsOf(earth)

	if stats.OrbitalPeriodDays == nil {
		t.Fatal("Expected orbital period for a planet")
	}
	if math.Abs(*stats.OrbitalPeriodDays-DaysPerYear) > 1e-6 {
		t.Errorf("Expected period %.4f days, got %.4f", DaysPerYear, *stats.OrbitalPeriodDays)
	}
	// 2π АЕ/год ≈ 29.8 км/с
	if math.Abs(stats.SpeedKmS-29.78) > 0.1 {
		t.Errorf("Expected ~29.78 km/s, got %.2f", stats.SpeedKmS)
	}

	comet := NewBody("c", KindComet, 1e-17, 0, Vec3{10, 0, 0}, Vec3{})
	if StatsOf(comet).OrbitalPeriodDays != nil {
		t.Error("Expected no orbital period for a comet")
	}
}
