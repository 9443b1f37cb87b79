package game

import (
	"math"
	"testing"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/physics"
	"orbital-sim/backend/internal/telemetry"
	"orbital-sim/backend/internal/world"
)

func TestSeededSimulationCensus(t *testing.T) {
	sim := newSeededSimulation(t)

	counts := sim.CountByKind()
	want := map[string]int{"star": 1, "planet": 8, "moon": 1, "asteroid": 200}
	for kind, n := range want {
		if counts[kind] != n {
			t.Errorf("%s: got %d, want %d", kind, counts[kind], n)
		}
	}
}

func TestStepAdvancesWorldAndClock(t *testing.T) {
	sim := newSeededSimulation(t)
	before, _ := findSnapshot(sim.Snapshot(), "Earth")

	report := sim.Step()

	if !report.Ran || report.Tick != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.SimYears != sim.config.Timestep {
		t.Errorf("clock should advance by one timestep, got %v", report.SimYears)
	}

	after, _ := findSnapshot(sim.Snapshot(), "Earth")
	if after.Position == before.Position {
		t.Error("Earth did not move")
	}
	if after.TrailLength != 1 {
		t.Errorf("expected trail length 1, got %d", after.TrailLength)
	}
}

func TestPausedStepLeavesPhysicsUntouched(t *testing.T) {
	sim := newSeededSimulation(t)
	sim.SetRunning(false)
	before, _ := findSnapshot(sim.Snapshot(), "Mars")

	report := sim.Step()

	if report.Ran || report.Tick != 0 {
		t.Errorf("paused step should not run: %+v", report)
	}
	after, _ := findSnapshot(sim.Snapshot(), "Mars")
	if after.Position != before.Position {
		t.Error("paused simulation moved a body")
	}
	if sim.Clock().ElapsedYears != 0 {
		t.Error("paused clock advanced")
	}
}

func TestPlanetsMergeWithinTick(t *testing.T) {
	sim := newEmptySimulation(t)
	a := mustCreate(t, sim, world.CreationRequest{
		Name: "a", Kind: "planet", Mass: 1e-6, Radius: 0.01,
		Position: world.Vector3{X: 1}, Velocity: world.Vector3{Z: 1},
	})
	b := mustCreate(t, sim, world.CreationRequest{
		Name: "b", Kind: "planet", Mass: 3e-6, Radius: 0.01,
		Position: world.Vector3{X: 1.005}, Velocity: world.Vector3{Z: -1},
	})

	report := sim.Step()

	if report.Merges != 1 || report.Collisions != 1 {
		t.Fatalf("expected one merge, got %+v", report)
	}
	if !contains(report.Removed, a.ID) || !contains(report.Removed, b.ID) {
		t.Errorf("both planets must be purged, removed=%v", report.Removed)
	}
	if len(report.Added) != 1 {
		t.Fatalf("expected merged body to be added, got %v", report.Added)
	}

	snaps := sim.Snapshot()
	if len(snaps) != 1 {
		t.Fatalf("expected a single body, got %d", len(snaps))
	}
	merged := snaps[0]
	if merged.Kind != "merged-planet" {
		t.Errorf("unexpected kind %s", merged.Kind)
	}
	if math.Abs(merged.Mass-4e-6) > 1e-18 {
		t.Errorf("mass not conserved: %v", merged.Mass)
	}

	events := sim.Events(0)
	last := events[len(events)-1]
	if last.Type != telemetry.EventMerge || last.Rule != "planets-merge" {
		t.Errorf("unexpected journal entry: %+v", last)
	}
}

func TestBlackHoleAbsorbsThroughPipeline(t *testing.T) {
	sim := newEmptySimulation(t)
	mustCreate(t, sim, world.CreationRequest{Name: "bh", Kind: "black-hole", Mass: 1, Radius: 0.1})
	mustCreate(t, sim, world.CreationRequest{
		Name: "rock", Kind: "asteroid", Mass: 1e-15, Radius: 0.01,
		Position: world.Vector3{X: 0.05},
	})

	report := sim.Step()

	if !contains(report.Removed, "rock") {
		t.Fatalf("asteroid should be absorbed, removed=%v", report.Removed)
	}
	if _, ok := findSnapshot(sim.Snapshot(), "bh"); !ok {
		t.Error("black hole must survive")
	}

	found := false
	for _, e := range sim.Events(0) {
		if e.Type == telemetry.EventCollision && e.Rule == "black-hole-absorbs" {
			found = true
		}
	}
	if !found {
		t.Error("collision event not journaled")
	}
}

func TestEventHorizonCaptureReported(t *testing.T) {
	sim := newEmptySimulation(t)
	// метеор раньше черной дыры в списке, чтобы его обновление шло первым
	mustCreate(t, sim, world.CreationRequest{
		Name: "m", Kind: "meteor", Mass: 1e-20, Radius: 1e-12,
		Position: world.Vector3{X: 1e-9},
	})
	mustCreate(t, sim, world.CreationRequest{Name: "bh", Kind: "black-hole", Mass: 1})

	report := sim.Step()

	if !contains(report.Captured, "m") {
		t.Fatalf("meteor should be captured, report=%+v", report)
	}
	if !contains(report.Removed, "m") {
		t.Errorf("captured meteor should be purged in the same tick")
	}
}

func TestTidalDisruptionDefersFragments(t *testing.T) {
	sim := newEmptySimulation(t)
	_, _ = sim.SetTimestep(1e-6)
	mustCreate(t, sim, world.CreationRequest{
		Name: "wd", Kind: "white-dwarf", Mass: 1e-9, Radius: 0.01,
		Position: world.Vector3{X: 1, Z: 2},
	})
	mustCreate(t, sim, world.CreationRequest{
		Name: "victim", Kind: "planet", Mass: 1e-6, Radius: 1e-4,
		Position: world.Vector3{X: 1, Z: 2.03},
	})

	report := sim.Step()

	if report.Disruptions != 1 {
		t.Fatalf("expected one disruption, got %+v", report)
	}
	if n := len(report.Added); n < 5 || n > 9 {
		t.Fatalf("expected 5..9 fragments, got %d", n)
	}

	victim, ok := findSnapshot(sim.Snapshot(), "victim")
	if !ok || !victim.MarkedForRemoval {
		t.Fatal("disrupted planet should linger flagged until the next purge")
	}

	total := 0.0
	for _, s := range sim.Snapshot() {
		if s.Kind == "fragment" {
			total += s.Mass
		}
	}
	if math.Abs(total-1e-6) > 1e-15 {
		t.Errorf("fragment mass %v != progenitor mass", total)
	}

	report = sim.Step()
	if !contains(report.Removed, "victim") {
		t.Errorf("victim should be purged on the next tick, removed=%v", report.Removed)
	}
}

func TestCometRetirementAndClear(t *testing.T) {
	sim := newEmptySimulation(t)
	mustCreate(t, sim, world.CreationRequest{
		Name: "far", Kind: "comet", Mass: 1e-17,
		Position: world.Vector3{X: 85},
	})

	report := sim.Step()
	if !contains(report.RetiredComets, "far") {
		t.Fatalf("comet beyond outer bound should retire, got %+v", report)
	}
	report = sim.Step()
	if !contains(report.Removed, "far") {
		t.Errorf("retired comet should be purged next tick")
	}

	sim.SpawnComet()
	sim.SpawnComet()
	if n := sim.ClearComets(); n != 2 {
		t.Fatalf("expected to clear 2 comets, got %d", n)
	}
	report = sim.Step()
	if len(report.Removed) != 2 {
		t.Errorf("cleared comets should be purged, removed=%v", report.Removed)
	}
	if sim.CountByKind()["comet"] != 0 {
		t.Error("comets remain after clear")
	}
}

func TestPeriodicCometSpawn(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.Seeds = world.SeedTable{}
	cfg.CometEveryTicks = 2
	sim := NewSimulation(cfg, nil, discardLogger())

	if r := sim.Step(); r.SpawnedComet != "" {
		t.Errorf("no comet expected on tick 1, got %s", r.SpawnedComet)
	}
	r := sim.Step()
	if r.SpawnedComet == "" {
		t.Fatal("expected a comet on tick 2")
	}

	stats, err := sim.BodyStats(r.SpawnedComet)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(stats.RadialDistance-55) > 1e-9 {
		t.Errorf("comet should spawn at 55 AU, got %v", stats.RadialDistance)
	}
}

func TestSetTimestep(t *testing.T) {
	sim := newSeededSimulation(t)

	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := sim.SetTimestep(dt); !apperrors.Is(err, apperrors.ErrorTypeInvalidParameter) {
			t.Errorf("SetTimestep(%v): expected invalid parameter, got %v", dt, err)
		}
	}

	paused, err := sim.SetTimestep(1e-7)
	if err != nil || !paused {
		t.Fatalf("tiny timestep should pause: paused=%v err=%v", paused, err)
	}
	if sim.Clock().Running {
		t.Error("simulation still running")
	}

	paused, err = sim.SetTimestep(0.002)
	if err != nil || paused {
		t.Errorf("unexpected result: paused=%v err=%v", paused, err)
	}
	if sim.Clock().Timestep != 0.002 {
		t.Errorf("timestep not applied")
	}

	if running := sim.ToggleRunning(); !running {
		t.Error("toggle should resume")
	}
}

func TestCreateBodyRejectionIsAtomic(t *testing.T) {
	sim := newSeededSimulation(t)
	before := len(sim.Snapshot())
	eventsBefore := len(sim.Events(0))

	_, err := sim.CreateBody(world.CreationRequest{Kind: "planet", Mass: -1})
	if !apperrors.Is(err, apperrors.ErrorTypeInvalidParameter) {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
	if len(sim.Snapshot()) != before || len(sim.Events(0)) != eventsBefore {
		t.Error("rejected request changed state")
	}
}

func TestResetRestoresInitialConfiguration(t *testing.T) {
	sim := newSeededSimulation(t)
	mustCreate(t, sim, world.CreationRequest{Kind: "black-hole", Mass: 5, Position: world.Vector3{X: 40}})
	for i := 0; i < 5; i++ {
		sim.Step()
	}

	sim.Reset()

	if got := len(sim.Snapshot()); got != 210 {
		t.Errorf("expected 210 bodies after reset, got %d", got)
	}
	clock := sim.Clock()
	if clock.ElapsedYears != 0 || !clock.Running {
		t.Errorf("unexpected clock after reset: %+v", clock)
	}
	if sim.CountByKind()["black-hole"] != 0 {
		t.Error("user bodies survived reset")
	}
}

func TestBodyStats(t *testing.T) {
	sim := newSeededSimulation(t)

	earth, err := sim.BodyStats("Earth")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(earth.RadialDistance-1) > 1e-12 {
		t.Errorf("Earth distance %v", earth.RadialDistance)
	}
	if earth.OrbitalPeriodDays == nil || math.Abs(*earth.OrbitalPeriodDays-physics.DaysPerYear) > 0.01 {
		t.Errorf("Earth period %v", earth.OrbitalPeriodDays)
	}
	if earth.Reference == nil || earth.Reference.Eccentricity != 0.0167 {
		t.Errorf("Earth reference data missing: %+v", earth.Reference)
	}

	rock, err := sim.BodyStats("asteroid-0")
	if err != nil {
		t.Fatal(err)
	}
	if rock.OrbitalPeriodDays != nil {
		t.Error("asteroid should have no period estimate")
	}

	if _, err := sim.BodyStats("Vulcan"); !apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestNearSingularBodyDoesNotPoisonWorld(t *testing.T) {
	sim := newSeededSimulation(t)
	before := len(sim.Snapshot())

	mustCreate(t, sim, world.CreationRequest{
		Name: "needle", Kind: "asteroid", Mass: 1e-5,
		Position: world.Vector3{X: 1e-160},
	})

	report := sim.Step()

	for _, id := range report.Unstable {
		if id != "needle" {
			t.Errorf("%s flagged unstable by a neighbour's singularity", id)
		}
	}

	survivors := 0
	for _, s := range sim.Snapshot() {
		if s.ID == "needle" {
			continue
		}
		if s.MarkedForRemoval {
			t.Errorf("%s should survive the tick", s.ID)
		}
		p := s.Position
		if math.IsNaN(p.X+p.Y+p.Z) || math.IsInf(p.X+p.Y+p.Z, 0) {
			t.Errorf("%s has non-finite position %+v", s.ID, p)
		}
		survivors++
	}
	if survivors != before {
		t.Errorf("expected %d seeded bodies to survive, got %d", before, survivors)
	}
}
