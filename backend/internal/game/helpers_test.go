package game

import (
	"io"
	"log"
	"testing"

	"orbital-sim/backend/internal/world"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newEmptySimulation симуляция без начальных тел и автоматических комет
func newEmptySimulation(t *testing.T) *Simulation {
	t.Helper()
	cfg := DefaultSimulationConfig()
	cfg.Seeds = world.SeedTable{}
	cfg.CometEveryTicks = 0
	cfg.MinTimestep = 0
	return NewSimulation(cfg, nil, discardLogger())
}

func newSeededSimulation(t *testing.T) *Simulation {
	t.Helper()
	cfg := DefaultSimulationConfig()
	cfg.CometEveryTicks = 0
	return NewSimulation(cfg, nil, discardLogger())
}

func mustCreate(t *testing.T, sim *Simulation, req world.CreationRequest) world.BodySnapshot {
	t.Helper()
	snap, err := sim.CreateBody(req)
	if err != nil {
		t.Fatalf("CreateBody(%+v): %v", req, err)
	}
	return snap
}

func findSnapshot(snaps []world.BodySnapshot, id string) (world.BodySnapshot, bool) {
	for _, s := range snaps {
		if s.ID == id {
			return s, true
		}
	}
	return world.BodySnapshot{}, false
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
