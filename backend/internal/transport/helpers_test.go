package transport

import (
	"io"
	"log"
	"testing"

	"orbital-sim/backend/internal/game"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestSimulation(t *testing.T) *game.Simulation {
	t.Helper()
	cfg := game.DefaultSimulationConfig()
	cfg.CometEveryTicks = 0
	return game.NewSimulation(cfg, nil, discardLogger())
}

// stubTicker драйвер тиков с фиксированным состоянием
type stubTicker struct {
	running bool
}

func (s *stubTicker) IsRunning() bool { return s.running }

func (s *stubTicker) GetStats() map[string]interface{} {
	return map[string]interface{}{"is_running": s.running, "tick_count": 0}
}
