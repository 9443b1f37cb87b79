package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"orbital-sim/backend/internal/config"
	"orbital-sim/backend/internal/game"
	"orbital-sim/backend/internal/telemetry"
)

// summary итог прогона
type summary struct {
	Ticks    uint64                         `json:"ticks"`
	Clock    game.ClockState                `json:"clock"`
	Census   map[string]int                 `json:"census"`
	Counters map[telemetry.EventType]uint64 `json:"counters"`
	Events   []telemetry.Event              `json:"events,omitempty"`
	Elapsed  string                         `json:"wall_time"`
}

func main() {
	var (
		envFile   = flag.String("env", ".env", "Файл с переменными окружения")
		ticks     = flag.Uint64("ticks", 10000, "Количество тиков")
		dt        = flag.Float64("dt", 0, "Шаг времени в годах (0: из конфигурации)")
		seed      = flag.Uint64("seed", 1, "Зерно генератора (0: от текущего времени)")
		asteroids = flag.Int("asteroids", -1, "Число астероидов пояса (-1: из конфигурации)")
		comets    = flag.Uint64("comet-every", 0, "Период появления комет в тиках (0: выключено)")
		report    = flag.Uint64("report", 1000, "Период промежуточного отчета в тиках (0: выключено)")
		events    = flag.Int("events", 10, "Число последних событий в итоге")
		asJSON    = flag.Bool("json", false, "Вывести итог в JSON")
		verbose   = flag.Bool("v", false, "Логировать работу симуляции")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("[Headless] config: %v", err)
	}
	if *seed != 0 {
		cfg.Simulation.RandomSeed = *seed
	}
	if *asteroids >= 0 {
		cfg.Simulation.AsteroidCount = *asteroids
	}

	logger := log.New(os.Stderr, cfg.Logging.Prefix, log.LstdFlags)
	if !*verbose {
		logger.SetOutput(io.Discard)
	}

	simCfg := cfg.SimulationConfig()
	simCfg.StartRunning = true
	simCfg.CometEveryTicks = *comets
	if *dt > 0 {
		simCfg.Timestep = *dt
	}
	sim := game.NewSimulation(simCfg, nil, logger)

	start := time.Now()
	for i := uint64(1); i <= *ticks; i++ {
		sim.Step()
		if *report > 0 && i%*report == 0 && !*asJSON {
			fmt.Printf("tick %-8d %-28s bodies=%d\n", i, sim.Calendar(), len(sim.Snapshot()))
		}
	}

	result := summary{
		Ticks:    sim.TickCount(),
		Clock:    sim.Clock(),
		Census:   sim.CountByKind(),
		Counters: sim.Journal().Counters(),
		Events:   sim.Events(*events),
		Elapsed:  time.Since(start).Round(time.Millisecond).String(),
	}

	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			log.Fatalf("[Headless] encode: %v", err)
		}
		return
	}
	printSummary(result)
}

func printSummary(s summary) {
	fmt.Printf("\n%d ticks in %s, simulated %.4f yr: %s\n", s.Ticks, s.Elapsed, s.Clock.ElapsedYears, s.Clock.Display)

	fmt.Println("\nCensus:")
	kinds := make([]string, 0, len(s.Census))
	for kind := range s.Census {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("  %-12s %d\n", kind, s.Census[kind])
	}

	if len(s.Counters) > 0 {
		fmt.Println("\nEvents:")
		types := make([]string, 0, len(s.Counters))
		for t := range s.Counters {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %-20s %d\n", t, s.Counters[telemetry.EventType(t)])
		}
	}

	if len(s.Events) > 0 {
		fmt.Println("\nRecent:")
		for _, e := range s.Events {
			fmt.Printf("  tick %-8d %-20s %v %s\n", e.Tick, e.Type, e.BodyIDs, e.Detail)
		}
	}
}
