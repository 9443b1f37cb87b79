package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orbital-sim/backend/internal/config"
	"orbital-sim/backend/internal/game"
	"orbital-sim/backend/internal/telemetry"
	"orbital-sim/backend/internal/transport"
	"orbital-sim/backend/internal/transport/ws"
)

func main() {
	var (
		envFile    = flag.String("env", ".env", "Файл с переменными окружения")
		issueToken = flag.String("issue-token", "", "Выпустить токен оператора с указанным subject и выйти")
		tokenTTL   = flag.Duration("token-ttl", 24*time.Hour, "Срок действия выпускаемого токена")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("[Server] config: %v", err)
	}

	logger := log.New(os.Stdout, cfg.Logging.Prefix, log.LstdFlags|log.Lmicroseconds)
	auth := transport.NewAuthenticator(cfg.Auth, logger)

	if *issueToken != "" {
		if auth == nil {
			log.Fatal("[Server] AUTH_JWT_SECRET is not set, cannot issue tokens")
		}
		token, err := auth.IssueToken(*issueToken, *tokenTTL)
		if err != nil {
			log.Fatalf("[Server] issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg, auth, logger); err != nil {
		logger.Fatalf("[Server] %v", err)
	}
}

func run(cfg *config.Config, auth *transport.Authenticator, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Телеметрия
	metrics := telemetry.NewMetrics(nil)
	journal := telemetry.NewJournal(cfg.Simulation.JournalSize, logger)
	journal.SetMetrics(metrics)

	// Симуляция и драйвер тиков
	simCfg := cfg.SimulationConfig()
	simCfg.Debug = cfg.Debug()
	sim := game.NewSimulation(simCfg, journal, logger)

	ticker := game.NewGameTicker(cfg.Simulation.TPS, sim, logger)
	ticker.SetMetrics(metrics)

	netSync := game.NewNetworkSyncSystem(ticker, cfg.Server.BroadcastInterval, logger)
	ticker.RegisterSystem(netSync)
	ticker.RegisterSystem(game.NewGameMetricsSystem(ticker, metrics, logger))

	// WebSocket
	wsServer := ws.NewWSServer(sim, ws.Options{
		PingInterval:      ws.DefaultPingInterval,
		CommandsPerSecond: cfg.RateLimit.WSCommandsPerSecond,
		CommandBurst:      cfg.RateLimit.WSCommandBurst,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
	}, logger)
	wsServer.SetConnectionGauge(metrics)
	netSync.AddBroadcaster(wsServer)

	// Redis
	redisClient, err := transport.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		netSync.AddBroadcaster(transport.NewSnapshotPublisher(redisClient, cfg.Redis.Channel, cfg.Redis.PublishInterval, logger))
	}

	// HTTP
	limiter := transport.NewRateLimiter(cfg.RateLimit, logger)
	defer limiter.Close()
	api := transport.NewAPI(sim, ticker, auth, metrics.Handler(), http.HandlerFunc(wsServer.HandleWS), logger)
	httpServer := transport.NewHTTPServer(cfg.Server, api.Handler(transport.NewCORS(cfg.CORS), limiter, metrics))

	// gRPC
	healthServer := transport.NewHealthServer(cfg.Server.GRPCAddr, logger)
	if err := healthServer.Start(); err != nil {
		return fmt.Errorf("grpc: %w", err)
	}
	defer healthServer.Stop()

	if err := ticker.Start(ctx); err != nil {
		return fmt.Errorf("ticker: %w", err)
	}
	defer ticker.Stop()
	go healthServer.Watch(ctx, ticker, time.Second)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("[Server] HTTP listening on %s (env=%s)", cfg.Server.HTTPAddr, cfg.Server.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Printf("[Server] shutdown requested")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	wsServer.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("[Server] HTTP shutdown: %v", err)
	}

	stats := ticker.GetStats()
	logger.Printf("[Server] stopped after %v ticks, %s simulated",
		stats["tick_count"], sim.Calendar())
	return nil
}
