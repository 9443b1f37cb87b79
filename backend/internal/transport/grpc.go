package transport

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// SimulationService имя сервиса в протоколе здоровья gRPC
const SimulationService = "orbital.Simulation"

// TickerState состояние драйвера тиков
type TickerState interface {
	IsRunning() bool
}

// HealthServer gRPC сервер, сообщающий состояние симуляции
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	addr     string
	listener net.Listener
	logger   *log.Logger

	mu      sync.Mutex
	serving bool
}

// NewHealthServer создает gRPC сервер со стандартным сервисом здоровья
func NewHealthServer(addr string, logger *log.Logger) *HealthServer {
	if logger == nil {
		logger = log.Default()
	}

	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	hs := &HealthServer{
		server: server,
		health: healthServer,
		addr:   addr,
		logger: logger,
	}
	hs.SetServing(false)
	return hs
}

// SetServing переключает статус для общего сервиса и сервиса симуляции
func (h *HealthServer) SetServing(serving bool) {
	h.mu.Lock()
	changed := h.serving != serving
	h.serving = serving
	h.mu.Unlock()

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(SimulationService, status)

	if changed {
		h.logger.Printf("[gRPC] health status: %s", status)
	}
}

// Start открывает порт и запускает обслуживание в отдельной горутине
func (h *HealthServer) Start() error {
	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", h.addr, err)
	}
	h.listener = listener

	go func() {
		if err := h.server.Serve(listener); err != nil {
			h.logger.Printf("[gRPC] serve error: %v", err)
		}
	}()

	h.logger.Printf("[gRPC] health server listening on %s", listener.Addr())
	return nil
}

// Addr фактический адрес после Start
func (h *HealthServer) Addr() string {
	if h.listener == nil {
		return h.addr
	}
	return h.listener.Addr().String()
}

// Watch синхронизирует статус с драйвером тиков до отмены контекста
func (h *HealthServer) Watch(ctx context.Context, ticker TickerState, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	h.SetServing(ticker.IsRunning())
	for {
		select {
		case <-ctx.Done():
			h.SetServing(false)
			return
		case <-t.C:
			h.SetServing(ticker.IsRunning())
		}
	}
}

// Stop останавливает сервер, дожидаясь завершения активных вызовов
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
