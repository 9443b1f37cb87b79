package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/config"
	"orbital-sim/backend/internal/telemetry"
	"orbital-sim/backend/internal/transport/ws"
	"orbital-sim/backend/internal/world"
)

const maxBodyBytes = 64 << 10

// Simulation операции симуляции, доступные через HTTP
type Simulation interface {
	ws.Controller
	Snapshot() []world.BodySnapshot
	Events(n int) []telemetry.Event
	CountByKind() map[string]int
}

// TickerStats драйвер тиков с его статистикой
type TickerStats interface {
	TickerState
	GetStats() map[string]interface{}
}

// HealthResponse ответ эндпоинта здоровья
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	TickerRunning bool   `json:"ticker_running"`
	Bodies        int    `json:"bodies"`
}

// API HTTP интерфейс симуляции
type API struct {
	sim     Simulation
	ticker  TickerStats
	auth    *Authenticator
	metrics http.Handler
	ws      http.Handler
	logger  *log.Logger
}

// NewAPI создает HTTP API. auth, metrics и wsHandler могут быть nil.
func NewAPI(sim Simulation, ticker TickerStats, auth *Authenticator, metrics http.Handler, wsHandler http.Handler, logger *log.Logger) *API {
	if logger == nil {
		logger = log.Default()
	}
	return &API{
		sim:     sim,
		ticker:  ticker,
		auth:    auth,
		metrics: metrics,
		ws:      wsHandler,
		logger:  logger,
	}
}

// Routes регистрирует маршруты
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Публичные эндпоинты
	mux.HandleFunc("GET /api/bodies", a.getBodies)
	mux.HandleFunc("GET /api/bodies/{id}/stats", a.getBodyStats)
	mux.HandleFunc("GET /api/clock", a.getClock)
	mux.HandleFunc("GET /api/census", a.getCensus)
	mux.HandleFunc("GET /api/events", a.getEvents)
	mux.HandleFunc("GET /api/server/health", a.getHealth)
	mux.HandleFunc("GET /api/server/stats", a.getServerStats)
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics)
	}
	if a.ws != nil {
		mux.Handle("GET /ws", a.ws)
	}

	// Изменяющие эндпоинты под защитой токена
	mux.Handle("POST /api/bodies", a.auth.Middleware(http.HandlerFunc(a.createBody)))
	mux.Handle("POST /api/control/toggle", a.auth.Middleware(a.control(ws.CommandToggle)))
	mux.Handle("POST /api/control/timestep", a.auth.Middleware(a.control(ws.CommandSetTimestep)))
	mux.Handle("POST /api/control/reset", a.auth.Middleware(a.control(ws.CommandReset)))
	mux.Handle("POST /api/control/clear-comets", a.auth.Middleware(a.control(ws.CommandClearComets)))
	mux.Handle("POST /api/control/spawn-comet", a.auth.Middleware(a.control(ws.CommandSpawnComet)))

	a.logger.Printf("[API] routes configured (auth=%v, metrics=%v, ws=%v)",
		a.auth != nil, a.metrics != nil, a.ws != nil)
	return mux
}

// Handler собирает маршруты с цепочкой middleware: метрики, CORS, лимит частоты
func (a *API) Handler(c *cors.Cors, limiter *RateLimiter, recorder RequestRecorder) http.Handler {
	var handler http.Handler = a.Routes()
	if limiter != nil {
		handler = limiter.Middleware(handler)
	}
	if c != nil {
		handler = c.Handler(handler)
	}
	return Instrument(recorder, handler)
}

// NewHTTPServer создает HTTP сервер с таймаутами из конфигурации
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func (a *API) getBodies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.sim.Snapshot())
}

func (a *API) getBodyStats(w http.ResponseWriter, r *http.Request) {
	report, err := a.sim.BodyStats(r.PathValue("id"))
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) getClock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.sim.Clock())
}

func (a *API) getCensus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.sim.CountByKind())
}

func (a *API) getEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, a.logger, apperrors.InvalidParameterf("limit must be a non-negative integer, got %q", raw))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, a.sim.Events(limit))
}

func (a *API) getHealth(w http.ResponseWriter, r *http.Request) {
	running := a.ticker != nil && a.ticker.IsRunning()
	status := "healthy"
	if !running {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        status,
		Timestamp:     time.Now().Format(time.RFC3339),
		TickerRunning: running,
		Bodies:        len(a.sim.Snapshot()),
	})
}

func (a *API) getServerStats(w http.ResponseWriter, r *http.Request) {
	if a.ticker == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, a.ticker.GetStats())
}

func (a *API) createBody(w http.ResponseWriter, r *http.Request) {
	var req world.CreationRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, r, a.logger, apperrors.WrapInvalidParameter("malformed creation request", err))
		return
	}

	snapshot, err := a.sim.CreateBody(req)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

// control выполняет команду управления так же, как WebSocket канал
func (a *API) control(cmd string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, r, a.logger, apperrors.InvalidParameterf("request body too large"))
				return
			}
			writeError(w, r, a.logger, apperrors.WrapInternal("read request body", err))
			return
		}

		result, err := ws.DispatchCommand(a.sim, &ws.CommandMessage{
			Type: ws.MessageTypeCommand,
			Cmd:  cmd,
			Data: data,
		})
		if err != nil {
			writeError(w, r, a.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})
}
