package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics коллектор Prometheus метрик симуляции
type Metrics struct {
	tickDuration   prometheus.Histogram
	ticksTotal     prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	bodies         *prometheus.GaugeVec
	simYears       prometheus.Gauge
	running        prometheus.Gauge
	wsConnections  prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics создает и регистрирует метрики. nil регистратор дает отдельный реестр.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		registry := prometheus.NewRegistry()
		reg = registry
		gatherer = registry
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orbital_tick_duration_seconds",
				Help:    "Time spent processing one simulation tick",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
			},
		),
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orbital_ticks_total",
				Help: "Total number of simulation ticks executed",
			},
		),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbital_events_total",
				Help: "Total number of simulation events by type",
			},
			[]string{"type"},
		),
		bodies: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbital_bodies",
				Help: "Number of live bodies by kind",
			},
			[]string{"kind"},
		),
		simYears: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orbital_simulated_years",
				Help: "Simulated time in years",
			},
		),
		running: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orbital_running",
				Help: "1 when the simulation is advancing",
			},
		),
		wsConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orbital_ws_connections",
				Help: "Active WebSocket connections",
			},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbital_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"route", "code"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "orbital_http_request_duration_seconds",
				Help: "Time spent processing HTTP API requests",
			},
			[]string{"route"},
		),
		gatherer: gatherer,
	}

	reg.MustRegister(
		m.tickDuration,
		m.ticksTotal,
		m.eventsTotal,
		m.bodies,
		m.simYears,
		m.running,
		m.wsConnections,
		m.requestsTotal,
		m.requestLatency,
	)

	return m
}

// RecordTick учитывает длительность тика
func (m *Metrics) RecordTick(duration time.Duration) {
	m.tickDuration.Observe(duration.Seconds())
	m.ticksTotal.Inc()
}

// RecordEvent реализует EventCounter
func (m *Metrics) RecordEvent(eventType EventType) {
	m.eventsTotal.WithLabelValues(string(eventType)).Inc()
}

// SetBodyCounts обновляет численность тел по видам
func (m *Metrics) SetBodyCounts(counts map[string]int) {
	m.bodies.Reset()
	for kind, n := range counts {
		m.bodies.WithLabelValues(kind).Set(float64(n))
	}
}

// SetClock обновляет время симуляции и флаг работы
func (m *Metrics) SetClock(years float64, running bool) {
	m.simYears.Set(years)
	if running {
		m.running.Set(1)
	} else {
		m.running.Set(0)
	}
}

// SetConnections обновляет число WebSocket соединений
func (m *Metrics) SetConnections(n int) {
	m.wsConnections.Set(float64(n))
}

// RecordRequest учитывает HTTP запрос
func (m *Metrics) RecordRequest(route string, code int, duration time.Duration) {
	m.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(route, http.StatusText(code)).Inc()
}

// Handler HTTP обработчик для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
