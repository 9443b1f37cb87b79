package game

import (
	"log"
	"time"

	"orbital-sim/backend/internal/world"
)

// SnapshotFrame состояние мира для рассылки клиентам
type SnapshotFrame struct {
	Type      string               `json:"type"`
	Tick      uint64               `json:"tick"`
	Timestamp int64                `json:"timestamp"`
	Clock     ClockState           `json:"clock"`
	Bodies    []world.BodySnapshot `json:"bodies"`
}

// SnapshotBroadcaster интерфейс для отправки снимков мира потребителям
type SnapshotBroadcaster interface {
	BroadcastSnapshot(frame SnapshotFrame) error
}

// NetworkSyncSystem система рассылки снимков мира
type NetworkSyncSystem struct {
	name          string
	priority      int
	ticker        *GameTicker
	logger        *log.Logger
	lastBroadcast time.Time

	// Интервал рассылки
	broadcastInterval time.Duration

	broadcasters []SnapshotBroadcaster
}

// NewNetworkSyncSystem создает новую систему сетевой синхронизации
func NewNetworkSyncSystem(ticker *GameTicker, broadcastInterval time.Duration, logger *log.Logger) *NetworkSyncSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &NetworkSyncSystem{
		name:              "NetworkSyncSystem",
		priority:          100, // Самый низкий приоритет - отправляем в конце тика
		ticker:            ticker,
		logger:            logger,
		broadcastInterval: broadcastInterval,
	}
}

// AddBroadcaster добавляет получателя снимков
func (nss *NetworkSyncSystem) AddBroadcaster(b SnapshotBroadcaster) {
	nss.broadcasters = append(nss.broadcasters, b)
}

// Update отправляет снимок всем получателям с ограничением частоты
func (nss *NetworkSyncSystem) Update(deltaTime float64) error {
	if len(nss.broadcasters) == 0 {
		return nil
	}

	now := time.Now()
	if now.Sub(nss.lastBroadcast) < nss.broadcastInterval {
		return nil
	}
	nss.lastBroadcast = now

	sim := nss.ticker.Simulation()
	clock := sim.Clock()
	frame := SnapshotFrame{
		Type:      "snapshot",
		Tick:      clock.Tick,
		Timestamp: now.UnixMilli(),
		Clock:     clock,
		Bodies:    sim.Snapshot(),
	}

	// Логируем периодически для отладки
	if nss.ticker.GetTickCount()%600 == 0 {
		nss.logger.Printf("[NetworkSyncSystem] broadcasting %d bodies to %d consumers",
			len(frame.Bodies), len(nss.broadcasters))
	}

	for _, b := range nss.broadcasters {
		if err := b.BroadcastSnapshot(frame); err != nil {
			nss.logger.Printf("[NetworkSyncSystem] broadcast failed: %v", err)
		}
	}

	return nil
}

// GetName возвращает имя системы
func (nss *NetworkSyncSystem) GetName() string {
	return nss.name
}

// GetPriority возвращает приоритет системы
func (nss *NetworkSyncSystem) GetPriority() int {
	return nss.priority
}

// GameMetricsSystem система сбора метрик симуляции
type GameMetricsSystem struct {
	name     string
	priority int
	ticker   *GameTicker
	sink     MetricsSink
	logger   *log.Logger

	lastMetricsLog  time.Time
	lastGaugeUpdate time.Time
	metricsInterval time.Duration
	gaugeInterval   time.Duration
}

// NewGameMetricsSystem создает новую систему сбора метрик
func NewGameMetricsSystem(ticker *GameTicker, sink MetricsSink, logger *log.Logger) *GameMetricsSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &GameMetricsSystem{
		name:            "GameMetricsSystem",
		priority:        200, // Очень низкий приоритет - метрики в самом конце
		ticker:          ticker,
		sink:            sink,
		logger:          logger,
		metricsInterval: 30 * time.Second,
		gaugeInterval:   time.Second,
	}
}

// Update обновляет метрики и периодически пишет сводку в лог
func (gms *GameMetricsSystem) Update(deltaTime float64) error {
	now := time.Now()
	sim := gms.ticker.Simulation()

	if gms.sink != nil && now.Sub(gms.lastGaugeUpdate) >= gms.gaugeInterval {
		gms.lastGaugeUpdate = now
		clock := sim.Clock()
		gms.sink.SetBodyCounts(sim.CountByKind())
		gms.sink.SetClock(clock.ElapsedYears, clock.Running)
	}

	if now.Sub(gms.lastMetricsLog) < gms.metricsInterval {
		return nil
	}
	gms.lastMetricsLog = now

	stats := gms.ticker.GetStats()
	clock := sim.Clock()

	gms.logger.Printf("[GameMetrics] TPS: %.1f/%d, ticks: %d, avg tick: %v, sim: %s",
		stats["actual_tps"], stats["target_tps"], stats["tick_count"], stats["average_tick_time"], clock.Display)

	if actualTPS, ok := stats["actual_tps"].(float64); ok && actualTPS > 0 &&
		actualTPS < float64(stats["target_tps"].(int))*0.9 {
		gms.logger.Printf("[GameMetrics] WARNING: TPS dropped to %.1f", actualTPS)
	}

	return nil
}

// GetName возвращает имя системы
func (gms *GameMetricsSystem) GetName() string {
	return gms.name
}

// GetPriority возвращает приоритет системы
func (gms *GameMetricsSystem) GetPriority() int {
	return gms.priority
}
