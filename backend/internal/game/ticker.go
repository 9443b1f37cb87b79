package game

import (
	"context"
	"log"
	"sync"
	"time"
)

// MetricsSink приемник метрик тика
type MetricsSink interface {
	RecordTick(duration time.Duration)
	SetBodyCounts(counts map[string]int)
	SetClock(years float64, running bool)
}

// GameTicker вызывает Step симуляции с целевой частотой и раздает
// результаты системам вывода (сетевая рассылка, метрики)
type GameTicker struct {
	// Конфигурация
	targetTPS    int           // Целевая частота тиков в секунду
	tickDuration time.Duration // Длительность одного тика
	maxTickTime  time.Duration // Максимальное время на один тик

	// Состояние
	isRunning    bool
	tickCount    uint64
	startTime    time.Time
	lastTickTime time.Time
	lastReport   TickReport
	stateMutex   sync.RWMutex

	sim *Simulation

	// Системы вывода, выполняются после Step даже на паузе
	systems *Pipeline

	// Управление
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Метрики
	averageTickTime time.Duration
	maxObservedTick time.Duration
	skippedTicks    uint64
	metrics         MetricsSink

	// Логирование
	logger           *log.Logger
	warningThreshold time.Duration
}

// NewGameTicker создает новый тикер симуляции
func NewGameTicker(targetTPS int, sim *Simulation, logger *log.Logger) *GameTicker {
	if targetTPS <= 0 {
		targetTPS = 60
	}

	if logger == nil {
		logger = log.Default()
	}

	tickDuration := time.Second / time.Duration(targetTPS)
	maxTickTime := tickDuration * 2 // Максимум в 2 раза больше целевого времени

	return &GameTicker{
		targetTPS:        targetTPS,
		tickDuration:     tickDuration,
		maxTickTime:      maxTickTime,
		sim:              sim,
		systems:          NewPipeline("GameTicker", tickDuration/4, logger), // Предупреждение при 25% от тика
		logger:           logger,
		warningThreshold: tickDuration / 2, // Предупреждение при 50% от времени тика
	}
}

// SetMetrics подключает приемник метрик
func (gt *GameTicker) SetMetrics(metrics MetricsSink) {
	gt.metrics = metrics
}

// RegisterSystem добавляет систему вывода
func (gt *GameTicker) RegisterSystem(system TickSystem) {
	gt.systems.RegisterSystem(system)
}

// Start запускает цикл в отдельной горутине. Цикл завершается при отмене ctx или Stop.
func (gt *GameTicker) Start(ctx context.Context) error {
	gt.stateMutex.Lock()
	defer gt.stateMutex.Unlock()

	if gt.isRunning {
		return nil // Уже запущен
	}

	gt.ctx, gt.cancel = context.WithCancel(ctx)
	gt.done = make(chan struct{})
	gt.isRunning = true
	gt.startTime = time.Now()
	gt.lastTickTime = gt.startTime

	gt.logger.Printf("[GameTicker] starting simulation loop: %d TPS (tick every %v)",
		gt.targetTPS, gt.tickDuration)

	go gt.loop()

	return nil
}

// Stop останавливает цикл и ждет завершения текущего тика
func (gt *GameTicker) Stop() {
	gt.stateMutex.Lock()
	if !gt.isRunning {
		gt.stateMutex.Unlock()
		return
	}
	gt.isRunning = false
	cancel, done := gt.cancel, gt.done
	gt.stateMutex.Unlock()

	cancel()
	<-done

	gt.logger.Printf("[GameTicker] stopped (ticks executed: %d)", gt.GetTickCount())
}

// IsRunning работает ли цикл
func (gt *GameTicker) IsRunning() bool {
	gt.stateMutex.RLock()
	defer gt.stateMutex.RUnlock()
	return gt.isRunning
}

// loop основной цикл
func (gt *GameTicker) loop() {
	ticker := time.NewTicker(gt.tickDuration)
	defer ticker.Stop()
	defer close(gt.done)

	for {
		select {
		case <-gt.ctx.Done():
			return

		case tickTime := <-ticker.C:
			gt.Tick(tickTime)
		}
	}
}

// Tick выполняет один тик: шаг симуляции и системы вывода
func (gt *GameTicker) Tick(tickTime time.Time) TickReport {
	tickStart := time.Now()

	gt.stateMutex.Lock()
	deltaTime := tickTime.Sub(gt.lastTickTime)
	if !gt.lastTickTime.IsZero() && deltaTime > gt.tickDuration*2 {
		gt.logger.Printf("[GameTicker] WARNING: large gap between ticks: %v (expected: %v)",
			deltaTime, gt.tickDuration)
		gt.skippedTicks++
	}
	gt.tickCount++
	gt.lastTickTime = tickTime
	gt.stateMutex.Unlock()

	report := gt.sim.Step()

	gt.stateMutex.Lock()
	gt.lastReport = report
	gt.stateMutex.Unlock()

	gt.systems.Execute(report.Timestep)

	totalTickTime := time.Since(tickStart)
	gt.updateTickMetrics(totalTickTime)
	gt.checkPerformance(totalTickTime)

	if gt.metrics != nil {
		gt.metrics.RecordTick(totalTickTime)
	}
	return report
}

// LastReport итог последнего тика
func (gt *GameTicker) LastReport() TickReport {
	gt.stateMutex.RLock()
	defer gt.stateMutex.RUnlock()
	return gt.lastReport
}

// Simulation симуляция, которой управляет тикер
func (gt *GameTicker) Simulation() *Simulation {
	return gt.sim
}

// GetStats возвращает статистику цикла
func (gt *GameTicker) GetStats() map[string]interface{} {
	gt.stateMutex.RLock()
	defer gt.stateMutex.RUnlock()

	uptime := time.Since(gt.startTime)
	actualTPS := 0.0
	if !gt.startTime.IsZero() && uptime > 0 {
		actualTPS = float64(gt.tickCount) / uptime.Seconds()
	}

	return map[string]interface{}{
		"target_tps":        gt.targetTPS,
		"actual_tps":        actualTPS,
		"tick_count":        gt.tickCount,
		"uptime_seconds":    uptime.Seconds(),
		"average_tick_time": gt.averageTickTime.String(),
		"max_observed_tick": gt.maxObservedTick.String(),
		"skipped_ticks":     gt.skippedTicks,
		"is_running":        gt.isRunning,
		"output_systems":    gt.systems.Monitor().GetSystemsStats(),
	}
}

// GetTickCount возвращает текущее количество тиков
func (gt *GameTicker) GetTickCount() uint64 {
	gt.stateMutex.RLock()
	defer gt.stateMutex.RUnlock()
	return gt.tickCount
}

func (gt *GameTicker) updateTickMetrics(tickTime time.Duration) {
	gt.stateMutex.Lock()
	defer gt.stateMutex.Unlock()

	if tickTime > gt.maxObservedTick {
		gt.maxObservedTick = tickTime
	}

	// Простое скользящее среднее
	if gt.averageTickTime == 0 {
		gt.averageTickTime = tickTime
	} else {
		gt.averageTickTime = (gt.averageTickTime*9 + tickTime) / 10
	}
}

func (gt *GameTicker) checkPerformance(tickTime time.Duration) {
	if tickTime > gt.maxTickTime {
		gt.logger.Printf("[GameTicker] CRITICAL: tick exceeded max time! %v > %v (target: %v)",
			tickTime, gt.maxTickTime, gt.tickDuration)
	} else if tickTime > gt.warningThreshold {
		gt.logger.Printf("[GameTicker] WARNING: slow tick: %v (target: %v)",
			tickTime, gt.tickDuration)
	}
}
