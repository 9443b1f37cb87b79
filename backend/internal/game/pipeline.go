package game

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// TickSystem интерфейс для всех систем тика
type TickSystem interface {
	// Update выполняет систему. deltaTime: симулированные годы текущего тика.
	Update(deltaTime float64) error
	GetName() string
	GetPriority() int // Приоритет выполнения (меньше = раньше)
}

// Pipeline упорядоченный по приоритету набор систем с замером времени
type Pipeline struct {
	name         string
	systems      []TickSystem
	systemsMutex sync.RWMutex

	perfMonitor *PerformanceMonitor
	logger      *log.Logger
}

// NewPipeline создает пустой конвейер систем
func NewPipeline(name string, warningThreshold time.Duration, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	if warningThreshold <= 0 {
		warningThreshold = 5 * time.Millisecond
	}
	return &Pipeline{
		name:        name,
		systems:     make([]TickSystem, 0),
		perfMonitor: NewPerformanceMonitor(50, warningThreshold),
		logger:      logger,
	}
}

// RegisterSystem добавляет систему в конвейер
func (p *Pipeline) RegisterSystem(system TickSystem) {
	p.systemsMutex.Lock()
	defer p.systemsMutex.Unlock()

	p.systems = append(p.systems, system)

	// Сортируем по приоритету (меньше = выше приоритет)
	for i := len(p.systems) - 1; i > 0; i-- {
		if p.systems[i].GetPriority() < p.systems[i-1].GetPriority() {
			p.systems[i], p.systems[i-1] = p.systems[i-1], p.systems[i]
		} else {
			break
		}
	}

	p.perfMonitor.initSystemMetrics(system.GetName())

	p.logger.Printf("[%s] registered system: %s (priority: %d)",
		p.name, system.GetName(), system.GetPriority())
}

// Systems имена систем в порядке выполнения
func (p *Pipeline) Systems() []string {
	p.systemsMutex.RLock()
	defer p.systemsMutex.RUnlock()

	names := make([]string, len(p.systems))
	for i, s := range p.systems {
		names[i] = s.GetName()
	}
	return names
}

// Execute выполняет все системы по порядку
func (p *Pipeline) Execute(deltaTime float64) {
	p.systemsMutex.RLock()
	systems := make([]TickSystem, len(p.systems))
	copy(systems, p.systems)
	p.systemsMutex.RUnlock()

	for _, system := range systems {
		p.executeSystem(system, deltaTime)
	}
}

// executeSystem выполняет одну систему с замером времени.
// Паника или ошибка системы учитывается и не прерывает тик.
func (p *Pipeline) executeSystem(system TickSystem, deltaTime float64) {
	systemStart := time.Now()
	systemName := system.GetName()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("[%s] CRITICAL: panic in system %s: %v", p.name, systemName, r)
			p.perfMonitor.recordError(systemName)
		}
	}()

	err := system.Update(deltaTime)

	executionTime := time.Since(systemStart)
	p.perfMonitor.recordExecution(systemName, executionTime)

	if executionTime > p.perfMonitor.criticalThreshold {
		p.logger.Printf("[%s] WARNING: system %s took %v", p.name, systemName, executionTime)
	}

	if err != nil {
		p.logger.Printf("[%s] error in system %s: %v", p.name, systemName, err)
		p.perfMonitor.recordError(systemName)
	}
}

// Monitor монитор производительности конвейера
func (p *Pipeline) Monitor() *PerformanceMonitor {
	return p.perfMonitor
}

// PerformanceMonitor отслеживает производительность каждой системы
type PerformanceMonitor struct {
	systemMetrics map[string]*SystemMetrics
	mutex         sync.RWMutex

	// Настройки мониторинга
	metricsWindow     int           // Количество последних тиков для усреднения
	warningThreshold  time.Duration // Порог предупреждения для системы
	criticalThreshold time.Duration // Критический порог
}

// SystemMetrics метрики производительности системы
type SystemMetrics struct {
	Name              string
	LastExecutionTime time.Duration
	AverageTime       time.Duration
	MaxTime           time.Duration
	TotalExecutions   uint64
	Errors            uint64

	// Скользящее окно для вычисления среднего
	recentTimes  []time.Duration
	recentIndex  int
	windowFilled bool
}

// NewPerformanceMonitor создает новый монитор производительности
func NewPerformanceMonitor(windowSize int, warningThreshold time.Duration) *PerformanceMonitor {
	if windowSize <= 0 {
		windowSize = 50
	}
	return &PerformanceMonitor{
		systemMetrics:     make(map[string]*SystemMetrics),
		metricsWindow:     windowSize,
		warningThreshold:  warningThreshold,
		criticalThreshold: warningThreshold * 2,
	}
}

func (pm *PerformanceMonitor) initSystemMetrics(systemName string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.systemMetrics[systemName] = &SystemMetrics{
		Name:        systemName,
		recentTimes: make([]time.Duration, pm.metricsWindow),
	}
}

func (pm *PerformanceMonitor) recordExecution(systemName string, executionTime time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	metrics, exists := pm.systemMetrics[systemName]
	if !exists {
		return
	}

	metrics.LastExecutionTime = executionTime
	metrics.TotalExecutions++

	if executionTime > metrics.MaxTime {
		metrics.MaxTime = executionTime
	}

	// Добавляем в скользящее окно
	metrics.recentTimes[metrics.recentIndex] = executionTime
	metrics.recentIndex = (metrics.recentIndex + 1) % pm.metricsWindow

	if !metrics.windowFilled && metrics.recentIndex == 0 {
		metrics.windowFilled = true
	}

	pm.recalculateAverage(metrics)
}

func (pm *PerformanceMonitor) recordError(systemName string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if metrics, exists := pm.systemMetrics[systemName]; exists {
		metrics.Errors++
	}
}

func (pm *PerformanceMonitor) recalculateAverage(metrics *SystemMetrics) {
	var total time.Duration
	var count int

	limit := pm.metricsWindow
	if !metrics.windowFilled {
		limit = metrics.recentIndex
	}

	for i := 0; i < limit; i++ {
		total += metrics.recentTimes[i]
		count++
	}

	if count > 0 {
		metrics.AverageTime = total / time.Duration(count)
	}
}

// Metrics копия метрик системы
func (pm *PerformanceMonitor) Metrics(systemName string) (SystemMetrics, error) {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	metrics, exists := pm.systemMetrics[systemName]
	if !exists {
		return SystemMetrics{}, fmt.Errorf("system %s is not registered", systemName)
	}
	out := *metrics
	out.recentTimes = nil
	return out, nil
}

// GetSystemsStats статистика всех систем
func (pm *PerformanceMonitor) GetSystemsStats() map[string]interface{} {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	systemsStats := make(map[string]interface{})

	for name, metrics := range pm.systemMetrics {
		systemsStats[name] = map[string]interface{}{
			"last_execution_time": metrics.LastExecutionTime.String(),
			"average_time":        metrics.AverageTime.String(),
			"max_time":            metrics.MaxTime.String(),
			"total_executions":    metrics.TotalExecutions,
			"errors":              metrics.Errors,
		}
	}

	return systemsStats
}
