package telemetry

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"
)

// EventType тип события симуляции
type EventType string

const (
	EventCollision          EventType = "collision"
	EventMerge              EventType = "merge"
	EventCapture            EventType = "capture"
	EventDisruption         EventType = "disruption"
	EventCometSpawned       EventType = "comet_spawned"
	EventCometRetired       EventType = "comet_retired"
	EventNumericInstability EventType = "numeric_instability"
	EventBodyCreated        EventType = "body_created"
	EventReset              EventType = "reset"
)

// Event запись журнала событий
type Event struct {
	Timestamp int64     `json:"timestamp"` // Время в миллисекундах
	Tick      uint64    `json:"tick"`
	SimYears  float64   `json:"sim_years"` // Время симуляции
	Type      EventType `json:"type"`
	Rule      string    `json:"rule,omitempty"`    // Сработавшее правило столкновения
	BodyIDs   []string  `json:"body_ids"`          // Участники
	Removed   []string  `json:"removed,omitempty"` // Удаленные тела
	Created   []string  `json:"created,omitempty"` // Созданные тела
	Detail    string    `json:"detail,omitempty"`
}

// EventCounter счетчик событий для внешних метрик
type EventCounter interface {
	RecordEvent(eventType EventType)
}

// Journal ограниченный журнал событий симуляции
type Journal struct {
	enabled    bool
	events     []Event
	mutex      sync.RWMutex
	maxEntries int

	// Счетчики для статистики
	counters      map[EventType]uint64
	lastPrint     time.Time
	printInterval time.Duration

	metrics EventCounter
	logger  *log.Logger
}

// NewJournal создает журнал на maxEntries последних событий
func NewJournal(maxEntries int, logger *log.Logger) *Journal {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Journal{
		enabled:       true,
		events:        make([]Event, 0, maxEntries),
		maxEntries:    maxEntries,
		counters:      make(map[EventType]uint64),
		lastPrint:     time.Now(),
		printInterval: 30 * time.Second,
		logger:        logger,
	}
}

// SetMetrics подключает счетчик внешних метрик
func (j *Journal) SetMetrics(metrics EventCounter) {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	j.metrics = metrics
}

// Record добавляет событие в журнал
func (j *Journal) Record(event Event) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if !j.enabled {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	j.events = append(j.events, event)

	// Ограничиваем размер буфера
	if len(j.events) > j.maxEntries {
		j.events = j.events[len(j.events)-j.maxEntries:]
	}

	j.counters[event.Type]++
	if j.metrics != nil {
		j.metrics.RecordEvent(event.Type)
	}
}

// Recent последние n событий от старых к новым. n <= 0 возвращает все.
func (j *Journal) Recent(n int) []Event {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	if n <= 0 || n > len(j.events) {
		n = len(j.events)
	}
	out := make([]Event, n)
	copy(out, j.events[len(j.events)-n:])
	return out
}

// Counters копия счетчиков событий с момента создания журнала
func (j *Journal) Counters() map[EventType]uint64 {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	out := make(map[EventType]uint64, len(j.counters))
	for k, v := range j.counters {
		out[k] = v
	}
	return out
}

// PrintSummary периодически выводит сводку счетчиков в лог
func (j *Journal) PrintSummary() {
	now := time.Now()

	j.mutex.Lock()
	defer j.mutex.Unlock()

	if !j.enabled || now.Sub(j.lastPrint) < j.printInterval {
		return
	}
	j.lastPrint = now

	keys := make([]string, 0, len(j.counters))
	for k := range j.counters {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	j.logger.Printf("[Telemetry] events in journal: %d", len(j.events))
	for _, k := range keys {
		j.logger.Printf("[Telemetry] %s: %d", k, j.counters[EventType(k)])
	}
}

// SetPrintInterval задает период вывода сводки
func (j *Journal) SetPrintInterval(interval time.Duration) {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	j.printInterval = interval
}

// GetTelemetryJSON возвращает журнал в JSON формате
func (j *Journal) GetTelemetryJSON() (string, error) {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	jsonData, err := json.MarshalIndent(j.events, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonData), nil
}

// SetEnabled включает/выключает запись событий
func (j *Journal) SetEnabled(enabled bool) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	j.enabled = enabled
	j.logger.Printf("[Telemetry] journal enabled=%v", enabled)
}

// Clear очищает журнал и счетчики
func (j *Journal) Clear() {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	j.events = make([]Event, 0, j.maxEntries)
	j.counters = make(map[EventType]uint64)
}
