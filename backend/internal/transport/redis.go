package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/config"
	"orbital-sim/backend/internal/game"
)

const publishTimeout = time.Second

// Publisher часть клиента Redis, нужная для рассылки
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ConnectRedis создает клиента по конфигурации и проверяет соединение
func ConnectRedis(cfg config.RedisConfig, logger *log.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = log.Default()
	}

	var rdb *redis.Client
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, apperrors.WrapInvalidParameter("failed to parse Redis URL", err)
		}
		rdb = redis.NewClient(opts)
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, apperrors.WrapExternal("failed to ping Redis", err)
	}

	logger.Printf("[Redis] connected to %s", rdb.Options().Addr)
	return rdb, nil
}

// SnapshotPublisher публикует снимки мира в канал Redis для внешних визуализаторов
type SnapshotPublisher struct {
	client   Publisher
	channel  string
	interval time.Duration
	logger   *log.Logger

	mu          sync.Mutex
	lastPublish time.Time
	published   uint64
	failures    uint64
}

// NewSnapshotPublisher создает публикатор. interval ограничивает частоту публикаций.
func NewSnapshotPublisher(client Publisher, channel string, interval time.Duration, logger *log.Logger) *SnapshotPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &SnapshotPublisher{
		client:   client,
		channel:  channel,
		interval: interval,
		logger:   logger,
	}
}

// BroadcastSnapshot публикует снимок, если прошел интервал с прошлой публикации
func (p *SnapshotPublisher) BroadcastSnapshot(frame game.SnapshotFrame) error {
	p.mu.Lock()
	now := time.Now()
	if !p.lastPublish.IsZero() && now.Sub(p.lastPublish) < p.interval {
		p.mu.Unlock()
		return nil
	}
	// окно сдвигается и при неудачной попытке
	p.lastPublish = now
	p.mu.Unlock()

	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.failures++
		return apperrors.WrapExternal("publish snapshot", err)
	}
	p.published++
	if p.published%100 == 1 {
		p.logger.Printf("[Redis] published snapshot tick %d to %q (%d receivers)", frame.Tick, p.channel, receivers)
	}
	return nil
}

// GetStats возвращает счетчики публикаций
func (p *SnapshotPublisher) GetStats() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return map[string]interface{}{
		"channel":   p.channel,
		"published": p.published,
		"failures":  p.failures,
	}
}
