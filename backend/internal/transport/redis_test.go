package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/config"
	"orbital-sim/backend/internal/game"
)

// fakePublisher сохраняет опубликованные сообщения
type fakePublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, message.([]byte))
	return redis.NewIntResult(1, nil)
}

func TestSnapshotPublisher_Throttles(t *testing.T) {
	pub := &fakePublisher{}
	p := NewSnapshotPublisher(pub, "orbital:snapshots", time.Hour, discardLogger())

	for tick := uint64(1); tick <= 3; tick++ {
		if err := p.BroadcastSnapshot(game.SnapshotFrame{Type: "snapshot", Tick: tick}); err != nil {
			t.Fatalf("BroadcastSnapshot: %v", err)
		}
	}

	if len(pub.payloads) != 1 {
		t.Fatalf("Expected 1 publish within interval, got %d", len(pub.payloads))
	}
	if pub.channels[0] != "orbital:snapshots" {
		t.Errorf("Published to %q", pub.channels[0])
	}
	var frame game.SnapshotFrame
	if err := json.Unmarshal(pub.payloads[0], &frame); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if frame.Tick != 1 {
		t.Errorf("Expected first frame, got tick %d", frame.Tick)
	}
	if stats := p.GetStats(); stats["published"] != uint64(1) {
		t.Errorf("Unexpected stats %v", stats)
	}
}

func TestSnapshotPublisher_NoInterval(t *testing.T) {
	pub := &fakePublisher{}
	p := NewSnapshotPublisher(pub, "c", 0, discardLogger())
	for i := 0; i < 3; i++ {
		if err := p.BroadcastSnapshot(game.SnapshotFrame{Tick: uint64(i)}); err != nil {
			t.Fatalf("BroadcastSnapshot: %v", err)
		}
	}
	if len(pub.payloads) != 3 {
		t.Errorf("Expected every frame published, got %d", len(pub.payloads))
	}
}

func TestSnapshotPublisher_Failure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	p := NewSnapshotPublisher(pub, "c", 0, discardLogger())

	err := p.BroadcastSnapshot(game.SnapshotFrame{Tick: 1})
	if !apperrors.Is(err, apperrors.ErrorTypeExternal) {
		t.Fatalf("Expected external error, got %v", err)
	}
	if stats := p.GetStats(); stats["failures"] != uint64(1) {
		t.Errorf("Unexpected stats %v", stats)
	}
}

func TestConnectRedis(t *testing.T) {
	client, err := ConnectRedis(config.RedisConfig{Enabled: false}, discardLogger())
	if client != nil || err != nil {
		t.Errorf("Disabled Redis: got client=%v err=%v", client, err)
	}

	_, err = ConnectRedis(config.RedisConfig{Enabled: true, URL: "mysql://nope"}, discardLogger())
	if !apperrors.Is(err, apperrors.ErrorTypeInvalidParameter) {
		t.Errorf("Bad URL: expected invalid parameter, got %v", err)
	}
}
