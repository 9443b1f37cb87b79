package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"orbital-sim/backend/internal/game"
	"orbital-sim/backend/internal/transport/ws"
	"orbital-sim/backend/internal/world"
)

// Bot подключается к серверу, принимает снимки и отправляет команды
type Bot struct {
	ID          string
	ServerURL   string
	Conn        *websocket.Conn
	Running     bool
	Stats       BotStats
	Pattern     string
	Duration    time.Duration
	CommandRate time.Duration
	mu          sync.RWMutex
	writeMu     sync.Mutex // Мьютекс для синхронизации записи в WebSocket
	rng         *rand.Rand
	bodyIDs     []string // ID тел из последнего снимка
}

// BotStats содержит статистику работы бота
type BotStats struct {
	CommandsSent      int
	ResponsesReceived int
	Rejected          int
	Snapshots         int
	Errors            int
	RTTSum            time.Duration
	RTTCount          int
	LastTick          uint64
	LastDisplay       string
	StartTime         time.Time
	mu                sync.RWMutex
}

// NewBot создает нового бота
func NewBot(id, serverURL, pattern string, duration, commandRate time.Duration, seed uint64) *Bot {
	return &Bot{
		ID:          id,
		ServerURL:   serverURL,
		Pattern:     pattern,
		Duration:    duration,
		CommandRate: commandRate,
		rng:         rand.New(rand.NewPCG(seed, seed+1)),
		Stats: BotStats{
			StartTime: time.Now(),
		},
	}
}

// Connect подключается к серверу
func (b *Bot) Connect() error {
	u, err := url.Parse(b.ServerURL)
	if err != nil {
		return fmt.Errorf("неверный URL: %v", err)
	}

	log.Printf("[Bot %s] connecting to %s", b.ID, u.String())

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		ReadBufferSize:   64 << 10,
		WriteBufferSize:  1024,
	}

	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("ошибка подключения: %v", err)
	}

	b.mu.Lock()
	b.Conn = conn
	b.Running = true
	b.mu.Unlock()

	log.Printf("[Bot %s] connected", b.ID)
	return nil
}

// Disconnect отключается от сервера
func (b *Bot) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Conn != nil && b.Running {
		b.Running = false
		b.Conn.Close()
		log.Printf("[Bot %s] disconnected", b.ID)
	}
}

func (b *Bot) isRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.Running
}

// nextCommand выбирает команду в зависимости от паттерна
func (b *Bot) nextCommand() (string, interface{}) {
	switch b.Pattern {
	case "observer":
		return "", nil
	case "comets":
		return ws.CommandSpawnComet, nil
	case "inspector":
		return b.statsCommand()
	default: // "chaos"
		switch b.rng.IntN(3) {
		case 0:
			return ws.CommandSpawnComet, nil
		case 1:
			return ws.CommandCreateBody, b.randomAsteroid()
		default:
			return b.statsCommand()
		}
	}
}

func (b *Bot) statsCommand() (string, interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.bodyIDs) == 0 {
		return "", nil
	}
	id := b.bodyIDs[b.rng.IntN(len(b.bodyIDs))]
	return ws.CommandStats, map[string]string{"id": id}
}

// randomAsteroid астероид на круговой орбите в поясе 2.2-3.2 АЕ
func (b *Bot) randomAsteroid() world.CreationRequest {
	r := 2.2 + b.rng.Float64()
	angle := b.rng.Float64() * 2 * math.Pi
	speed := 2 * math.Pi / math.Sqrt(r) // АЕ/год при массе Солнца 1
	return world.CreationRequest{
		Kind:     "asteroid",
		Mass:     1e-12,
		Position: world.Vector3{X: r * math.Cos(angle), Z: r * math.Sin(angle)},
		Velocity: world.Vector3{X: -speed * math.Sin(angle), Z: speed * math.Cos(angle)},
	}
}

func (b *Bot) send(v interface{}) error {
	b.mu.RLock()
	conn := b.Conn
	b.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("соединение не установлено")
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// sendCommand отправляет команду управления
func (b *Bot) sendCommand() error {
	cmd, data := b.nextCommand()
	if cmd == "" {
		return nil
	}

	msg := map[string]interface{}{
		"type":        ws.MessageTypeCommand,
		"cmd":         cmd,
		"client_time": time.Now().UnixMilli(),
	}
	if data != nil {
		msg["data"] = data
	}
	if err := b.send(msg); err != nil {
		return err
	}

	b.Stats.mu.Lock()
	b.Stats.CommandsSent++
	b.Stats.mu.Unlock()
	return nil
}

// sendPing отправляет ping сообщение
func (b *Bot) sendPing() error {
	return b.send(ws.PingMessage{
		Type:       ws.MessageTypePing,
		ClientTime: time.Now().UnixMilli(),
	})
}

// handleMessage обрабатывает входящие сообщения
func (b *Bot) handleMessage(messageType int, data []byte) {
	if messageType != websocket.TextMessage {
		return
	}

	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		log.Printf("[Bot %s] error parsing message: %v", b.ID, err)
		return
	}

	switch base.Type {
	case ws.MessageTypeSnapshot:
		var frame game.SnapshotFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("[Bot %s] error parsing snapshot: %v", b.ID, err)
			return
		}
		ids := make([]string, 0, len(frame.Bodies))
		for _, body := range frame.Bodies {
			ids = append(ids, body.ID)
		}
		b.mu.Lock()
		b.bodyIDs = ids
		b.mu.Unlock()

		b.Stats.mu.Lock()
		b.Stats.Snapshots++
		b.Stats.LastTick = frame.Tick
		b.Stats.LastDisplay = frame.Clock.Display
		b.Stats.mu.Unlock()

	case ws.MessageTypeAck:
		b.Stats.mu.Lock()
		b.Stats.ResponsesReceived++
		b.Stats.mu.Unlock()

	case ws.MessageTypeError:
		var msg ws.ErrorMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			log.Printf("[Bot %s] command %s rejected: %s (%s)", b.ID, msg.Cmd, msg.Message, msg.Error)
		}
		b.Stats.mu.Lock()
		b.Stats.Rejected++
		b.Stats.mu.Unlock()

	case ws.MessageTypePong:
		var pong ws.PongMessage
		if err := json.Unmarshal(data, &pong); err == nil && pong.ClientTime > 0 {
			rtt := time.Since(time.UnixMilli(pong.ClientTime))
			b.Stats.mu.Lock()
			b.Stats.RTTSum += rtt
			b.Stats.RTTCount++
			b.Stats.mu.Unlock()
		}

	case ws.MessageTypePing:
		// Серверный пинг для поддержания соединения

	case ws.MessageTypeInfo:
		var info ws.InfoMessage
		if err := json.Unmarshal(data, &info); err == nil {
			log.Printf("[Bot %s] info: %s", b.ID, info.Message)
		}

	default:
		log.Printf("[Bot %s] unknown message type: %s", b.ID, base.Type)
	}
}

// Run запускает бота
func (b *Bot) Run() error {
	if err := b.Connect(); err != nil {
		return err
	}
	defer b.Disconnect()

	// Запускаем горутину для чтения сообщений
	go func() {
		for b.isRunning() {
			messageType, data, err := b.Conn.ReadMessage()
			if err != nil {
				if b.isRunning() {
					log.Printf("[Bot %s] read error: %v", b.ID, err)
					b.Stats.mu.Lock()
					b.Stats.Errors++
					b.Stats.mu.Unlock()
					b.Disconnect()
				}
				return
			}
			b.handleMessage(messageType, data)
		}
	}()

	pingTicker := time.NewTicker(time.Second)
	defer pingTicker.Stop()
	commandTicker := time.NewTicker(b.CommandRate)
	defer commandTicker.Stop()

	deadline := time.After(b.Duration)
	for b.isRunning() {
		select {
		case <-deadline:
			log.Printf("[Bot %s] finished", b.ID)
			return nil
		case <-pingTicker.C:
			if err := b.sendPing(); err != nil {
				log.Printf("[Bot %s] ping error: %v", b.ID, err)
			}
		case <-commandTicker.C:
			if err := b.sendCommand(); err != nil {
				log.Printf("[Bot %s] command error: %v", b.ID, err)
				b.Stats.mu.Lock()
				b.Stats.Errors++
				b.Stats.mu.Unlock()
			}
		}
	}
	return nil
}

// PrintStats выводит статистику бота
func (b *Bot) PrintStats() {
	b.Stats.mu.RLock()
	defer b.Stats.mu.RUnlock()

	duration := time.Since(b.Stats.StartTime)
	log.Printf("[Bot %s] stats:", b.ID)
	log.Printf("  uptime: %v", duration.Round(time.Millisecond))
	log.Printf("  snapshots: %d (last tick %d, %s)", b.Stats.Snapshots, b.Stats.LastTick, b.Stats.LastDisplay)
	log.Printf("  commands sent: %d, acked: %d, rejected: %d", b.Stats.CommandsSent, b.Stats.ResponsesReceived, b.Stats.Rejected)
	log.Printf("  errors: %d", b.Stats.Errors)
	if b.Stats.RTTCount > 0 {
		log.Printf("  average RTT: %v", (b.Stats.RTTSum / time.Duration(b.Stats.RTTCount)).Round(time.Microsecond))
	}
	if b.Stats.Snapshots > 0 {
		log.Printf("  snapshot rate: %.2f/s", float64(b.Stats.Snapshots)/duration.Seconds())
	}
}

func main() {
	// Флаги командной строки
	var (
		serverURL   = flag.String("url", "ws://localhost:8080/ws", "URL WebSocket сервера")
		botID       = flag.String("id", "bot1", "ID бота")
		pattern     = flag.String("pattern", "observer", "Паттерн команд (observer, comets, inspector, chaos)")
		duration    = flag.Duration("duration", 30*time.Second, "Длительность работы бота")
		commandRate = flag.Duration("rate", time.Second, "Период отправки команд")
		seed        = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Зерно генератора")
	)
	flag.Parse()

	bot := NewBot(*botID, *serverURL, *pattern, *duration, *commandRate, *seed)

	// Обработка сигналов для корректного завершения
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		<-c
		log.Printf("[Bot %s] interrupted, shutting down", bot.ID)
		bot.Disconnect()
		bot.PrintStats()
		os.Exit(0)
	}()

	if err := bot.Run(); err != nil {
		log.Printf("[Bot %s] error: %v", bot.ID, err)
		os.Exit(1)
	}

	bot.PrintStats()
}
