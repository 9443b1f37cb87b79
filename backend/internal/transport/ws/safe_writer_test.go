package ws

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialWriter поднимает сервер с заданным обработчиком и возвращает SafeWriter клиента
func dialWriter(t *testing.T, handler func(conn *websocket.Conn)) (*SafeWriter, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	wsConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		server.Close()
		t.Fatalf("Failed to connect to WebSocket server: %v", err)
	}
	return NewSafeWriter(wsConn), func() {
		wsConn.Close()
		server.Close()
	}
}

func TestSafeWriter_SnapshotFramesAndAcksDoNotInterleave(t *testing.T) {
	const snapshots, acks = 20, 20

	counts := make(chan map[string]int, 1)
	writer, cleanup := dialWriter(t, func(conn *websocket.Conn) {
		seen := make(map[string]int)
		for i := 0; i < snapshots+acks; i++ {
			_, data, err := conn.ReadMessage()
			if err != nil {
				t.Errorf("Error reading frame %d: %v", i, err)
				break
			}
			var msg struct {
				Type string `json:"type"`
			}
			// склеенные кадры не разбираются как один JSON
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Errorf("Corrupted frame %d: %v", i, err)
				continue
			}
			seen[msg.Type]++
		}
		counts <- seen
	})
	defer cleanup()

	frame, err := json.Marshal(map[string]interface{}{
		"type":   MessageTypeSnapshot,
		"bodies": bytes.Repeat([]byte("x"), 4096),
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, frame)
	if err != nil {
		t.Fatalf("NewPreparedMessage: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < snapshots; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := writer.WritePreparedWithDeadline(pm, time.Now().Add(2*time.Second)); err != nil {
				t.Errorf("WritePreparedWithDeadline: %v", err)
			}
		}()
	}
	for i := 0; i < acks; i++ {
		wg.Add(1)
		go func(clientTime int64) {
			defer wg.Done()
			ack := NewAckMessage(CommandToggle, clientTime, map[string]bool{"running": true})
			if err := writer.WriteJSON(ack); err != nil {
				t.Errorf("WriteJSON: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	select {
	case seen := <-counts:
		if seen[MessageTypeSnapshot] != snapshots || seen[MessageTypeAck] != acks {
			t.Errorf("Expected %d snapshots and %d acks, got %v", snapshots, acks, seen)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for frames")
	}
}

func TestSafeWriter_CloseUnblocksStalledWrite(t *testing.T) {
	release := make(chan struct{})
	// клиент на другой стороне не читает, буферы сокета заполняются
	writer, cleanup := dialWriter(t, func(conn *websocket.Conn) {
		<-release
	})
	defer cleanup()
	defer close(release)

	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, bytes.Repeat([]byte("s"), 1<<20))
	if err != nil {
		t.Fatalf("NewPreparedMessage: %v", err)
	}

	writeErr := make(chan error, 1)
	go func() {
		for {
			if err := writer.WritePreparedWithDeadline(pm, time.Now().Add(time.Minute)); err != nil {
				writeErr <- err
				return
			}
		}
	}()

	time.Sleep(200 * time.Millisecond)
	// Close не берет мьютекс записи
	if err := writer.Close(); err != nil {
		t.Errorf("Error closing connection: %v", err)
	}

	select {
	case err := <-writeErr:
		if err == nil {
			t.Error("Expected write error after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not interrupt the stalled write")
	}

	if err := writer.WriteJSON(NewAckMessage(CommandReset, 1, nil)); err == nil {
		t.Error("Expected error when writing to closed connection, got nil")
	}
}

func TestSafeWriter_WritePreparedWithDeadline(t *testing.T) {
	received := make(chan string, 1)
	writer, cleanup := dialWriter(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("Error reading message: %v", err)
			return
		}
		received <- string(msg)
	})
	defer cleanup()

	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, []byte(`{"type":"snapshot"}`))
	if err != nil {
		t.Fatalf("NewPreparedMessage: %v", err)
	}

	if err := writer.WritePreparedWithDeadline(pm, time.Now().Add(time.Second)); err != nil {
		t.Fatalf("WritePreparedWithDeadline: %v", err)
	}

	select {
	case msg := <-received:
		if msg != `{"type":"snapshot"}` {
			t.Errorf("Unexpected message %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for prepared message")
	}
}
