package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// SafeWriter обеспечивает потокобезопасную запись в WebSocket.
// gorilla/websocket допускает только одного писателя на соединение.
type SafeWriter struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

// NewSafeWriter создает новый экземпляр SafeWriter
func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{
		conn: conn,
	}
}

// WriteJSON потокобезопасно отправляет JSON данные через WebSocket
func (w *SafeWriter) WriteJSON(v interface{}) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteJSON(v)
}

// WriteMessage потокобезопасно отправляет сообщение через WebSocket
func (w *SafeWriter) WriteMessage(messageType int, data []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteMessage(messageType, data)
}

// WritePreparedMessage отправляет заранее сериализованное сообщение
func (w *SafeWriter) WritePreparedMessage(pm *websocket.PreparedMessage) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WritePreparedMessage(pm)
}

// WritePreparedWithDeadline отправляет сообщение, ограничивая время записи
func (w *SafeWriter) WritePreparedWithDeadline(pm *websocket.PreparedMessage, deadline time.Time) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	defer w.conn.SetWriteDeadline(time.Time{})
	return w.conn.WritePreparedMessage(pm)
}

// Close закрывает соединение WebSocket. Без блокировки, чтобы прервать
// зависшую запись.
func (w *SafeWriter) Close() error {
	return w.conn.Close()
}

// GetUnderlyingConn возвращает базовое соединение WebSocket
func (w *SafeWriter) GetUnderlyingConn() *websocket.Conn {
	return w.conn
}

// ReadMessage читает сообщение из WebSocket (чтение не требует блокировки записи)
func (w *SafeWriter) ReadMessage() (messageType int, p []byte, err error) {
	return w.conn.ReadMessage()
}
