package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"orbital-sim/backend/internal/game"
)

const (
	DefaultPingInterval = 2 * time.Second // Интервал отправки пингов
	writeWait           = 5 * time.Second
)

// MessageHandler - тип функции обработчика сообщений
type MessageHandler func(conn *SafeWriter, message interface{}) error

// ConnectionGauge получатель числа активных соединений
type ConnectionGauge interface {
	SetConnections(n int)
}

// Options параметры WebSocket сервера
type Options struct {
	PingInterval      time.Duration
	CommandsPerSecond float64 // 0: без ограничения
	CommandBurst      int
	AllowedOrigins    []string // пусто или "*": любые источники
}

// clientState состояние одного подключения
type clientState struct {
	remote  string
	limiter *rate.Limiter
	done    chan struct{}
}

// WSServer представляет WebSocket сервер с поддержкой потокобезопасной записи
type WSServer struct {
	upgrader   websocket.Upgrader
	controller Controller
	handlers   map[string]MessageHandler
	options    Options
	logger     *log.Logger

	clients   map[*SafeWriter]*clientState
	clientsMu sync.RWMutex

	// Последний снимок для новых клиентов
	lastFrame   *websocket.PreparedMessage
	lastFrameMu sync.RWMutex

	gauge ConnectionGauge
}

// NewWSServer создает новый экземпляр WebSocket сервера
func NewWSServer(controller Controller, options Options, logger *log.Logger) *WSServer {
	if logger == nil {
		logger = log.Default()
	}
	if options.PingInterval < 0 {
		options.PingInterval = 0
	}

	server := &WSServer{
		controller: controller,
		handlers:   make(map[string]MessageHandler),
		options:    options,
		logger:     logger,
		clients:    make(map[*SafeWriter]*clientState),
	}
	server.upgrader = websocket.Upgrader{
		CheckOrigin: server.checkOrigin,
	}

	// Регистрируем стандартные обработчики
	server.RegisterHandler(MessageTypePing, server.handlePing)
	server.RegisterHandler(MessageTypeCommand, server.handleCmd)

	return server
}

// RegisterHandler регистрирует обработчик для конкретного типа сообщений
func (s *WSServer) RegisterHandler(messageType string, handler MessageHandler) {
	s.handlers[messageType] = handler
}

// SetConnectionGauge подключает метрику числа соединений
func (s *WSServer) SetConnectionGauge(gauge ConnectionGauge) {
	s.gauge = gauge
}

func (s *WSServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.options.AllowedOrigins) == 0 {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range s.options.AllowedOrigins {
		if allowed == "*" || allowed == origin || allowed == u.Scheme+"://"+u.Host {
			return true
		}
	}
	return false
}

// HandleWS обрабатывает входящие WebSocket соединения
func (s *WSServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[WSServer] upgrade error: %v", err)
		return
	}

	// Создаем потокобезопасную обертку для WebSocket соединения
	safeConn := NewSafeWriter(conn)
	state := s.addClient(safeConn, conn.RemoteAddr().String())
	defer func() {
		s.removeClient(safeConn)
		safeConn.Close()
	}()

	s.logger.Printf("[WSServer] new connection from %s", state.remote)

	// Отправляем приветственное сообщение
	if err := safeConn.WriteJSON(NewInfoMessage("Connected to orbital-sim server")); err != nil {
		s.logger.Printf("[WSServer] error sending welcome message: %v", err)
		return
	}

	// Новый клиент сразу получает последний снимок
	s.lastFrameMu.RLock()
	frame := s.lastFrame
	s.lastFrameMu.RUnlock()
	if frame != nil {
		if err := safeConn.WritePreparedMessage(frame); err != nil {
			s.logger.Printf("[WSServer] error sending initial snapshot: %v", err)
			return
		}
	}

	// Запускаем пинг для поддержания соединения
	if s.options.PingInterval > 0 {
		go s.startPing(safeConn, state.done)
	}

	// Основной цикл обработки сообщений
	for {
		_, data, err := safeConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("[WSServer] read error from %s: %v", state.remote, err)
			}
			break
		}

		// Разбираем сообщение
		message, err := ParseMessage(data)
		if err != nil {
			s.logger.Printf("[WSServer] error parsing message: %v", err)
			if werr := safeConn.WriteJSON(NewErrorMessage("", 0, invalidMessage(err))); werr != nil {
				break
			}
			continue
		}

		// Получаем тип сообщения
		var messageType string
		switch msg := message.(type) {
		case *CommandMessage:
			messageType = msg.Type
		case *PingMessage:
			messageType = msg.Type
		case *PongMessage:
			messageType = msg.Type
		case *InfoMessage:
			messageType = msg.Type
		default:
			s.logger.Printf("[WSServer] unknown message type: %T", message)
			continue
		}

		// Ищем обработчик для данного типа сообщений
		if handler, ok := s.handlers[messageType]; ok {
			if err := handler(safeConn, message); err != nil {
				s.logger.Printf("[WSServer] error handling message %s: %v", messageType, err)
			}
		}
	}

	s.logger.Printf("[WSServer] connection closed: %s", state.remote)
}

// handlePing обрабатывает ping-сообщения
func (s *WSServer) handlePing(conn *SafeWriter, message interface{}) error {
	pingMsg, ok := message.(*PingMessage)
	if !ok {
		return ErrInvalidMessage
	}
	return conn.WriteJSON(NewPongMessage(pingMsg.ClientTime))
}

// handleCmd выполняет команду управления с учетом лимита частоты
func (s *WSServer) handleCmd(conn *SafeWriter, message interface{}) error {
	cmdMsg, ok := message.(*CommandMessage)
	if !ok {
		return ErrInvalidMessage
	}

	if state := s.client(conn); state != nil && state.limiter != nil && !state.limiter.Allow() {
		return conn.WriteJSON(&ErrorMessage{
			Type:       MessageTypeError,
			Cmd:        cmdMsg.Cmd,
			Error:      ErrorRateLimited,
			Message:    "command rate limit exceeded",
			ClientTime: cmdMsg.ClientTime,
			ServerTime: GetCurrentServerTime(),
		})
	}

	result, err := DispatchCommand(s.controller, cmdMsg)
	if err != nil {
		s.logger.Printf("[WSServer] command %q rejected: %v", cmdMsg.Cmd, err)
		return conn.WriteJSON(NewErrorMessage(cmdMsg.Cmd, cmdMsg.ClientTime, err))
	}
	return conn.WriteJSON(NewAckMessage(cmdMsg.Cmd, cmdMsg.ClientTime, result))
}

// startPing запускает периодическую отправку пингов для проверки соединения
func (s *WSServer) startPing(conn *SafeWriter, done <-chan struct{}) {
	ticker := time.NewTicker(s.options.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			pingMsg := map[string]interface{}{
				"type":        MessageTypePing,
				"server_time": GetCurrentServerTime(),
			}
			if err := conn.WriteJSON(pingMsg); err != nil {
				s.logger.Printf("[WSServer] error sending ping: %v", err)
				return
			}
		}
	}
}

// BroadcastSnapshot сериализует снимок один раз и рассылает всем клиентам
func (s *WSServer) BroadcastSnapshot(frame game.SnapshotFrame) error {
	frame.Type = MessageTypeSnapshot
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	prepared, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		return fmt.Errorf("prepare snapshot: %w", err)
	}

	s.lastFrameMu.Lock()
	s.lastFrame = prepared
	s.lastFrameMu.Unlock()

	s.clientsMu.RLock()
	targets := make([]*SafeWriter, 0, len(s.clients))
	for conn := range s.clients {
		targets = append(targets, conn)
	}
	s.clientsMu.RUnlock()

	for _, conn := range targets {
		if err := conn.WritePreparedWithDeadline(prepared, time.Now().Add(writeWait)); err != nil {
			s.logger.Printf("[WSServer] dropping client after write error: %v", err)
			// Закрытие прерывает цикл чтения, который удалит клиента
			conn.Close()
		}
	}
	return nil
}

// ClientCount возвращает число активных соединений
func (s *WSServer) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Close закрывает все соединения
func (s *WSServer) Close() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for conn := range s.clients {
		conn.Close()
	}
}

func (s *WSServer) addClient(conn *SafeWriter, remote string) *clientState {
	state := &clientState{
		remote: remote,
		done:   make(chan struct{}),
	}
	if s.options.CommandsPerSecond > 0 {
		burst := s.options.CommandBurst
		if burst <= 0 {
			burst = 1
		}
		state.limiter = rate.NewLimiter(rate.Limit(s.options.CommandsPerSecond), burst)
	}

	s.clientsMu.Lock()
	s.clients[conn] = state
	count := len(s.clients)
	s.clientsMu.Unlock()

	if s.gauge != nil {
		s.gauge.SetConnections(count)
	}
	return state
}

func (s *WSServer) removeClient(conn *SafeWriter) {
	s.clientsMu.Lock()
	state, ok := s.clients[conn]
	delete(s.clients, conn)
	count := len(s.clients)
	s.clientsMu.Unlock()

	if ok {
		close(state.done)
	}
	if s.gauge != nil {
		s.gauge.SetConnections(count)
	}
}

func (s *WSServer) client(conn *SafeWriter) *clientState {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return s.clients[conn]
}
