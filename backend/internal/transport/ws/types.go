package ws

import "encoding/json"

// Константы для WebSocket сообщений
const (
	// Типы сообщений
	MessageTypeSnapshot = "snapshot" // Снимок мира
	MessageTypePing     = "ping"     // Пинг для измерения задержки
	MessageTypePong     = "pong"     // Ответ на пинг
	MessageTypeCommand  = "cmd"      // Команда от клиента
	MessageTypeAck      = "cmd_ack"  // Подтверждение команды
	MessageTypeError    = "error"    // Ошибка выполнения команды
	MessageTypeInfo     = "info"     // Информационное сообщение
)

// Команды управления симуляцией
const (
	CommandToggle      = "toggle"
	CommandSetTimestep = "set_timestep"
	CommandReset       = "reset"
	CommandClearComets = "clear_comets"
	CommandCreateBody  = "create_body"
	CommandSpawnComet  = "spawn_comet"
	CommandStats       = "stats"
)

// ErrorRateLimited тип ошибки при превышении частоты команд
const ErrorRateLimited = "rate_limited"

// CommandMessage представляет команду от клиента
type CommandMessage struct {
	Type       string          `json:"type"`
	Cmd        string          `json:"cmd,omitempty"`
	ClientTime int64           `json:"client_time,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// AckMessage представляет подтверждение команды сервером
type AckMessage struct {
	Type       string      `json:"type"`
	Cmd        string      `json:"cmd"`
	ClientTime int64       `json:"client_time"`
	ServerTime int64       `json:"server_time"`
	Result     interface{} `json:"result,omitempty"`
}

// ErrorMessage отказ в выполнении команды
type ErrorMessage struct {
	Type       string `json:"type"`
	Cmd        string `json:"cmd,omitempty"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	ClientTime int64  `json:"client_time,omitempty"`
	ServerTime int64  `json:"server_time"`
}

// PingMessage представляет пинг от клиента
type PingMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
}

// PongMessage представляет ответ на пинг от сервера
type PongMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
	ServerTime int64  `json:"server_time"`
}

// InfoMessage представляет информационное сообщение от сервера
type InfoMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// timestepData аргументы команды set_timestep
type timestepData struct {
	DT *float64 `json:"dt"`
}

// statsData аргументы команды stats
type statsData struct {
	ID string `json:"id"`
}
