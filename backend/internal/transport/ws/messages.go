package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orbital-sim/backend/internal/apperrors"
)

// ErrInvalidMessage сообщение неожиданного типа передано обработчику
var ErrInvalidMessage = errors.New("invalid message")

// ParseMessage разбирает входящее сообщение в соответствующий тип
func ParseMessage(data []byte) (interface{}, error) {
	var baseMessage struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &baseMessage); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	switch baseMessage.Type {
	case MessageTypeCommand:
		var msg CommandMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing command message: %w", err)
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing ping message: %w", err)
		}
		return &msg, nil

	case MessageTypePong:
		var msg PongMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing pong message: %w", err)
		}
		return &msg, nil

	case MessageTypeInfo:
		var msg InfoMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing info message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unknown message type: %q", baseMessage.Type)
	}
}

func invalidMessage(err error) error {
	return apperrors.WrapInvalidParameter("malformed message", err)
}

// GetCurrentServerTime возвращает текущее серверное время в миллисекундах
func GetCurrentServerTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// NewPongMessage создает новое сообщение-ответ на пинг
func NewPongMessage(clientTime int64) *PongMessage {
	return &PongMessage{
		Type:       MessageTypePong,
		ClientTime: clientTime,
		ServerTime: GetCurrentServerTime(),
	}
}

// NewAckMessage создает новое сообщение-подтверждение команды
func NewAckMessage(cmd string, clientTime int64, result interface{}) *AckMessage {
	return &AckMessage{
		Type:       MessageTypeAck,
		Cmd:        cmd,
		ClientTime: clientTime,
		ServerTime: GetCurrentServerTime(),
		Result:     result,
	}
}

// NewErrorMessage создает сообщение об ошибке команды. Тип ошибки
// берется из apperrors, чтобы клиент мог отличить отказ валидации от сбоя.
func NewErrorMessage(cmd string, clientTime int64, err error) *ErrorMessage {
	return &ErrorMessage{
		Type:       MessageTypeError,
		Cmd:        cmd,
		Error:      string(apperrors.GetType(err)),
		Message:    err.Error(),
		ClientTime: clientTime,
		ServerTime: GetCurrentServerTime(),
	}
}

// NewInfoMessage создает новое информационное сообщение
func NewInfoMessage(message string) *InfoMessage {
	return &InfoMessage{
		Type:    MessageTypeInfo,
		Message: message,
	}
}
