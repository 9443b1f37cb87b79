package ws

import (
	"encoding/json"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/game"
	"orbital-sim/backend/internal/world"
)

// Controller операции управления симуляцией, доступные по WebSocket
type Controller interface {
	ToggleRunning() bool
	SetTimestep(dt float64) (paused bool, err error)
	Reset()
	ClearComets() int
	CreateBody(req world.CreationRequest) (world.BodySnapshot, error)
	SpawnComet() world.BodySnapshot
	BodyStats(id string) (game.BodyReport, error)
	Clock() game.ClockState
}

// DispatchCommand выполняет команду клиента и возвращает результат для cmd_ack
func DispatchCommand(ctrl Controller, msg *CommandMessage) (interface{}, error) {
	switch msg.Cmd {
	case CommandToggle:
		running := ctrl.ToggleRunning()
		return map[string]interface{}{"running": running}, nil

	case CommandSetTimestep:
		var data timestepData
		if err := decodeData(msg.Data, &data); err != nil {
			return nil, err
		}
		if data.DT == nil {
			return nil, apperrors.InvalidParameterf("set_timestep requires dt")
		}
		paused, err := ctrl.SetTimestep(*data.DT)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"timestep": *data.DT, "paused": paused}, nil

	case CommandReset:
		ctrl.Reset()
		return ctrl.Clock(), nil

	case CommandClearComets:
		removed := ctrl.ClearComets()
		return map[string]interface{}{"removed": removed}, nil

	case CommandCreateBody:
		var req world.CreationRequest
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		return ctrl.CreateBody(req)

	case CommandSpawnComet:
		return ctrl.SpawnComet(), nil

	case CommandStats:
		var data statsData
		if err := decodeData(msg.Data, &data); err != nil {
			return nil, err
		}
		if data.ID == "" {
			return nil, apperrors.InvalidParameterf("stats requires id")
		}
		return ctrl.BodyStats(data.ID)

	default:
		return nil, apperrors.InvalidParameterf("unknown command %q", msg.Cmd)
	}
}

func decodeData(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.WrapInvalidParameter("malformed command data", err)
	}
	return nil
}
