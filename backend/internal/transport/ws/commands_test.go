package ws

import (
	"encoding/json"
	"testing"

	"orbital-sim/backend/internal/apperrors"
	"orbital-sim/backend/internal/game"
	"orbital-sim/backend/internal/world"
)

// fakeController фиксирует вызовы команд
type fakeController struct {
	running  bool
	timestep float64
	resets   int
	created  []world.CreationRequest
	comets   int
}

func (f *fakeController) ToggleRunning() bool {
	f.running = !f.running
	return f.running
}

func (f *fakeController) SetTimestep(dt float64) (bool, error) {
	if dt < 0 {
		return false, apperrors.InvalidParameterf("negative timestep")
	}
	f.timestep = dt
	return dt < 1e-6, nil
}

func (f *fakeController) Reset() { f.resets++ }

func (f *fakeController) ClearComets() int {
	n := f.comets
	f.comets = 0
	return n
}

func (f *fakeController) CreateBody(req world.CreationRequest) (world.BodySnapshot, error) {
	if req.Kind == "" {
		return world.BodySnapshot{}, apperrors.InvalidParameterf("kind required")
	}
	f.created = append(f.created, req)
	return world.BodySnapshot{ID: req.Name, Kind: req.Kind, Mass: req.Mass}, nil
}

func (f *fakeController) SpawnComet() world.BodySnapshot {
	f.comets++
	return world.BodySnapshot{ID: "comet-1", Kind: "comet"}
}

func (f *fakeController) BodyStats(id string) (game.BodyReport, error) {
	if id != "Earth" {
		return game.BodyReport{}, apperrors.NotFoundf("body %q not found", id)
	}
	return game.BodyReport{Mass: 3e-6}, nil
}

func (f *fakeController) Clock() game.ClockState {
	return game.ClockState{Running: f.running, Timestep: f.timestep}
}

func command(cmd, data string) *CommandMessage {
	msg := &CommandMessage{Type: MessageTypeCommand, Cmd: cmd}
	if data != "" {
		msg.Data = json.RawMessage(data)
	}
	return msg
}

func TestDispatchCommand(t *testing.T) {
	tests := []struct {
		name    string
		msg     *CommandMessage
		errType apperrors.ErrorType
		check   func(t *testing.T, ctrl *fakeController, result interface{})
	}{
		{
			name: "toggle",
			msg:  command(CommandToggle, ""),
			check: func(t *testing.T, ctrl *fakeController, result interface{}) {
				if !ctrl.running {
					t.Error("Expected controller to be running after toggle")
				}
				if got := result.(map[string]interface{})["running"]; got != true {
					t.Errorf("Expected running=true in result, got %v", got)
				}
			},
		},
		{
			name: "set_timestep",
			msg:  command(CommandSetTimestep, `{"dt":0.002}`),
			check: func(t *testing.T, ctrl *fakeController, result interface{}) {
				if ctrl.timestep != 0.002 {
					t.Errorf("Expected timestep 0.002, got %g", ctrl.timestep)
				}
				if got := result.(map[string]interface{})["paused"]; got != false {
					t.Errorf("Expected paused=false, got %v", got)
				}
			},
		},
		{
			name: "set_timestep below minimum pauses",
			msg:  command(CommandSetTimestep, `{"dt":0}`),
			check: func(t *testing.T, ctrl *fakeController, result interface{}) {
				if got := result.(map[string]interface{})["paused"]; got != true {
					t.Errorf("Expected paused=true, got %v", got)
				}
			},
		},
		{
			name:    "set_timestep without dt",
			msg:     command(CommandSetTimestep, `{}`),
			errType: apperrors.ErrorTypeInvalidParameter,
		},
		{
			name:    "set_timestep negative",
			msg:     command(CommandSetTimestep, `{"dt":-1}`),
			errType: apperrors.ErrorTypeInvalidParameter,
		},
		{
			name:    "set_timestep malformed",
			msg:     command(CommandSetTimestep, `{"dt":"fast"}`),
			errType: apperrors.ErrorTypeInvalidParameter,
		},
		{
			name: "reset",
			msg:  command(CommandReset, ""),
			check: func(t *testing.T, ctrl *fakeController, result interface{}) {
				if ctrl.resets != 1 {
					t.Errorf("Expected 1 reset, got %d", ctrl.resets)
				}
				if _, ok := result.(game.ClockState); !ok {
					t.Errorf("Expected ClockState result, got %T", result)
				}
			},
		},
		{
			name: "create_body",
			msg:  command(CommandCreateBody, `{"name":"Nemesis","kind":"star","mass":0.1,"position":{"x":30,"y":0,"z":0}}`),
			check: func(t *testing.T, ctrl *fakeController, result interface{}) {
				if len(ctrl.created) != 1 || ctrl.created[0].Position.X != 30 {
					t.Fatalf("Unexpected creation requests: %+v", ctrl.created)
				}
				snap := result.(world.BodySnapshot)
				if snap.ID != "Nemesis" || snap.Kind != "star" {
					t.Errorf("Unexpected snapshot %+v", snap)
				}
			},
		},
		{
			name:    "create_body without data",
			msg:     command(CommandCreateBody, ""),
			errType: apperrors.ErrorTypeInvalidParameter,
		},
		{
			name: "spawn_comet then clear_comets",
			msg:  command(CommandSpawnComet, ""),
			check: func(t *testing.T, ctrl *fakeController, result interface{}) {
				cleared, err := DispatchCommand(ctrl, command(CommandClearComets, ""))
				if err != nil {
					t.Fatalf("clear_comets: %v", err)
				}
				if got := cleared.(map[string]interface{})["removed"]; got != 1 {
					t.Errorf("Expected removed=1, got %v", got)
				}
			},
		},
		{
			name: "stats",
			msg:  command(CommandStats, `{"id":"Earth"}`),
			check: func(t *testing.T, ctrl *fakeController, result interface{}) {
				if report := result.(game.BodyReport); report.Mass != 3e-6 {
					t.Errorf("Unexpected report %+v", report)
				}
			},
		},
		{
			name:    "stats unknown body",
			msg:     command(CommandStats, `{"id":"Vulcan"}`),
			errType: apperrors.ErrorTypeNotFound,
		},
		{
			name:    "stats without id",
			msg:     command(CommandStats, ""),
			errType: apperrors.ErrorTypeInvalidParameter,
		},
		{
			name:    "unknown command",
			msg:     command("warp", ""),
			errType: apperrors.ErrorTypeInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{}
			result, err := DispatchCommand(ctrl, tt.msg)
			if tt.errType != "" {
				if !apperrors.Is(err, tt.errType) {
					t.Fatalf("Expected %s error, got %v", tt.errType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, ctrl, result)
		})
	}
}
