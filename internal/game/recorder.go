package game

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type EventType string

const (
	EventPlayerAdded     EventType = "player_added"
	EventGameCreated     EventType = "game_created"
	EventPlayerJoined    EventType = "player_joined"
	EventGameStarted     EventType = "game_started"
	EventQuestionAsked   EventType = "question_asked"
	EventAnswerSubmitted EventType = "answer_submitted"
	EventGameEvaluated   EventType = "game_evaluated"
	EventGameCompleted   EventType = "game_completed"
	EventGameEnded       EventType = "game_ended"
)

// Event describes a state change after it has been applied. Game is a copy
// taken while the game was still locked.
type Event struct {
	Type     EventType
	At       time.Time
	PlayerID string
	Player   *Player
	Game     *Game
}

// Recorder observes engine events. Recorders run after the game lock is
// released, each under its own deadline; a failing recorder is logged and
// never fails the operation.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

type RecorderFunc func(ctx context.Context, ev Event) error

func (f RecorderFunc) Record(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

func (e *Engine) record(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = e.clock.Now()
	}
	for _, r := range e.recorders {
		if err := e.recordOne(ctx, r, ev); err != nil {
			fields := []zap.Field{zap.String("event", string(ev.Type)), zap.Error(err)}
			if ev.Game != nil {
				fields = append(fields, zap.String("game_id", ev.Game.ID))
			}
			e.log.Warn("record event failed", fields...)
		}
	}
}

func (e *Engine) recordOne(ctx context.Context, r Recorder, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, e.recordTimeout)
	defer cancel()
	return r.Record(ctx, ev)
}
