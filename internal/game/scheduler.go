package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const DefaultTickInterval = time.Second

// Evaluate closes the game's current window if it has expired. It reports
// whether an evaluation ran; a game that is not due is not an error.
func (e *Engine) Evaluate(ctx context.Context, gameID string) (bool, error) {
	sig, err := e.games.signal(gameID)
	if err != nil {
		return false, err
	}
	var out evaluation
	var ran bool
	g, err := e.games.Update(gameID, func(g *Game) error {
		out, ran = evaluate(g, e.clock.Now())
		return nil
	})
	if err != nil || !ran {
		return false, err
	}
	sig.fire()

	e.log.Info("game evaluated",
		zap.String("game_id", g.ID),
		zap.String("asker_id", out.AskerID),
		zap.Int("answers", len(out.Scored)),
		zap.String("next_player_id", out.Next),
		zap.Int("round", out.Round),
	)
	e.record(ctx, Event{Type: EventGameEvaluated, PlayerID: out.AskerID, Game: &g})
	if out.Completed {
		e.log.Info("game completed", zap.String("game_id", g.ID), zap.Int("rounds", out.Round))
		e.record(ctx, Event{Type: EventGameCompleted, Game: &g})
	}
	return true, nil
}

// Tick evaluates every game whose window has expired and returns how many
// were evaluated. A fault in one game is logged and that game is skipped.
func (e *Engine) Tick(ctx context.Context) int {
	evaluated := 0
	for _, id := range e.games.IDs() {
		if ctx.Err() != nil {
			break
		}
		if e.tickGame(ctx, id) {
			evaluated++
		}
	}
	return evaluated
}

func (e *Engine) tickGame(ctx context.Context, gameID string) (ran bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("evaluation panicked",
				zap.String("game_id", gameID),
				zap.Error(fmt.Errorf("%v", r)),
			)
			ran = false
		}
	}()
	ran, err := e.Evaluate(ctx, gameID)
	if err != nil {
		e.log.Warn("evaluation skipped", zap.String("game_id", gameID), zap.Error(err))
		return false
	}
	return ran
}

// Evaluated returns a channel that is closed the next time the game is
// evaluated or ended.
func (e *Engine) Evaluated(gameID string) (<-chan struct{}, error) {
	sig, err := e.games.signal(gameID)
	if err != nil {
		return nil, err
	}
	return sig.wait(), nil
}

// WaitEvaluated blocks until the game has been evaluated more than after
// times. It returns ErrGameOver if the game completes without getting there.
func (e *Engine) WaitEvaluated(ctx context.Context, gameID string, after uint64) (Game, error) {
	for {
		changed, err := e.Evaluated(gameID)
		if err != nil {
			return Game{}, err
		}
		g, err := e.games.Get(gameID)
		if err != nil {
			return Game{}, err
		}
		if g.Evaluations > after {
			return g, nil
		}
		if g.State == StateCompleted {
			return g, ErrGameOver
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return Game{}, ctx.Err()
		}
	}
}

// Scheduler drives Tick on a fixed interval.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	log      *zap.Logger
}

func NewScheduler(engine *Engine, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{engine: engine, interval: interval, log: log}
}

// Run ticks until ctx is cancelled and returns ctx.Err(). A tick that is in
// progress finishes the game it holds before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if n := s.engine.Tick(ctx); n > 0 {
				s.log.Debug("tick evaluated games", zap.Int("count", n))
			}
		}
	}
}
