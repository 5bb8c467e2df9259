package game

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Client is the full set of operations the API layer drives.
type Client interface {
	AddPlayer(ctx context.Context, name string) Player
	GetPlayer(ctx context.Context, playerID string) (Player, error)
	CreateGame(ctx context.Context, opts Options) (Game, error)
	GetGame(ctx context.Context, gameID string) (Game, error)
	JoinOrStartGame(ctx context.Context, gameID, playerID string) error
	AskQuestion(ctx context.Context, gameID string, q Question) error
	GetActiveQuestion(ctx context.Context, gameID, playerID string) (Question, error)
	SubmitAnswer(ctx context.Context, gameID string, a Answer) (Answer, error)
	GetBoard(ctx context.Context, gameID string) (LeaderBoard, error)
	EndGame(ctx context.Context, gameID, playerID string) error
}

var _ Client = (*Engine)(nil)

// DefaultRecordTimeout bounds a single recorder call.
const DefaultRecordTimeout = 2 * time.Second

type Engine struct {
	clock         Clock
	players       *Registry
	games         *Store
	recorders     []Recorder
	recordTimeout time.Duration
	log           *zap.Logger
}

type Option func(*Engine)

func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func WithRecorder(recorders ...Recorder) Option {
	return func(e *Engine) {
		for _, r := range recorders {
			if r != nil {
				e.recorders = append(e.recorders, r)
			}
		}
	}
}

// WithRecordTimeout sets how long each recorder may take per event.
func WithRecordTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.recordTimeout = d
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		clock:         SystemClock(),
		players:       NewRegistry(),
		games:         NewStore(),
		recordTimeout: DefaultRecordTimeout,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Clock() Clock {
	return e.clock
}

func (e *Engine) Games() []GameSummary {
	return e.games.Summaries()
}

func (e *Engine) AddPlayer(ctx context.Context, name string) Player {
	player := e.players.Add(name)
	e.log.Info("player added", zap.String("player_id", player.ID), zap.String("name", player.Name))
	e.record(ctx, Event{Type: EventPlayerAdded, PlayerID: player.ID, Player: &player})
	return player
}

func (e *Engine) GetPlayer(ctx context.Context, playerID string) (Player, error) {
	return e.players.Get(playerID)
}

func (e *Engine) CreateGame(ctx context.Context, opts Options) (Game, error) {
	creator, err := e.players.Get(opts.CreatorID)
	if err != nil {
		return Game{}, err
	}
	if err := opts.validate(); err != nil {
		return Game{}, err
	}
	created := e.games.Create(Game{
		Options: opts,
		State:   StateCreated,
		Players: []string{creator.ID},
		Board: LeaderBoard{Rows: []Row{
			{PlayerID: creator.ID, PlayerName: creator.Name},
		}},
	})
	e.log.Info("game created",
		zap.String("game_id", created.ID),
		zap.String("creator_id", creator.ID),
		zap.Int("max_players", opts.MaxPlayers),
		zap.Int("max_rounds", opts.MaxRounds),
	)
	e.record(ctx, Event{Type: EventGameCreated, PlayerID: creator.ID, Player: &creator, Game: &created})
	return created, nil
}

func (e *Engine) GetGame(ctx context.Context, gameID string) (Game, error) {
	return e.games.Get(gameID)
}

// JoinOrStartGame starts the game when called by its creator and otherwise
// adds the player as a participant. Repeated calls are no-ops. The creator
// counts toward MaxPlayers, so a full game holds exactly MaxPlayers players.
func (e *Engine) JoinOrStartGame(ctx context.Context, gameID, playerID string) error {
	player, err := e.players.Get(playerID)
	if err != nil {
		return err
	}

	var started, joined bool
	g, err := e.games.Update(gameID, func(g *Game) error {
		if g.State == StateCompleted {
			return ErrGameOver
		}
		if player.ID == g.Options.CreatorID {
			if g.State == StateActive {
				return nil
			}
			if len(g.Players) < MinPlayers {
				return ErrTooFewPlayers
			}
			g.ActivePlayer = player.ID
			g.ActiveUntil = e.clock.Now().Add(g.Options.MaxQuestionTime)
			g.ActiveQuestion = nil
			g.Answers = nil
			g.CurrentRound = 0
			// last, so a scan never sees an Active game without a turn
			g.State = StateActive
			started = true
			return nil
		}
		if g.hasPlayer(player.ID) {
			return nil
		}
		if len(g.Players) >= g.Options.MaxPlayers {
			return ErrGameFull
		}
		g.Players = append(g.Players, player.ID)
		g.Board.Rows = append(g.Board.Rows, Row{PlayerID: player.ID, PlayerName: player.Name})
		joined = true
		return nil
	})
	if err != nil {
		return err
	}

	switch {
	case started:
		e.log.Info("game started", zap.String("game_id", g.ID), zap.Int("players", len(g.Players)))
		e.record(ctx, Event{Type: EventGameStarted, PlayerID: player.ID, Player: &player, Game: &g})
	case joined:
		e.log.Info("player joined", zap.String("game_id", g.ID), zap.String("player_id", player.ID))
		e.record(ctx, Event{Type: EventPlayerJoined, PlayerID: player.ID, Player: &player, Game: &g})
	}
	return nil
}

func (e *Engine) AskQuestion(ctx context.Context, gameID string, q Question) error {
	if _, err := e.players.Get(q.PlayerID); err != nil {
		return err
	}
	g, err := e.games.Update(gameID, func(g *Game) error {
		if !g.hasPlayer(q.PlayerID) {
			return ErrNotYourGame
		}
		if g.State != StateActive {
			return ErrNotActiveGame
		}
		now := e.clock.Now()
		if g.ActivePlayer != q.PlayerID || now.After(g.ActiveUntil) || g.ActiveQuestion != nil {
			return ErrNotYourTurn
		}
		asked := q
		g.ActiveQuestion = &asked
		g.Answers = nil
		g.ActiveUntil = now.Add(g.Options.MaxAnswerTime)
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info("question asked",
		zap.String("game_id", g.ID),
		zap.String("player_id", q.PlayerID),
		zap.Int("round", g.CurrentRound),
	)
	e.record(ctx, Event{Type: EventQuestionAsked, PlayerID: q.PlayerID, Game: &g})
	return nil
}

// GetActiveQuestion returns the open question without its answer.
func (e *Engine) GetActiveQuestion(ctx context.Context, gameID, playerID string) (Question, error) {
	g, err := e.games.Get(gameID)
	if err != nil {
		return Question{}, err
	}
	if !g.hasPlayer(playerID) {
		return Question{}, ErrNotYourGame
	}
	if g.State != StateActive {
		return Question{}, ErrNotActiveGame
	}
	if g.ActiveQuestion == nil {
		return Question{}, ErrNoActiveQuestion
	}
	return Question{Title: g.ActiveQuestion.Title}, nil
}

// SubmitAnswer records a guess and returns the correct value together with
// the asking player. The asker may poll this too; their value is dropped.
func (e *Engine) SubmitAnswer(ctx context.Context, gameID string, a Answer) (Answer, error) {
	if _, err := e.players.Get(a.PlayerID); err != nil {
		return Answer{}, err
	}
	var result Answer
	var recorded bool
	g, err := e.games.Update(gameID, func(g *Game) error {
		if !g.hasPlayer(a.PlayerID) {
			return ErrNotYourGame
		}
		if g.State != StateActive {
			return ErrNotActiveGame
		}
		if g.ActiveQuestion == nil {
			return ErrNoActiveQuestion
		}
		if a.PlayerID != g.ActivePlayer {
			now := e.clock.Now()
			if now.After(g.ActiveUntil) {
				return ErrTooLate
			}
			if g.hasAnswerFrom(a.PlayerID) {
				return ErrAlreadyAnswered
			}
			g.Answers = append(g.Answers, Answer{PlayerID: a.PlayerID, Value: a.Value, SubmittedAt: now})
			recorded = true
		}
		result = Answer{PlayerID: g.ActivePlayer, Value: g.ActiveQuestion.Answer}
		return nil
	})
	if err != nil {
		return Answer{}, err
	}
	if recorded {
		e.log.Debug("answer submitted", zap.String("game_id", g.ID), zap.String("player_id", a.PlayerID))
		e.record(ctx, Event{Type: EventAnswerSubmitted, PlayerID: a.PlayerID, Game: &g})
	}
	return result, nil
}

// GetBoard evaluates the game if its window has expired, so the board never
// lags behind the clock.
func (e *Engine) GetBoard(ctx context.Context, gameID string) (LeaderBoard, error) {
	if _, err := e.Evaluate(ctx, gameID); err != nil {
		return LeaderBoard{}, err
	}
	g, err := e.games.Get(gameID)
	if err != nil {
		return LeaderBoard{}, err
	}
	return g.Board, nil
}

func (e *Engine) EndGame(ctx context.Context, gameID, playerID string) error {
	player, err := e.players.Get(playerID)
	if err != nil {
		return err
	}
	sig, err := e.games.signal(gameID)
	if err != nil {
		return err
	}
	g, err := e.games.Update(gameID, func(g *Game) error {
		if g.State == StateCompleted {
			return ErrGameOver
		}
		if g.Options.CreatorID != player.ID {
			return ErrNotYourGame
		}
		g.ActiveQuestion = nil
		g.Answers = nil
		g.State = StateCompleted
		return nil
	})
	if err != nil {
		return err
	}
	sig.fire()
	e.log.Info("game ended", zap.String("game_id", g.ID), zap.Int("round", g.CurrentRound))
	e.record(ctx, Event{Type: EventGameEnded, PlayerID: player.ID, Player: &player, Game: &g})
	return nil
}
