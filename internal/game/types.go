package game

import (
	"fmt"
	"time"
)

// MinPlayers is the smallest number of participants a game can start with.
const MinPlayers = 2

type State int

const (
	StateCreated State = iota
	StateActive
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Player struct {
	ID   string
	Name string
}

type Options struct {
	CreatorID       string
	MaxPlayers      int
	MaxQuestionTime time.Duration
	MaxAnswerTime   time.Duration
	MaxRounds       int
	// MaxActiveTime is stored with the game but not enforced.
	MaxActiveTime time.Duration
}

func (o Options) validate() error {
	if o.MaxPlayers < MinPlayers {
		return fmt.Errorf("%w: max players must be at least %d", ErrInvalidOptions, MinPlayers)
	}
	if o.MaxRounds < 1 {
		return fmt.Errorf("%w: max rounds must be at least 1", ErrInvalidOptions)
	}
	if o.MaxQuestionTime <= 0 || o.MaxAnswerTime <= 0 {
		return fmt.Errorf("%w: question and answer times must be positive", ErrInvalidOptions)
	}
	if o.MaxActiveTime < 0 {
		return fmt.Errorf("%w: max active time must not be negative", ErrInvalidOptions)
	}
	return nil
}

type Question struct {
	Title    string
	Answer   int
	PlayerID string
}

type Answer struct {
	PlayerID    string
	Value       int
	SubmittedAt time.Time
	Score       int
}

type Row struct {
	PlayerID   string
	PlayerName string
	Score      int
}

type LeaderBoard struct {
	Rows []Row
}

func (b LeaderBoard) clone() LeaderBoard {
	rows := make([]Row, len(b.Rows))
	copy(rows, b.Rows)
	return LeaderBoard{Rows: rows}
}

func (b *LeaderBoard) row(playerID string) *Row {
	for i := range b.Rows {
		if b.Rows[i].PlayerID == playerID {
			return &b.Rows[i]
		}
	}
	return nil
}

// Game is the aggregate for one match. Values handed out by the engine are
// deep copies; the live aggregate never leaves the Store.
type Game struct {
	ID             string
	Options        Options
	State          State
	Players        []string
	ActivePlayer   string
	ActiveUntil    time.Time
	ActiveQuestion *Question
	Answers        []Answer
	CurrentRound   int
	Board          LeaderBoard
	Evaluations    uint64
}

func (g *Game) clone() Game {
	out := *g
	out.Players = append([]string(nil), g.Players...)
	out.Answers = append([]Answer(nil), g.Answers...)
	if g.ActiveQuestion != nil {
		q := *g.ActiveQuestion
		out.ActiveQuestion = &q
	}
	out.Board = g.Board.clone()
	return out
}

func (g *Game) hasPlayer(playerID string) bool {
	return g.JoinIndex(playerID) >= 0
}

// JoinIndex returns the player's position in turn order, or -1.
func (g *Game) JoinIndex(playerID string) int {
	for i, id := range g.Players {
		if id == playerID {
			return i
		}
	}
	return -1
}

func (g *Game) hasAnswerFrom(playerID string) bool {
	for _, answer := range g.Answers {
		if answer.PlayerID == playerID {
			return true
		}
	}
	return false
}

// due reports whether the current window has closed at now.
func (g *Game) due(now time.Time) bool {
	return g.State == StateActive && !now.Before(g.ActiveUntil)
}
