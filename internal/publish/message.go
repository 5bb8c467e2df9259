package publish

import (
	"time"

	"trivia-jack/internal/game"
)

type Row struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	PlayerScore int    `json:"player_score"`
}

// Message is the external form of a game.Event. It never carries the
// answer to an open question.
type Message struct {
	Type           string    `json:"type"`
	At             time.Time `json:"at"`
	GameID         string    `json:"game_id,omitempty"`
	PlayerID       string    `json:"player_id,omitempty"`
	State          string    `json:"state,omitempty"`
	Round          int       `json:"round"`
	ActivePlayerID string    `json:"active_player_id,omitempty"`
	Rows           []Row     `json:"rows,omitempty"`
}

func NewMessage(ev game.Event) Message {
	msg := Message{
		Type:     string(ev.Type),
		At:       ev.At.UTC(),
		PlayerID: ev.PlayerID,
	}
	if g := ev.Game; g != nil {
		msg.GameID = g.ID
		msg.State = g.State.String()
		msg.Round = g.CurrentRound
		if g.State == game.StateActive {
			msg.ActivePlayerID = g.ActivePlayer
		}
		msg.Rows = Rows(g.Board)
	}
	return msg
}

func Rows(board game.LeaderBoard) []Row {
	rows := make([]Row, 0, len(board.Rows))
	for _, row := range board.Rows {
		rows = append(rows, Row{PlayerID: row.PlayerID, PlayerName: row.PlayerName, PlayerScore: row.Score})
	}
	return rows
}

// BoardChanged reports whether ev can move a leaderboard.
func BoardChanged(ev game.Event) bool {
	if ev.Game == nil {
		return false
	}
	switch ev.Type {
	case game.EventGameCreated, game.EventPlayerJoined, game.EventGameStarted,
		game.EventGameEvaluated, game.EventGameCompleted, game.EventGameEnded:
		return true
	}
	return false
}
