package server

import (
	"time"

	"trivia-jack/internal/game"
)

type gameURI struct {
	GameID string `uri:"gameID" binding:"required"`
}

type playerURI struct {
	PlayerID string `uri:"playerID" binding:"required"`
}

type playerQuery struct {
	PlayerID string `form:"player_id" binding:"required"`
}

type addPlayerRequest struct {
	Name string `json:"name" binding:"required,name"`
}

// createGameRequest carries window lengths in whole seconds.
type createGameRequest struct {
	PlayerID        string `json:"player_id" binding:"required"`
	MaxPlayers      int    `json:"max_players" binding:"required,min=2,max=32"`
	MaxQuestionTime int    `json:"max_question_time" binding:"required,min=1,max=3600"`
	MaxAnswerTime   int    `json:"max_answer_time" binding:"required,min=1,max=3600"`
	MaxRounds       int    `json:"max_rounds" binding:"required,min=1,max=50"`
	MaxActiveTime   int    `json:"max_active_time" binding:"min=0"`
}

type joinRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type askRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Title    string `json:"title" binding:"required,title"`
	Answer   *int   `json:"answer" binding:"required"`
}

type answerRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Value    *int   `json:"value" binding:"required"`
}

var createGameRules = requestRules{
	invalid: "invalid game options",
	fields: map[string]map[string]string{
		"player_id":         {"required": "player_id is required"},
		"max_players":       {"required": "max_players is required", "min": "max_players must be at least 2", "max": "max_players must be 32 or fewer"},
		"max_question_time": {"required": "max_question_time is required", "min": "max_question_time must be positive", "max": "max_question_time must be 3600 or fewer"},
		"max_answer_time":   {"required": "max_answer_time is required", "min": "max_answer_time must be positive", "max": "max_answer_time must be 3600 or fewer"},
		"max_rounds":        {"required": "max_rounds is required", "min": "max_rounds must be at least 1", "max": "max_rounds must be 50 or fewer"},
		"max_active_time":   {"min": "max_active_time must not be negative"},
	},
}

var addPlayerRules = requestRules{
	invalid: "invalid player",
	fields: map[string]map[string]string{
		"name": {"required": "name is required", "name": "name must be 1-32 plain characters"},
	},
}

var askRules = requestRules{
	invalid: "invalid question",
	fields: map[string]map[string]string{
		"player_id": {"required": "player_id is required"},
		"title":     {"required": "title is required", "title": "title must be 1-200 plain characters"},
		"answer":    {"required": "answer is required"},
	},
}

var answerRules = requestRules{
	invalid: "invalid answer",
	fields: map[string]map[string]string{
		"player_id": {"required": "player_id is required"},
		"value":     {"required": "value is required"},
	},
}

var playerIDRules = requestRules{
	fields: map[string]map[string]string{
		"player_id": {"required": "player_id is required"},
	},
}

type playerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type gameResponse struct {
	ID              string   `json:"id"`
	CreatorID       string   `json:"creator_id"`
	State           string   `json:"state"`
	Players         []string `json:"players"`
	MaxPlayers      int      `json:"max_players"`
	MaxQuestionTime int      `json:"max_question_time"`
	MaxAnswerTime   int      `json:"max_answer_time"`
	MaxRounds       int      `json:"max_rounds"`
	MaxActiveTime   int      `json:"max_active_time"`
	CurrentRound    int      `json:"current_round"`
	ActivePlayerID  string   `json:"active_player_id,omitempty"`
	QuestionOpen    bool     `json:"question_open"`
}

type gameSummaryResponse struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	Players int    `json:"players"`
	Round   int    `json:"round"`
}

type questionResponse struct {
	Title string `json:"title"`
}

type answerResponse struct {
	PlayerID string `json:"player_id"`
	Value    int    `json:"value"`
}

type rowResponse struct {
	PlayerName  string `json:"player_name"`
	PlayerScore int    `json:"player_score"`
}

type boardResponse struct {
	Rows []rowResponse `json:"rows"`
}

// boardMessage is one frame of the websocket feed.
type boardMessage struct {
	Type  string        `json:"type"`
	State string        `json:"state"`
	Round int           `json:"round"`
	Rows  []rowResponse `json:"rows"`
}

func toPlayerResponse(p game.Player) playerResponse {
	return playerResponse{ID: p.ID, Name: p.Name}
}

func toGameResponse(g game.Game) gameResponse {
	resp := gameResponse{
		ID:              g.ID,
		CreatorID:       g.Options.CreatorID,
		State:           g.State.String(),
		Players:         append([]string{}, g.Players...),
		MaxPlayers:      g.Options.MaxPlayers,
		MaxQuestionTime: seconds(g.Options.MaxQuestionTime),
		MaxAnswerTime:   seconds(g.Options.MaxAnswerTime),
		MaxRounds:       g.Options.MaxRounds,
		MaxActiveTime:   seconds(g.Options.MaxActiveTime),
		CurrentRound:    g.CurrentRound,
		QuestionOpen:    g.ActiveQuestion != nil,
	}
	if g.State == game.StateActive {
		resp.ActivePlayerID = g.ActivePlayer
	}
	return resp
}

func toBoardResponse(board game.LeaderBoard) boardResponse {
	rows := make([]rowResponse, 0, len(board.Rows))
	for _, row := range board.Rows {
		rows = append(rows, rowResponse{PlayerName: row.PlayerName, PlayerScore: row.Score})
	}
	return boardResponse{Rows: rows}
}

func (r createGameRequest) options() game.Options {
	return game.Options{
		CreatorID:       r.PlayerID,
		MaxPlayers:      r.MaxPlayers,
		MaxQuestionTime: time.Duration(r.MaxQuestionTime) * time.Second,
		MaxAnswerTime:   time.Duration(r.MaxAnswerTime) * time.Second,
		MaxRounds:       r.MaxRounds,
		MaxActiveTime:   time.Duration(r.MaxActiveTime) * time.Second,
	}
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
