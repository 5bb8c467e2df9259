package server

import (
	"net/http"

	"trivia-jack/internal/game"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAddPlayer(c *gin.Context) {
	var req addPlayerRequest
	if !bindJSON(c, &req, addPlayerRules) {
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player := s.engine.AddPlayer(c.Request.Context(), name)
	c.JSON(http.StatusCreated, toPlayerResponse(player))
}

func (s *Server) handleGetPlayer(c *gin.Context) {
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	player, err := s.engine.GetPlayer(c.Request.Context(), uri.PlayerID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPlayerResponse(player))
}

func (s *Server) handleListGames(c *gin.Context) {
	summaries := s.engine.Games()
	resp := make([]gameSummaryResponse, 0, len(summaries))
	for _, g := range summaries {
		resp = append(resp, gameSummaryResponse{
			ID:      g.ID,
			State:   g.State.String(),
			Players: g.Players,
			Round:   g.Round,
		})
	}
	c.JSON(http.StatusOK, gin.H{"games": resp})
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if !bindJSON(c, &req, createGameRules) {
		return
	}
	g, err := s.engine.CreateGame(c.Request.Context(), req.options())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGameResponse(g))
}

func (s *Server) handleGetGame(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	g, err := s.engine.GetGame(c.Request.Context(), uri.GameID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGameResponse(g))
}

func (s *Server) handleJoinOrStart(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req joinRequest
	if !bindJSON(c, &req, playerIDRules) {
		return
	}
	if err := s.engine.JoinOrStartGame(c.Request.Context(), uri.GameID, req.PlayerID); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEndGame(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var query playerQuery
	if !bindQuery(c, &query, playerIDRules) {
		return
	}
	if err := s.engine.EndGame(c.Request.Context(), uri.GameID, query.PlayerID); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetQuestion(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var query playerQuery
	if !bindQuery(c, &query, playerIDRules) {
		return
	}
	q, err := s.engine.GetActiveQuestion(c.Request.Context(), uri.GameID, query.PlayerID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questionResponse{Title: q.Title})
}

func (s *Server) handleAskQuestion(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req askRequest
	if !bindJSON(c, &req, askRules) {
		return
	}
	title, err := validateTitle(req.Title)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := game.Question{Title: title, Answer: *req.Answer, PlayerID: req.PlayerID}
	if err := s.engine.AskQuestion(c.Request.Context(), uri.GameID, q); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSubmitAnswer(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req answerRequest
	if !bindJSON(c, &req, answerRules) {
		return
	}
	result, err := s.engine.SubmitAnswer(c.Request.Context(), uri.GameID, game.Answer{
		PlayerID: req.PlayerID,
		Value:    *req.Value,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answerResponse{PlayerID: result.PlayerID, Value: result.Value})
}

func (s *Server) handleGetBoard(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	board, err := s.engine.GetBoard(c.Request.Context(), uri.GameID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}
