package server

import (
	"errors"
	"net/http"

	"trivia-jack/internal/game"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound), errors.Is(err, game.ErrStateUnavailable):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrPreconditionFailed):
		return http.StatusConflict
	case errors.Is(err, game.ErrTurnViolation):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
