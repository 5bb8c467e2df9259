package server

import (
	"net/http"
	"time"

	"trivia-jack/internal/config"
	"trivia-jack/internal/game"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Engine is what the HTTP layer needs from the game engine.
type Engine interface {
	game.Client
	Games() []game.GameSummary
	Evaluated(gameID string) (<-chan struct{}, error)
}

type Server struct {
	engine Engine
	cfg    config.Config
	log    *zap.Logger
	ws     *wsHub
}

func New(engine Engine, cfg config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	registerValidators()
	return &Server{
		engine: engine,
		cfg:    cfg,
		log:    log,
		ws:     newWSHub(),
	}
}

func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/healthz", s.handleHealth)
	r.GET("/ws/games/:gameID", s.handleBoardFeed)

	api := r.Group("/api")
	{
		api.POST("/players", s.handleAddPlayer)
		api.GET("/players/:playerID", s.handleGetPlayer)

		api.GET("/games", s.handleListGames)
		api.POST("/games", s.handleCreateGame)
		api.GET("/games/:gameID", s.handleGetGame)
		api.PUT("/games/:gameID", s.handleJoinOrStart)
		api.DELETE("/games/:gameID", s.handleEndGame)
		api.GET("/games/:gameID/questions", s.handleGetQuestion)
		api.POST("/games/:gameID/questions", s.handleAskQuestion)
		api.PUT("/games/:gameID/questions", s.handleSubmitAnswer)
		api.GET("/games/:gameID/board", s.handleGetBoard)
	}
	return r
}

// Close drops every open board feed.
func (s *Server) Close() {
	s.ws.CloseAll()
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("http request", fields...)
			return
		}
		log.Debug("http request", fields...)
	}
}
