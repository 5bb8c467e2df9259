package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"trivia-jack/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{groups: make(map[string]map[*websocket.Conn]struct{})}
}

func (h *wsHub) Add(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[gameID] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = conn.Close()
	group := h.groups[gameID]
	if group == nil {
		return
	}
	delete(group, conn)
	if len(group) == 0 {
		delete(h.groups, gameID)
	}
}

func (h *wsHub) Count(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[gameID])
}

func (h *wsHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for gameID, group := range h.groups {
		for conn := range group {
			_ = conn.Close()
		}
		delete(h.groups, gameID)
	}
}

func (s *Server) handleBoardFeed(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	if _, err := s.engine.GetGame(c.Request.Context(), uri.GameID); err != nil {
		s.writeError(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	s.log.Info("ws connected", zap.String("game_id", uri.GameID), zap.String("remote", c.Request.RemoteAddr))
	s.ws.Add(uri.GameID, conn)

	closed := make(chan struct{})
	go s.readWS(uri.GameID, conn, closed)
	go s.streamBoard(uri.GameID, conn, closed)
}

// readWS drains client frames so close and ping are handled, and reports
// when the client goes away.
func (s *Server) readWS(gameID string, conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.log.Debug("ws disconnected", zap.String("game_id", gameID), zap.Error(err))
			return
		}
	}
}

// streamBoard sends the board once on connect and again after every
// evaluation, until the game completes or the client leaves.
func (s *Server) streamBoard(gameID string, conn *websocket.Conn, closed <-chan struct{}) {
	defer s.ws.Remove(gameID, conn)
	ctx := context.Background()

	sent := false
	var last uint64
	for {
		changed, err := s.engine.Evaluated(gameID)
		if err != nil {
			return
		}
		board, err := s.engine.GetBoard(ctx, gameID)
		if err != nil {
			return
		}
		g, err := s.engine.GetGame(ctx, gameID)
		if err != nil {
			return
		}
		done := g.State == game.StateCompleted
		if !sent || g.Evaluations != last || done {
			msg := boardMessage{
				Type:  "board",
				State: g.State.String(),
				Round: g.CurrentRound,
				Rows:  toBoardResponse(board).Rows,
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.log.Debug("ws write failed", zap.String("game_id", gameID), zap.Error(err))
				return
			}
			sent, last = true, g.Evaluations
		}
		if done {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
				time.Now().Add(wsWriteWait))
			return
		}
		select {
		case <-changed:
		case <-closed:
			return
		}
	}
}
