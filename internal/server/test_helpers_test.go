package server

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-jack/internal/config"
	"trivia-jack/internal/game"

	"github.com/gin-gonic/gin"
)

var testStart = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

type testApp struct {
	ts     *httptest.Server
	srv    *Server
	engine *game.Engine
	clock  *game.ManualClock
}

func newTestApp(t *testing.T, cfg config.Config) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := game.NewManualClock(testStart)
	engine := game.New(game.WithClock(clock))
	srv := New(engine, cfg, nil)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return &testApp{ts: ts, srv: srv, engine: engine, clock: clock}
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode)
	}
}

func addPlayer(t *testing.T, ts *httptest.Server, name string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/players", map[string]string{"name": name})
	expectStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	id, ok := body["id"].(string)
	if !ok || id == "" {
		t.Fatalf("expected player id, got %#v", body["id"])
	}
	return id
}

func createGame(t *testing.T, ts *httptest.Server, creatorID string, maxPlayers int) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]any{
		"player_id":         creatorID,
		"max_players":       maxPlayers,
		"max_question_time": 1,
		"max_answer_time":   1,
		"max_rounds":        1,
	})
	expectStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	return body["id"].(string)
}

func joinGame(t *testing.T, ts *httptest.Server, gameID, playerID string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPut, "/api/games/"+gameID, map[string]string{"player_id": playerID})
	expectStatus(t, resp, http.StatusNoContent)
}

type boardRows map[string]int

func fetchBoard(t *testing.T, ts *httptest.Server, gameID string) boardRows {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/games/"+gameID+"/board", nil)
	expectStatus(t, resp, http.StatusOK)
	var board boardResponse
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	rows := make(boardRows, len(board.Rows))
	for _, row := range board.Rows {
		rows[row.PlayerName] = row.PlayerScore
	}
	return rows
}
