package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *ManualClock) {
	t.Helper()
	clock := NewManualClock(testStart)
	eng := New(append([]Option{WithClock(clock)}, opts...)...)
	return eng, clock
}

func testOptions(creatorID string, maxPlayers int) Options {
	return Options{
		CreatorID:       creatorID,
		MaxPlayers:      maxPlayers,
		MaxQuestionTime: time.Second,
		MaxAnswerTime:   time.Second,
		MaxRounds:       1,
	}
}

// newTestGame creates a game owned by creator and joins the other names in
// order. It does not start the game.
func newTestGame(t *testing.T, eng *Engine, maxPlayers int, creator string, others ...string) (Game, []Player) {
	t.Helper()
	ctx := context.Background()
	owner := eng.AddPlayer(ctx, creator)
	g, err := eng.CreateGame(ctx, testOptions(owner.ID, maxPlayers))
	require.NoError(t, err)

	players := []Player{owner}
	for _, name := range others {
		p := eng.AddPlayer(ctx, name)
		require.NoError(t, eng.JoinOrStartGame(ctx, g.ID, p.ID))
		players = append(players, p)
	}
	return g, players
}

func scoreOf(t *testing.T, board LeaderBoard, playerID string) int {
	t.Helper()
	for _, row := range board.Rows {
		if row.PlayerID == playerID {
			return row.Score
		}
	}
	t.Fatalf("no board row for player %s", playerID)
	return 0
}

func requireInvariants(t *testing.T, g Game) {
	t.Helper()
	require.Len(t, g.Board.Rows, len(g.Players))
	seen := make(map[string]bool, len(g.Players))
	for _, row := range g.Board.Rows {
		require.False(t, seen[row.PlayerID], "duplicate row for %s", row.PlayerID)
		seen[row.PlayerID] = true
		require.True(t, g.hasPlayer(row.PlayerID))
	}
	if g.State == StateActive {
		require.True(t, g.hasPlayer(g.ActivePlayer))
	}
	if g.ActiveQuestion == nil {
		require.Empty(t, g.Answers)
	}
}
