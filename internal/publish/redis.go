package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trivia-jack/internal/game"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "trivia:board:"

func BoardKey(gameID string) string {
	return keyPrefix + gameID
}

func BoardChannel(gameID string) string {
	return keyPrefix + gameID + ":updates"
}

// BoardCache keeps the latest board of every game in Redis and announces
// each change on the game's channel.
type BoardCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

var _ game.Recorder = (*BoardCache)(nil)

func NewBoardCache(client redis.Cmdable, ttl time.Duration, log *zap.Logger) *BoardCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &BoardCache{client: client, ttl: ttl, log: log}
}

// DialRedis connects and pings so a bad address fails at startup.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (c *BoardCache) Record(ctx context.Context, ev game.Event) error {
	if !BoardChanged(ev) {
		return nil
	}
	body, err := json.Marshal(NewMessage(ev))
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	gameID := ev.Game.ID
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, BoardKey(gameID), body, c.ttl)
		pipe.Publish(ctx, BoardChannel(gameID), body)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache board %s: %w", gameID, err)
	}
	c.log.Debug("board cached", zap.String("game_id", gameID), zap.String("event", string(ev.Type)))
	return nil
}
