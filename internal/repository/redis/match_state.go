package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis match state.
func stateKey(matchID string) string { return "match:" + matchID + ":state" }
func timerKey(matchID string) string { return "match:" + matchID + ":timer" }

// SetState stores the live match state JSON.
func (c *Client) SetState(ctx context.Context, matchID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(matchID), []byte(state), 0).Err()
}

// GetState retrieves the live match state JSON, nil when absent.
func (c *Client) GetState(ctx context.Context, matchID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match state: %w", err)
	}
	return json.RawMessage(data), nil
}

// turnGracePeriod is the extra time after the displayed deadline before
// the turn is force-ended, giving players a few seconds of leeway.
const turnGracePeriod = 5 * time.Second

// SetTurnTimer creates a timer key with a TTL. When the key expires,
// Redis keyspace notifications trigger a forced end of the current turn.
func (c *Client) SetTurnTimer(ctx context.Context, matchID string, deadline time.Time) error {
	ttl := time.Until(deadline) + turnGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(matchID), deadline.Unix(), ttl).Err()
}

// ClearTurnTimer removes the turn timer for a match.
func (c *Client) ClearTurnTimer(ctx context.Context, matchID string) error {
	return c.rdb.Del(ctx, timerKey(matchID)).Err()
}

// DeleteMatchData removes all Redis data for a match (on match end).
func (c *Client) DeleteMatchData(ctx context.Context, matchID string) error {
	return c.rdb.Del(ctx, stateKey(matchID), timerKey(matchID)).Err()
}
