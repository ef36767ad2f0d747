package service

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TimerListener listens for Redis keyspace notifications on expired turn
// timer keys and force-ends the current turn when a match's deadline
// passes.
type TimerListener struct {
	rdb     *redis.Client
	turnSvc *TurnService
}

// NewTimerListener creates a TimerListener.
func NewTimerListener(rdb *redis.Client, turnSvc *TurnService) *TimerListener {
	return &TimerListener{rdb: rdb, turnSvc: turnSvc}
}

// Start begins listening for expired key events. Blocks until ctx is done.
func (t *TimerListener) Start(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Timer listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Timer listener stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

// handleExpiry processes an expired key. Only acts on match timer keys.
func (t *TimerListener) handleExpiry(ctx context.Context, key string) {
	if !strings.HasPrefix(key, "match:") || !strings.HasSuffix(key, ":timer") {
		return
	}

	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return
	}
	matchID := parts[1]

	log.Info().Str("matchId", matchID).Msg("Turn timer expired, forcing end of turn")
	if err := t.turnSvc.ForceEndTurn(ctx, matchID); err != nil {
		log.Error().Err(err).Str("matchId", matchID).Msg("Forced turn end failed after timer expiry")
	}
}
