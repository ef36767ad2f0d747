//go:build integration

package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/palegrove/umbra/internal/testutil"
)

var testRDB *goredis.Client

func setup(t *testing.T) *Client {
	t.Helper()
	if testRDB == nil {
		testRDB = testutil.SetupRedis(t)
	}
	testutil.CleanupRedis(t, testRDB)
	return &Client{rdb: testRDB}
}

func TestMatchStateRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	matchID := "test-match-1"

	state := json.RawMessage(`{"match_id":"test-match-1","turn":{"phase":"movement","turn_count":3}}`)

	if err := c.SetState(ctx, matchID, state); err != nil {
		t.Fatalf("set match state: %v", err)
	}

	got, err := c.GetState(ctx, matchID)
	if err != nil {
		t.Fatalf("get match state: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil state")
	}

	var fetched map[string]any
	json.Unmarshal(got, &fetched)
	if fetched["match_id"] != "test-match-1" {
		t.Fatalf("state round-trip failed: %s", string(got))
	}
}

func TestMatchStateNotFound(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	got, err := c.GetState(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("get missing state: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing match state")
	}
}

func TestTurnTimerSetAndClear(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	matchID := "test-match-2"

	deadline := time.Now().Add(time.Minute)
	if err := c.SetTurnTimer(ctx, matchID, deadline); err != nil {
		t.Fatalf("set turn timer: %v", err)
	}

	ttl, err := testRDB.TTL(ctx, timerKey(matchID)).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute+turnGracePeriod {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	if err := c.ClearTurnTimer(ctx, matchID); err != nil {
		t.Fatalf("clear turn timer: %v", err)
	}
	exists, err := testRDB.Exists(ctx, timerKey(matchID)).Result()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists != 0 {
		t.Fatal("expected timer key to be gone")
	}
}

func TestTurnTimerPastDeadline(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	matchID := "test-match-3"

	// a deadline already in the past still gets a short positive TTL
	if err := c.SetTurnTimer(ctx, matchID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("set turn timer: %v", err)
	}
	ttl, err := testRDB.TTL(ctx, timerKey(matchID)).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 {
		t.Fatalf("expected positive ttl, got %v", ttl)
	}
}

func TestDeleteMatchData(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	matchID := "test-match-4"

	c.SetState(ctx, matchID, json.RawMessage(`{}`))
	c.SetTurnTimer(ctx, matchID, time.Now().Add(time.Minute))

	if err := c.DeleteMatchData(ctx, matchID); err != nil {
		t.Fatalf("delete match data: %v", err)
	}

	got, err := c.GetState(ctx, matchID)
	if err != nil {
		t.Fatalf("get state after delete: %v", err)
	}
	if got != nil {
		t.Fatal("expected state to be gone")
	}
}
