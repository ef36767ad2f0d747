package model

import (
	"encoding/json"
	"time"
)

// Match statuses.
const (
	MatchWaiting  = "waiting"
	MatchActive   = "active"
	MatchFinished = "finished"
)

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Match represents a single game of Umbra.
type Match struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	CreatorID      string        `json:"creator_id"`
	Status         string        `json:"status"` // waiting, active, finished
	WinningFaction string        `json:"winning_faction,omitempty"`
	Seed           int64         `json:"seed,omitempty"`
	MaxPlayers     int           `json:"max_players"`
	CreatedAt      time.Time     `json:"created_at"`
	StartedAt      *time.Time    `json:"started_at,omitempty"`
	FinishedAt     *time.Time    `json:"finished_at,omitempty"`
	Players        []MatchPlayer `json:"players,omitempty"`
}

// MatchPlayer represents a seat in a match. Bots carry the name of the
// personality profile driving them.
type MatchPlayer struct {
	MatchID     string    `json:"match_id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	SeatIndex   int       `json:"seat_index"`
	IsBot       bool      `json:"is_bot"`
	Personality string    `json:"personality,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

// MatchEvent is one row of a match's append-only event log. Payload is
// the engine event serialized as JSON; PrivateTo restricts visibility
// to a single player when set.
type MatchEvent struct {
	ID        int64           `json:"id"`
	MatchID   string          `json:"match_id"`
	Seq       int             `json:"seq"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	PrivateTo string          `json:"private_to,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
