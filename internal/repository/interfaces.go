package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/palegrove/umbra/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// MatchRepository defines match and seat data operations.
type MatchRepository interface {
	Create(ctx context.Context, id, name, creatorID string, maxPlayers int) (*model.Match, error)
	FindByID(ctx context.Context, id string) (*model.Match, error)
	ListOpen(ctx context.Context) ([]model.Match, error)
	ListActive(ctx context.Context) ([]model.Match, error)
	ListByUser(ctx context.Context, userID string) ([]model.Match, error)
	Join(ctx context.Context, matchID, userID string) error
	JoinAsBot(ctx context.Context, matchID, botUserID, personality string) error
	PlayerCount(ctx context.Context, matchID string) (int, error)
	SetStarted(ctx context.Context, matchID string, seed int64) error
	SetFinished(ctx context.Context, matchID, winningFaction string) error
	Delete(ctx context.Context, matchID string) error
}

// EventRepository defines the append-only match event log.
type EventRepository interface {
	Append(ctx context.Context, events []model.MatchEvent) error
	ListByMatch(ctx context.Context, matchID string, afterSeq int) ([]model.MatchEvent, error)
	LastSeq(ctx context.Context, matchID string) (int, error)
}

// MatchCache defines live match state operations (Redis).
type MatchCache interface {
	SetState(ctx context.Context, matchID string, state json.RawMessage) error
	GetState(ctx context.Context, matchID string) (json.RawMessage, error)
	SetTurnTimer(ctx context.Context, matchID string, deadline time.Time) error
	ClearTurnTimer(ctx context.Context, matchID string) error
	DeleteMatchData(ctx context.Context, matchID string) error
}
