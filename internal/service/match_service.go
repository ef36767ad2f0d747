package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/palegrove/umbra/internal/bot"
	"github.com/palegrove/umbra/internal/model"
	"github.com/palegrove/umbra/internal/repository"
	"github.com/palegrove/umbra/pkg/umbra"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchNotWaiting = errors.New("match is not in waiting status")
	ErrMatchNotActive  = errors.New("match is not active")
	ErrMatchFull       = errors.New("match is full")
	ErrNotEnough       = errors.New("not enough players to start")
	ErrNotCreator      = errors.New("only the creator can do that")
	ErrAlreadyJoined   = errors.New("already joined this match")
	ErrNotInMatch      = errors.New("you are not in this match")
	ErrMatchStateLost  = errors.New("match state was lost and cannot be resumed")
)

// MatchService handles match lifecycle: create, join, bot fill, delete.
type MatchService struct {
	matchRepo repository.MatchRepository
	userRepo  repository.UserRepository
	assigner  *bot.Assigner
}

// NewMatchService creates a MatchService. The assigner hands out bot
// personality profiles in round-robin order.
func NewMatchService(matchRepo repository.MatchRepository, userRepo repository.UserRepository, assigner *bot.Assigner) *MatchService {
	return &MatchService{matchRepo: matchRepo, userRepo: userRepo, assigner: assigner}
}

// CreateMatch mints a match ID, creates the match in waiting status and
// fills the seats past the creator with bot players. maxPlayers is
// clamped to the range the engine accepts.
func (s *MatchService) CreateMatch(ctx context.Context, name, creatorID string, maxPlayers, humanSeats int) (*model.Match, error) {
	if maxPlayers < 2 {
		maxPlayers = 2
	}
	if maxPlayers > umbra.MaxPlayers {
		maxPlayers = umbra.MaxPlayers
	}
	if humanSeats < 1 {
		humanSeats = 1
	}
	if humanSeats > maxPlayers {
		humanSeats = maxPlayers
	}

	m, err := s.matchRepo.Create(ctx, uuid.NewString(), name, creatorID, maxPlayers)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.Join(ctx, m.ID, creatorID); err != nil {
		return nil, err
	}

	botCount := maxPlayers - humanSeats
	for i := 1; i <= botCount; i++ {
		p := s.assigner.Next()
		providerID := fmt.Sprintf("bot-%d", i)
		displayName := fmt.Sprintf("Bot %d (%s)", i, p.Name)
		botUser, err := s.userRepo.Upsert(ctx, "bot", providerID, displayName, "")
		if err != nil {
			return nil, fmt.Errorf("create bot user %d: %w", i, err)
		}
		if err := s.matchRepo.JoinAsBot(ctx, m.ID, botUser.ID, p.Name); err != nil {
			return nil, fmt.Errorf("join bot %d: %w", i, err)
		}
	}

	return s.matchRepo.FindByID(ctx, m.ID)
}

// JoinMatch adds a human player to a waiting match.
func (s *MatchService) JoinMatch(ctx context.Context, matchID, userID string) error {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMatchNotFound
	}
	if m.Status != model.MatchWaiting {
		return ErrMatchNotWaiting
	}
	for _, p := range m.Players {
		if p.UserID == userID {
			return ErrAlreadyJoined
		}
	}

	count, err := s.matchRepo.PlayerCount(ctx, matchID)
	if err != nil {
		return err
	}
	if count >= m.MaxPlayers {
		return ErrMatchFull
	}
	return s.matchRepo.Join(ctx, matchID, userID)
}

// GetMatch returns a match by ID.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*model.Match, error) {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// ListMatches returns open matches or matches the user is in.
func (s *MatchService) ListMatches(ctx context.Context, userID, filter string) ([]model.Match, error) {
	switch filter {
	case "my":
		return s.matchRepo.ListByUser(ctx, userID)
	default:
		return s.matchRepo.ListOpen(ctx)
	}
}

// DeleteMatch removes a waiting match. Only the creator can delete.
func (s *MatchService) DeleteMatch(ctx context.Context, matchID, userID string) error {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMatchNotFound
	}
	if m.Status != model.MatchWaiting {
		return ErrMatchNotWaiting
	}
	if m.CreatorID != userID {
		return ErrNotCreator
	}
	return s.matchRepo.Delete(ctx, matchID)
}
