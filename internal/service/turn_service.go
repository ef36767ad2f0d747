package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/palegrove/umbra/internal/bot"
	"github.com/palegrove/umbra/internal/model"
	"github.com/palegrove/umbra/internal/repository"
	"github.com/palegrove/umbra/pkg/umbra"
)

// TurnService owns the live match states and applies player intents.
// All mutation of a match goes through its per-match lock; the engine
// itself is single-threaded per match.
type TurnService struct {
	matchRepo     repository.MatchRepository
	eventRepo     repository.EventRepository
	cache         repository.MatchCache
	broadcaster   Broadcaster
	personalities []bot.Personality
	turnTimeout   time.Duration

	games     sync.Map // matchID -> *umbra.GameState
	gameLocks sync.Map // matchID -> *sync.Mutex
	seqs      sync.Map // matchID -> int (last persisted event seq)
}

// NewTurnService creates a TurnService.
func NewTurnService(matchRepo repository.MatchRepository, eventRepo repository.EventRepository, cache repository.MatchCache, broadcaster Broadcaster, personalities []bot.Personality, turnTimeout time.Duration) *TurnService {
	return &TurnService{
		matchRepo:     matchRepo,
		eventRepo:     eventRepo,
		cache:         cache,
		broadcaster:   broadcaster,
		personalities: personalities,
		turnTimeout:   turnTimeout,
	}
}

// lockFor returns the mutex guarding one match's state.
func (s *TurnService) lockFor(matchID string) *sync.Mutex {
	mu, _ := s.gameLocks.LoadOrStore(matchID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// StartMatch builds the engine state for a waiting match, persists the
// opening events, and lets any leading bot seats play until a human is up.
func (s *TurnService) StartMatch(ctx context.Context, matchID, userID string) (*model.Match, error) {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMatchNotFound
	}
	if m.Status != model.MatchWaiting {
		return nil, ErrMatchNotWaiting
	}
	if m.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if len(m.Players) < umbra.MinPlayers {
		return nil, ErrNotEnough
	}

	seats := make([]umbra.Seat, 0, len(m.Players))
	for _, p := range m.Players {
		seats = append(seats, umbra.Seat{
			ID:          p.UserID,
			DisplayName: p.DisplayName,
			IsHuman:     !p.IsBot,
			Personality: p.Personality,
		})
	}

	seed := time.Now().UnixNano()
	g, err := umbra.NewGame(matchID, seats, seed)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.SetStarted(ctx, matchID, seed); err != nil {
		return nil, err
	}
	s.games.Store(matchID, g)

	mu := s.lockFor(matchID)
	mu.Lock()
	defer mu.Unlock()

	s.broadcaster.BroadcastMatchEvent(matchID, "game_started", map[string]any{"match_id": matchID})
	if err := s.flush(ctx, g); err != nil {
		return nil, err
	}
	if err := s.driveBots(ctx, g); err != nil {
		return nil, err
	}

	return s.matchRepo.FindByID(ctx, matchID)
}

// ApplyIntent applies one player intent to a live match. Rule rejections
// come back as *umbra.RejectError for the handler to map; after a valid
// intent any bot seats that come up are played immediately.
func (s *TurnService) ApplyIntent(ctx context.Context, matchID, userID string, in umbra.Intent) error {
	mu := s.lockFor(matchID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.liveGame(ctx, matchID)
	if err != nil {
		return err
	}

	if err := g.Apply(userID, in); err != nil {
		if umbra.IsFatal(err) {
			log.Error().Err(err).Str("matchId", matchID).Msg("Engine invariant violation")
		}
		// flush whatever was emitted before the rejection
		if ferr := s.flush(ctx, g); ferr != nil {
			log.Error().Err(ferr).Str("matchId", matchID).Msg("Event flush failed after rejection")
		}
		return err
	}

	if err := s.flush(ctx, g); err != nil {
		return err
	}
	if err := s.finishIfOver(ctx, g); err != nil {
		return err
	}
	return s.driveBots(ctx, g)
}

// MovementChoices returns the zones the current player may move to after
// rolling, for clients rendering the choice.
func (s *TurnService) MovementChoices(ctx context.Context, matchID, userID string) ([]umbra.ZoneID, error) {
	mu := s.lockFor(matchID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.liveGame(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return g.MovementChoices(userID)
}

// PublicSnapshot returns the spectator view of a live match.
func (s *TurnService) PublicSnapshot(ctx context.Context, matchID string) (umbra.Snapshot, error) {
	mu := s.lockFor(matchID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.liveGame(ctx, matchID)
	if err != nil {
		return umbra.Snapshot{}, err
	}
	return g.PublicSnapshot(), nil
}

// PrivateSnapshot returns one player's view, including their own hidden
// identity and hand.
func (s *TurnService) PrivateSnapshot(ctx context.Context, matchID, userID string) (umbra.PrivateSnapshot, error) {
	mu := s.lockFor(matchID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.liveGame(ctx, matchID)
	if err != nil {
		return umbra.PrivateSnapshot{}, err
	}
	return g.PrivateSnapshotFor(userID)
}

// Events returns a match's persisted event log after the given seq,
// filtered to what the requesting user may see.
func (s *TurnService) Events(ctx context.Context, matchID, userID string, afterSeq int) ([]model.MatchEvent, error) {
	events, err := s.eventRepo.ListByMatch(ctx, matchID, afterSeq)
	if err != nil {
		return nil, err
	}
	visible := events[:0]
	for _, e := range events {
		if e.PrivateTo == "" || e.PrivateTo == userID {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// ForceEndTurn ends the current player's turn when their deadline passes.
// A player stuck mid-movement is moved to the first legal zone first.
func (s *TurnService) ForceEndTurn(ctx context.Context, matchID string) error {
	mu := s.lockFor(matchID)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.liveGame(ctx, matchID)
	if err != nil {
		return err
	}
	if g.IsOver() {
		return nil
	}

	cur := g.CurrentPlayer()
	log.Info().Str("matchId", matchID).Str("playerId", cur.ID).Msg("Turn deadline passed, forcing end of turn")

	if g.Turn.Phase == umbra.PhaseMovement {
		if g.Turn.PendingRoll == 0 {
			if _, err := g.RollMovement(cur.ID); err != nil {
				return err
			}
		}
		choices, err := g.MovementChoices(cur.ID)
		if err != nil {
			return err
		}
		if len(choices) > 0 {
			if err := g.ChooseZone(cur.ID, choices[0]); err != nil {
				return err
			}
		}
	}
	if err := g.EndTurn(cur.ID); err != nil {
		return err
	}

	if err := s.flush(ctx, g); err != nil {
		return err
	}
	if err := s.finishIfOver(ctx, g); err != nil {
		return err
	}
	return s.driveBots(ctx, g)
}

// RecoverActiveMatches reloads live states after a restart from the
// Redis snapshots. Matches whose snapshot is gone are closed out, not
// restarted.
func (s *TurnService) RecoverActiveMatches(ctx context.Context) error {
	matches, err := s.matchRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, m := range matches {
		mu := s.lockFor(m.ID)
		mu.Lock()
		err := s.recoverMatch(ctx, m)
		mu.Unlock()
		if err != nil {
			log.Error().Err(err).Str("matchId", m.ID).Msg("Match recovery failed")
			continue
		}
		log.Info().Str("matchId", m.ID).Msg("Recovered active match")
	}
	return nil
}

// recoverMatch rebuilds one match's live state from its cached snapshot.
// Intents are not persisted, so a cold cache cannot be replayed; such a
// match is closed out with no winner rather than silently restarted from
// its opening state. The caller holds the match lock.
func (s *TurnService) recoverMatch(ctx context.Context, m model.Match) error {
	raw, err := s.cache.GetState(ctx, m.ID)
	if err != nil {
		return err
	}
	if raw == nil {
		log.Error().Str("matchId", m.ID).Msg("Cached state missing for active match, closing it without a winner")
		if err := s.matchRepo.SetFinished(ctx, m.ID, ""); err != nil {
			return err
		}
		if err := s.cache.DeleteMatchData(ctx, m.ID); err != nil {
			log.Error().Err(err).Str("matchId", m.ID).Msg("Failed to clear match cache")
		}
		s.broadcaster.BroadcastMatchEvent(m.ID, "game_ended", map[string]any{"match_id": m.ID, "winning_faction": ""})
		return ErrMatchStateLost
	}

	g := &umbra.GameState{}
	if err := json.Unmarshal(raw, g); err != nil {
		return fmt.Errorf("decode cached state: %w", err)
	}
	g.Rehydrate()

	seq, err := s.eventRepo.LastSeq(ctx, m.ID)
	if err != nil {
		return err
	}
	s.seqs.Store(m.ID, seq)
	s.games.Store(m.ID, g)

	if err := s.finishIfOver(ctx, g); err != nil {
		return err
	}
	return s.driveBots(ctx, g)
}

// liveGame returns the in-memory state for an active match. Callers hold
// the match lock.
func (s *TurnService) liveGame(ctx context.Context, matchID string) (*umbra.GameState, error) {
	if v, ok := s.games.Load(matchID); ok {
		return v.(*umbra.GameState), nil
	}
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMatchNotFound
	}
	if m.Status != model.MatchActive {
		return nil, ErrMatchNotActive
	}
	if err := s.recoverMatch(ctx, *m); err != nil {
		return nil, err
	}
	v, _ := s.games.Load(matchID)
	return v.(*umbra.GameState), nil
}

// driveBots plays bot seats until a human is up or the match ends.
func (s *TurnService) driveBots(ctx context.Context, g *umbra.GameState) error {
	for !g.IsOver() && g.Turn.Phase == umbra.PhaseMovement && !g.Turn.Halted {
		cur := g.CurrentPlayer()
		if cur.IsHuman {
			break
		}

		p, ok := bot.ByName(s.personalities, cur.Personality)
		if !ok {
			p = bot.DefaultPersonalities()[0]
		}
		strategy := bot.StrategyFor("utility", p)

		if _, err := bot.RunTurn(g, cur.ID, strategy); err != nil {
			if umbra.IsFatal(err) {
				return err
			}
			log.Warn().Err(err).Str("matchId", g.MatchID).Str("botId", cur.ID).Msg("Bot turn ended with error")
		}
		if err := s.flush(ctx, g); err != nil {
			return err
		}
		if err := s.finishIfOver(ctx, g); err != nil {
			return err
		}
	}

	if !g.IsOver() && g.CurrentPlayer().IsHuman && s.turnTimeout > 0 {
		deadline := time.Now().Add(s.turnTimeout)
		if err := s.cache.SetTurnTimer(ctx, g.MatchID, deadline); err != nil {
			log.Error().Err(err).Str("matchId", g.MatchID).Msg("Failed to set turn timer")
		}
	}
	return nil
}

// flush drains the engine outbox: persists the events, pushes them over
// the hub, and refreshes the cached state snapshot.
func (s *TurnService) flush(ctx context.Context, g *umbra.GameState) error {
	events := g.DrainEvents()
	if len(events) > 0 {
		seq := 0
		if v, ok := s.seqs.Load(g.MatchID); ok {
			seq = v.(int)
		}

		rows := make([]model.MatchEvent, 0, len(events))
		for _, e := range events {
			seq++
			payload, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshal event: %w", err)
			}
			rows = append(rows, model.MatchEvent{
				MatchID:   g.MatchID,
				Seq:       seq,
				Type:      string(e.Type),
				Payload:   payload,
				PrivateTo: e.PrivateTo,
			})
		}
		if err := s.eventRepo.Append(ctx, rows); err != nil {
			return err
		}
		s.seqs.Store(g.MatchID, seq)

		for _, e := range events {
			if e.PrivateTo != "" {
				s.broadcaster.BroadcastToPlayer(g.MatchID, e.PrivateTo, string(e.Type), e)
				continue
			}
			s.broadcaster.BroadcastMatchEvent(g.MatchID, string(e.Type), e)
		}
	}

	state, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.cache.SetState(ctx, g.MatchID, state); err != nil {
		log.Error().Err(err).Str("matchId", g.MatchID).Msg("Failed to cache match state")
	}
	return nil
}

// finishIfOver persists the result and clears live data once the match ends.
func (s *TurnService) finishIfOver(ctx context.Context, g *umbra.GameState) error {
	if !g.IsOver() {
		return nil
	}
	if _, loaded := s.games.LoadAndDelete(g.MatchID); !loaded {
		return nil
	}
	winner := ""
	if g.Result != nil {
		winner = string(g.Result.WinningFaction)
	}
	if err := s.matchRepo.SetFinished(ctx, g.MatchID, winner); err != nil {
		return err
	}
	if err := s.cache.DeleteMatchData(ctx, g.MatchID); err != nil {
		log.Error().Err(err).Str("matchId", g.MatchID).Msg("Failed to clear match cache")
	}
	s.seqs.Delete(g.MatchID)
	log.Info().Str("matchId", g.MatchID).Str("winner", winner).Msg("Match finished")
	return nil
}
