package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/palegrove/umbra/internal/model"
)

type mockMatchRepo struct {
	matches map[string]*model.Match
	players map[string][]model.MatchPlayer
}

func newMockMatchRepo() *mockMatchRepo {
	return &mockMatchRepo{
		matches: make(map[string]*model.Match),
		players: make(map[string][]model.MatchPlayer),
	}
}

func (m *mockMatchRepo) Create(_ context.Context, id, name, creatorID string, maxPlayers int) (*model.Match, error) {
	mm := &model.Match{
		ID:         id,
		Name:       name,
		CreatorID:  creatorID,
		Status:     model.MatchWaiting,
		MaxPlayers: maxPlayers,
		CreatedAt:  time.Now(),
	}
	m.matches[mm.ID] = mm
	return mm, nil
}

func (m *mockMatchRepo) FindByID(_ context.Context, id string) (*model.Match, error) {
	mm, ok := m.matches[id]
	if !ok {
		return nil, nil
	}
	cp := *mm
	cp.Players = m.players[id]
	return &cp, nil
}

func (m *mockMatchRepo) ListOpen(_ context.Context) ([]model.Match, error) {
	var result []model.Match
	for _, mm := range m.matches {
		if mm.Status == model.MatchWaiting {
			result = append(result, *mm)
		}
	}
	return result, nil
}

func (m *mockMatchRepo) ListActive(_ context.Context) ([]model.Match, error) {
	var result []model.Match
	for _, mm := range m.matches {
		if mm.Status == model.MatchActive {
			cp := *mm
			cp.Players = m.players[mm.ID]
			result = append(result, cp)
		}
	}
	return result, nil
}

func (m *mockMatchRepo) ListByUser(_ context.Context, userID string) ([]model.Match, error) {
	seen := make(map[string]bool)
	var result []model.Match
	for matchID, players := range m.players {
		for _, p := range players {
			if p.UserID == userID && !seen[matchID] {
				if mm, ok := m.matches[matchID]; ok {
					result = append(result, *mm)
					seen[matchID] = true
				}
			}
		}
	}
	for _, mm := range m.matches {
		if mm.CreatorID == userID && !seen[mm.ID] {
			result = append(result, *mm)
			seen[mm.ID] = true
		}
	}
	return result, nil
}

func (m *mockMatchRepo) Join(_ context.Context, matchID, userID string) error {
	m.players[matchID] = append(m.players[matchID], model.MatchPlayer{
		MatchID:   matchID,
		UserID:    userID,
		SeatIndex: len(m.players[matchID]),
		JoinedAt:  time.Now(),
	})
	return nil
}

func (m *mockMatchRepo) JoinAsBot(_ context.Context, matchID, botUserID, personality string) error {
	m.players[matchID] = append(m.players[matchID], model.MatchPlayer{
		MatchID:     matchID,
		UserID:      botUserID,
		SeatIndex:   len(m.players[matchID]),
		IsBot:       true,
		Personality: personality,
		JoinedAt:    time.Now(),
	})
	return nil
}

func (m *mockMatchRepo) PlayerCount(_ context.Context, matchID string) (int, error) {
	return len(m.players[matchID]), nil
}

func (m *mockMatchRepo) SetStarted(_ context.Context, matchID string, seed int64) error {
	mm, ok := m.matches[matchID]
	if !ok {
		return fmt.Errorf("match %s not found", matchID)
	}
	now := time.Now()
	mm.Status = model.MatchActive
	mm.Seed = seed
	mm.StartedAt = &now
	return nil
}

func (m *mockMatchRepo) SetFinished(_ context.Context, matchID, winningFaction string) error {
	mm, ok := m.matches[matchID]
	if !ok {
		return fmt.Errorf("match %s not found", matchID)
	}
	now := time.Now()
	mm.Status = model.MatchFinished
	mm.WinningFaction = winningFaction
	mm.FinishedAt = &now
	return nil
}

func (m *mockMatchRepo) Delete(_ context.Context, matchID string) error {
	delete(m.matches, matchID)
	delete(m.players, matchID)
	return nil
}

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *mockUserRepo) FindByProviderID(_ context.Context, provider, providerID string) (*model.User, error) {
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Upsert(_ context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error) {
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			u.DisplayName = displayName
			return u, nil
		}
	}
	u := &model.User{
		ID:          fmt.Sprintf("user-%d", len(m.users)+1),
		Provider:    provider,
		ProviderID:  providerID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		CreatedAt:   time.Now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) UpdateDisplayName(_ context.Context, id, displayName string) error {
	if u, ok := m.users[id]; ok {
		u.DisplayName = displayName
	}
	return nil
}

type mockEventRepo struct {
	events map[string][]model.MatchEvent
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string][]model.MatchEvent)}
}

func (m *mockEventRepo) Append(_ context.Context, events []model.MatchEvent) error {
	for _, e := range events {
		m.events[e.MatchID] = append(m.events[e.MatchID], e)
	}
	return nil
}

func (m *mockEventRepo) ListByMatch(_ context.Context, matchID string, afterSeq int) ([]model.MatchEvent, error) {
	var result []model.MatchEvent
	for _, e := range m.events[matchID] {
		if e.Seq > afterSeq {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	return result, nil
}

func (m *mockEventRepo) LastSeq(_ context.Context, matchID string) (int, error) {
	max := 0
	for _, e := range m.events[matchID] {
		if e.Seq > max {
			max = e.Seq
		}
	}
	return max, nil
}

type mockMatchCache struct {
	states map[string]json.RawMessage
	timers map[string]time.Time
}

func newMockMatchCache() *mockMatchCache {
	return &mockMatchCache{
		states: make(map[string]json.RawMessage),
		timers: make(map[string]time.Time),
	}
}

func (m *mockMatchCache) SetState(_ context.Context, matchID string, state json.RawMessage) error {
	m.states[matchID] = state
	return nil
}

func (m *mockMatchCache) GetState(_ context.Context, matchID string) (json.RawMessage, error) {
	return m.states[matchID], nil
}

func (m *mockMatchCache) SetTurnTimer(_ context.Context, matchID string, deadline time.Time) error {
	m.timers[matchID] = deadline
	return nil
}

func (m *mockMatchCache) ClearTurnTimer(_ context.Context, matchID string) error {
	delete(m.timers, matchID)
	return nil
}

func (m *mockMatchCache) DeleteMatchData(_ context.Context, matchID string) error {
	delete(m.states, matchID)
	delete(m.timers, matchID)
	return nil
}

// recordingBroadcaster captures broadcast event types for assertions.
type recordingBroadcaster struct {
	events  []string
	private map[string][]string
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{private: make(map[string][]string)}
}

func (b *recordingBroadcaster) BroadcastMatchEvent(_ string, eventType string, _ any) {
	b.events = append(b.events, eventType)
}

func (b *recordingBroadcaster) BroadcastToPlayer(_ string, userID string, eventType string, _ any) {
	b.private[userID] = append(b.private[userID], eventType)
}
