package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/palegrove/umbra/internal/bot"
	"github.com/palegrove/umbra/internal/model"
	"github.com/palegrove/umbra/pkg/umbra"
)

type turnFixture struct {
	svc         *TurnService
	matchRepo   *mockMatchRepo
	eventRepo   *mockEventRepo
	cache       *mockMatchCache
	broadcaster *recordingBroadcaster
}

func newTurnFixture(timeout time.Duration) *turnFixture {
	f := &turnFixture{
		matchRepo:   newMockMatchRepo(),
		eventRepo:   newMockEventRepo(),
		cache:       newMockMatchCache(),
		broadcaster: newRecordingBroadcaster(),
	}
	f.svc = NewTurnService(f.matchRepo, f.eventRepo, f.cache, f.broadcaster, bot.DefaultPersonalities(), timeout)
	return f
}

// newDuel seats two human players in a waiting match and returns its ID.
func (f *turnFixture) newDuel(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	m, err := f.matchRepo.Create(ctx, uuid.NewString(), "duel", "alice", 2)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	f.matchRepo.Join(ctx, m.ID, "alice")
	f.matchRepo.Join(ctx, m.ID, "bob")
	return m.ID
}

// checkSeqContiguous asserts the persisted event log numbers 1..n with no
// gaps or duplicates.
func checkSeqContiguous(t *testing.T, eventRepo *mockEventRepo, matchID string) {
	t.Helper()
	events, _ := eventRepo.ListByMatch(context.Background(), matchID, 0)
	for i, e := range events {
		if e.Seq != i+1 {
			t.Fatalf("event %d has seq %d, log is not contiguous", i, e.Seq)
		}
	}
}

func TestStartMatchValidations(t *testing.T) {
	f := newTurnFixture(0)
	ctx := context.Background()

	if _, err := f.svc.StartMatch(ctx, "missing", "alice"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}

	matchID := f.newDuel(t)
	if _, err := f.svc.StartMatch(ctx, matchID, "bob"); !errors.Is(err, ErrNotCreator) {
		t.Errorf("expected ErrNotCreator, got %v", err)
	}

	m, _ := f.matchRepo.Create(ctx, uuid.NewString(), "solo", "alice", 2)
	f.matchRepo.Join(ctx, m.ID, "alice")
	if _, err := f.svc.StartMatch(ctx, m.ID, "alice"); !errors.Is(err, ErrNotEnough) {
		t.Errorf("expected ErrNotEnough, got %v", err)
	}

	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); !errors.Is(err, ErrMatchNotWaiting) {
		t.Errorf("expected ErrMatchNotWaiting on second start, got %v", err)
	}
}

func TestStartMatchActivatesAndLogsEvents(t *testing.T) {
	f := newTurnFixture(30 * time.Second)
	ctx := context.Background()
	matchID := f.newDuel(t)

	m, err := f.svc.StartMatch(ctx, matchID, "alice")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if m.Status != model.MatchActive {
		t.Errorf("expected active status, got %s", m.Status)
	}
	if m.Seed == 0 {
		t.Error("expected a stored seed")
	}

	events, _ := f.eventRepo.ListByMatch(ctx, matchID, 0)
	if len(events) == 0 {
		t.Fatal("expected opening events in the log")
	}
	checkSeqContiguous(t, f.eventRepo, matchID)

	sawTurnStart := false
	for _, e := range events {
		if e.Type == string(umbra.EventTurnStarted) {
			sawTurnStart = true
		}
	}
	if !sawTurnStart {
		t.Error("expected a turn_started event in the opening log")
	}

	sawGameStarted := false
	for _, typ := range f.broadcaster.events {
		if typ == "game_started" {
			sawGameStarted = true
		}
	}
	if !sawGameStarted {
		t.Error("expected a game_started broadcast")
	}

	if f.cache.states[matchID] == nil {
		t.Error("expected a cached state snapshot")
	}
	if _, ok := f.cache.timers[matchID]; !ok {
		t.Error("expected a turn timer for the human on turn")
	}
}

func TestApplyIntentRejectsWrongTurn(t *testing.T) {
	f := newTurnFixture(0)
	ctx := context.Background()
	matchID := f.newDuel(t)
	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap, err := f.svc.PublicSnapshot(ctx, matchID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	other := "alice"
	if snap.CurrentPlayerID == "alice" {
		other = "bob"
	}

	err = f.svc.ApplyIntent(ctx, matchID, other, umbra.Intent{Type: umbra.IntentRollMovement})
	var rej *umbra.RejectError
	if !errors.As(err, &rej) {
		t.Fatalf("expected a rejection, got %v", err)
	}
	if rej.Code != umbra.RejectNotYourTurn {
		t.Errorf("expected not_your_turn, got %s", rej.Code)
	}
}

func TestApplyIntentPersistsEventsInOrder(t *testing.T) {
	f := newTurnFixture(0)
	ctx := context.Background()
	matchID := f.newDuel(t)
	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	before, _ := f.eventRepo.LastSeq(ctx, matchID)

	snap, _ := f.svc.PublicSnapshot(ctx, matchID)
	if err := f.svc.ApplyIntent(ctx, matchID, snap.CurrentPlayerID, umbra.Intent{Type: umbra.IntentRollMovement}); err != nil {
		t.Fatalf("roll: %v", err)
	}

	after, _ := f.eventRepo.LastSeq(ctx, matchID)
	if after <= before {
		t.Errorf("expected log to grow past seq %d, got %d", before, after)
	}
	checkSeqContiguous(t, f.eventRepo, matchID)

	events, _ := f.eventRepo.ListByMatch(ctx, matchID, before)
	sawRoll := false
	for _, e := range events {
		if e.Type == string(umbra.EventMovementRolled) {
			sawRoll = true
		}
	}
	if !sawRoll {
		t.Error("expected a movement_rolled event after the roll")
	}
}

func TestForceEndTurnAdvancesToNextPlayer(t *testing.T) {
	f := newTurnFixture(30 * time.Second)
	ctx := context.Background()
	matchID := f.newDuel(t)
	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	before, _ := f.svc.PublicSnapshot(ctx, matchID)
	if err := f.svc.ForceEndTurn(ctx, matchID); err != nil {
		t.Fatalf("force end turn: %v", err)
	}

	after, err := f.svc.PublicSnapshot(ctx, matchID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if after.CurrentPlayerID == before.CurrentPlayerID {
		t.Errorf("expected the turn to pass from %s", before.CurrentPlayerID)
	}
	if after.Phase != umbra.PhaseMovement {
		t.Errorf("expected the next turn to open in movement, got %s", after.Phase)
	}
	if _, ok := f.cache.timers[matchID]; !ok {
		t.Error("expected a fresh turn timer for the next human")
	}
	checkSeqContiguous(t, f.eventRepo, matchID)
}

// playOneTurn drives whoever is on turn through roll, move (preferring a
// deck zone), an optional draw, and end of turn. Returns false once the
// match is no longer live.
func playOneTurn(t *testing.T, f *turnFixture, matchID string) bool {
	t.Helper()
	ctx := context.Background()

	v, ok := f.svc.games.Load(matchID)
	if !ok {
		return false
	}
	g := v.(*umbra.GameState)

	snap, err := f.svc.PublicSnapshot(ctx, matchID)
	if err != nil {
		return false
	}
	cur := snap.CurrentPlayerID

	if err := f.svc.ApplyIntent(ctx, matchID, cur, umbra.Intent{Type: umbra.IntentRollMovement}); err != nil {
		return false
	}
	choices, err := f.svc.MovementChoices(ctx, matchID, cur)
	if err != nil || len(choices) == 0 {
		return false
	}
	zone := choices[0]
	for _, z := range choices {
		if g.Board.Zones[z].Deck != umbra.DeckNone {
			zone = z
			break
		}
	}
	if err := f.svc.ApplyIntent(ctx, matchID, cur, umbra.Intent{Type: umbra.IntentChooseZone, Zone: zone}); err != nil {
		return false
	}

	if deck := g.Board.Zones[zone].Deck; deck != umbra.DeckNone {
		if deck == umbra.DeckAny {
			deck = umbra.DeckBlack
		}
		// ignore failures here: the deck may be exhausted or the draw
		// may end the match
		f.svc.ApplyIntent(ctx, matchID, cur, umbra.Intent{Type: umbra.IntentDrawCard, Deck: deck})
	}

	if err := f.svc.ApplyIntent(ctx, matchID, cur, umbra.Intent{Type: umbra.IntentEndTurn}); err != nil {
		return false
	}
	return true
}

func TestEventsHidePrivateRows(t *testing.T) {
	f := newTurnFixture(0)
	ctx := context.Background()
	matchID := f.newDuel(t)
	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// play until someone draws a card, which produces a private event
	owner := ""
	for i := 0; i < 60 && owner == ""; i++ {
		if !playOneTurn(t, f, matchID) {
			break
		}
		events, _ := f.eventRepo.ListByMatch(ctx, matchID, 0)
		for _, e := range events {
			if e.PrivateTo != "" {
				owner = e.PrivateTo
				break
			}
		}
	}
	if owner == "" {
		t.Fatal("no private event produced within 60 turns")
	}

	ownEvents, err := f.svc.Events(ctx, matchID, owner, 0)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	sawOwn := false
	for _, e := range ownEvents {
		if e.PrivateTo == owner {
			sawOwn = true
		}
	}
	if !sawOwn {
		t.Error("expected the owner to see their own private events")
	}

	spectator, err := f.svc.Events(ctx, matchID, "spectator", 0)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	for _, e := range spectator {
		if e.PrivateTo != "" {
			t.Fatalf("private event (seq %d, to %s) leaked to a spectator", e.Seq, e.PrivateTo)
		}
	}

	if len(f.broadcaster.private[owner]) == 0 {
		t.Error("expected private events pushed only to their owner")
	}
}

func TestRecoverFromCachedSnapshot(t *testing.T) {
	f := newTurnFixture(0)
	ctx := context.Background()
	matchID := f.newDuel(t)
	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap, _ := f.svc.PublicSnapshot(ctx, matchID)
	cur := snap.CurrentPlayerID
	if err := f.svc.ApplyIntent(ctx, matchID, cur, umbra.Intent{Type: umbra.IntentRollMovement}); err != nil {
		t.Fatalf("roll: %v", err)
	}
	before, _ := f.svc.PublicSnapshot(ctx, matchID)

	// a new service over the same stores stands in for a restarted process
	restarted := NewTurnService(f.matchRepo, f.eventRepo, f.cache, f.broadcaster, bot.DefaultPersonalities(), 0)
	if err := restarted.RecoverActiveMatches(ctx); err != nil {
		t.Fatalf("recover: %v", err)
	}

	after, err := restarted.PublicSnapshot(ctx, matchID)
	if err != nil {
		t.Fatalf("snapshot after recovery: %v", err)
	}
	if after.CurrentPlayerID != before.CurrentPlayerID {
		t.Errorf("current player changed across recovery: %s vs %s", before.CurrentPlayerID, after.CurrentPlayerID)
	}
	if after.PendingRoll != before.PendingRoll {
		t.Errorf("pending roll lost across recovery: %d vs %d", before.PendingRoll, after.PendingRoll)
	}
	if after.TurnCount != before.TurnCount {
		t.Errorf("turn count changed across recovery: %d vs %d", before.TurnCount, after.TurnCount)
	}

	// the recovered engine keeps accepting intents and the log stays gapless
	choices, err := restarted.MovementChoices(ctx, matchID, cur)
	if err != nil || len(choices) == 0 {
		t.Fatalf("movement choices after recovery: %v (%d)", err, len(choices))
	}
	if err := restarted.ApplyIntent(ctx, matchID, cur, umbra.Intent{Type: umbra.IntentChooseZone, Zone: choices[0]}); err != nil {
		t.Fatalf("choose zone after recovery: %v", err)
	}
	checkSeqContiguous(t, f.eventRepo, matchID)
}

func TestColdCacheRecoveryClosesMatch(t *testing.T) {
	f := newTurnFixture(0)
	ctx := context.Background()
	matchID := f.newDuel(t)
	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Turn progress cannot be rebuilt from the event log alone; a lost
	// snapshot must close the match out, not quietly restart it.
	delete(f.cache.states, matchID)

	restarted := NewTurnService(f.matchRepo, f.eventRepo, f.cache, f.broadcaster, bot.DefaultPersonalities(), 0)
	if err := restarted.RecoverActiveMatches(ctx); err != nil {
		t.Fatalf("recover: %v", err)
	}

	m, err := f.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		t.Fatalf("find match: %v", err)
	}
	if m.Status != model.MatchFinished {
		t.Fatalf("expected the match closed out, got status %s", m.Status)
	}
	if m.WinningFaction != "" {
		t.Errorf("expected no winner for a closed-out match, got %q", m.WinningFaction)
	}

	if _, err := restarted.PublicSnapshot(ctx, matchID); !errors.Is(err, ErrMatchNotActive) {
		t.Errorf("expected ErrMatchNotActive after close-out, got %v", err)
	}

	ended := false
	for _, e := range f.broadcaster.events {
		if e == "game_ended" {
			ended = true
		}
	}
	if !ended {
		t.Error("expected a game_ended broadcast for the closed match")
	}
}

func TestFinishRecordsWinner(t *testing.T) {
	f := newTurnFixture(0)
	ctx := context.Background()
	matchID := f.newDuel(t)
	if _, err := f.svc.StartMatch(ctx, matchID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	v, _ := f.svc.games.Load(matchID)
	g := v.(*umbra.GameState)
	g.Result = &umbra.WinResult{HasWinner: true, WinningFaction: umbra.FactionShadow, GameOver: true}

	if err := f.svc.finishIfOver(ctx, g); err != nil {
		t.Fatalf("finish: %v", err)
	}

	m, _ := f.matchRepo.FindByID(ctx, matchID)
	if m.Status != model.MatchFinished {
		t.Errorf("expected finished status, got %s", m.Status)
	}
	if m.WinningFaction != "shadow" {
		t.Errorf("expected shadow winner, got %q", m.WinningFaction)
	}
	if _, ok := f.cache.states[matchID]; ok {
		t.Error("expected cached state cleared after the match ends")
	}

	// a second pass is a no-op
	if err := f.svc.finishIfOver(ctx, g); err != nil {
		t.Errorf("second finish: %v", err)
	}
}
