package umbra

import (
	"errors"
	"testing"
)

func TestPublicSnapshotHidesHiddenIdentities(t *testing.T) {
	g, err := NewGame("m", []Seat{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}, 41)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	g.Players[1].Hand = append(g.Players[1].Hand, cardByID(blackCards(), "cursed_blade"))

	s := g.PublicSnapshot()
	if len(s.Players) != 4 {
		t.Fatalf("expected 4 players, got %d", len(s.Players))
	}
	for _, p := range s.Players {
		if p.CharacterID != "" || p.Faction != "" {
			t.Errorf("unrevealed player %s leaks identity %s/%s", p.ID, p.CharacterID, p.Faction)
		}
	}
	if s.Players[1].HandSize != 1 {
		t.Errorf("expected hand size 1, got %d", s.Players[1].HandSize)
	}

	g.Players[0].IsRevealed = true
	s = g.PublicSnapshot()
	if s.Players[0].CharacterID != g.Players[0].Character.ID {
		t.Errorf("revealed player must expose the character, got %q", s.Players[0].CharacterID)
	}
	if s.Players[0].Faction != g.Players[0].Faction() {
		t.Errorf("revealed player must expose the faction, got %q", s.Players[0].Faction)
	}
}

func TestPublicSnapshotTurnAndDecks(t *testing.T) {
	g, err := NewGame("m", []Seat{{ID: "a"}, {ID: "b"}}, 42)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}

	s := g.PublicSnapshot()
	if s.CurrentPlayerID != "a" || s.CurrentPlayerIndex != 0 {
		t.Errorf("expected seat 0 on turn, got %s (%d)", s.CurrentPlayerID, s.CurrentPlayerIndex)
	}
	if s.Phase != PhaseMovement || s.TurnCount != 1 {
		t.Errorf("expected turn 1 movement, got turn %d %s", s.TurnCount, s.Phase)
	}
	if len(s.Decks) != 3 {
		t.Fatalf("expected 3 decks, got %d", len(s.Decks))
	}
	for _, d := range s.Decks {
		if d.Remaining != g.Decks[d.Type].Remaining() {
			t.Errorf("%s deck count %d, engine says %d", d.Type, d.Remaining, g.Decks[d.Type].Remaining())
		}
	}
}

func TestPrivateSnapshotShowsOwnSecrets(t *testing.T) {
	g, err := NewGame("m", []Seat{{ID: "a"}, {ID: "b"}}, 43)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	g.Players[0].Hand = append(g.Players[0].Hand, cardByID(whiteCards(), "iron_ward"))

	s, err := g.PrivateSnapshotFor("a")
	if err != nil {
		t.Fatalf("private snapshot: %v", err)
	}
	if s.You.CharacterID != g.Players[0].Character.ID {
		t.Errorf("expected own character %s, got %s", g.Players[0].Character.ID, s.You.CharacterID)
	}
	if s.You.Faction != g.Players[0].Faction() {
		t.Errorf("expected own faction %s, got %s", g.Players[0].Faction(), s.You.Faction)
	}
	if len(s.You.Hand) != 1 || s.You.Hand[0].ID != "iron_ward" {
		t.Errorf("expected the held card in the private view, got %+v", s.You.Hand)
	}

	// the embedded public projection still hides everyone
	for _, p := range s.Players {
		if p.CharacterID != "" {
			t.Errorf("private view leaks %s's identity", p.ID)
		}
	}

	if _, err := g.PrivateSnapshotFor("stranger"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}
