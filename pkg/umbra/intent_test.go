package umbra

import "testing"

func TestApplyDispatchesToCore(t *testing.T) {
	g := fourPlayerGame(t, 51)
	g.DrainEvents()

	if err := g.Apply("p0", Intent{Type: IntentRollMovement}); err != nil {
		t.Fatalf("roll via intent: %v", err)
	}
	if g.Turn.PendingRoll == 0 {
		t.Fatal("expected a pending roll after the roll intent")
	}
	choices, err := g.MovementChoices("p0")
	if err != nil {
		t.Fatalf("movement choices: %v", err)
	}
	if err := g.Apply("p0", Intent{Type: IntentChooseZone, Zone: choices[0]}); err != nil {
		t.Fatalf("choose via intent: %v", err)
	}
	if g.Turn.Phase != PhaseAction {
		t.Fatalf("expected action phase, got %s", g.Turn.Phase)
	}
	if err := g.Apply("p0", Intent{Type: IntentEndTurn}); err != nil {
		t.Fatalf("end turn via intent: %v", err)
	}
	if g.CurrentPlayer().ID != "p1" {
		t.Errorf("expected p1 on turn, got %s", g.CurrentPlayer().ID)
	}
}

func TestApplyUseAbilitySingleTargetShorthand(t *testing.T) {
	g := fourPlayerGame(t, 52)
	c, ok := CharacterByID("cleric_anna")
	if !ok {
		t.Fatal("missing cleric_anna")
	}
	p := g.Players[0]
	p.Character, p.MaxHP = c, c.MaxHP
	p.HP = 5
	p.IsRevealed = true

	// walk p0 into the action phase
	if _, err := g.RollMovement("p0"); err != nil {
		t.Fatalf("roll: %v", err)
	}
	choices, err := g.MovementChoices("p0")
	if err != nil {
		t.Fatalf("choices: %v", err)
	}
	if err := g.ChooseZone("p0", choices[0]); err != nil {
		t.Fatalf("choose: %v", err)
	}

	if err := g.Apply("p0", Intent{Type: IntentUseAbility, TargetID: "p0"}); err != nil {
		t.Fatalf("use ability via intent: %v", err)
	}
	if !p.AbilityUsed {
		t.Error("expected the ability to be marked used")
	}
	if p.HP != 10 {
		t.Errorf("expected 10 HP after healing, got %d", p.HP)
	}
	if g.Turn.Phase != PhaseEnd {
		t.Errorf("expected end phase after the ability, got %s", g.Turn.Phase)
	}
}

func TestApplyRejectsUnknownIntentType(t *testing.T) {
	g := fourPlayerGame(t, 53)
	err := g.Apply("p0", Intent{Type: "dance"})
	if rejectCode(err) != RejectBadTarget {
		t.Fatalf("expected bad_target for an unknown intent, got %v", err)
	}
}
