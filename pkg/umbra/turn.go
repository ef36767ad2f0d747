package umbra

// validateTurnOwner runs the checks shared by every intent: the match is
// live, the player exists, and it is that player's turn.
func (g *GameState) validateTurnOwner(playerID string, allowDead bool) (*Player, error) {
	if g.Turn.Halted {
		return nil, reject(RejectGameOver, "match halted")
	}
	if g.IsOver() {
		return nil, reject(RejectGameOver, "match is over")
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, reject(RejectBadTarget, "unknown player %q", playerID)
	}
	if g.CurrentPlayer().ID != playerID {
		return nil, reject(RejectNotYourTurn, "it is %s's turn", g.CurrentPlayer().ID)
	}
	if !p.IsAlive && !allowDead {
		return nil, reject(RejectDead, "%s is dead", playerID)
	}
	return p, nil
}

// RollMovement rolls the movement dice (d6 + d4) for the current player and
// stores the total pending a zone choice. A total of 7, or a total mapping
// to the player's current zone, grants a free choice of any other zone.
func (g *GameState) RollMovement(playerID string) (int, error) {
	p, err := g.validateTurnOwner(playerID, false)
	if err != nil {
		return 0, err
	}
	if g.Turn.Phase != PhaseMovement {
		return 0, reject(RejectWrongPhase, "movement roll only in movement phase")
	}
	if g.Turn.PendingRoll != 0 {
		return 0, reject(RejectAlreadyRolled, "movement already rolled: %d", g.Turn.PendingRoll)
	}

	total := g.rollD6() + g.rollD4()
	g.Turn.PendingRoll = total
	g.emit(Event{Type: EventMovementRolled, PlayerID: p.ID, Amount: total})
	return total, nil
}

// movementChoices returns the zones the current player may move to for the
// pending roll.
func (g *GameState) movementChoices(p *Player) []ZoneID {
	total := g.Turn.PendingRoll
	if total == 0 {
		return nil
	}
	dest := g.Board.ZoneForRoll(total)
	if dest != NoZone && dest != p.Zone {
		return []ZoneID{dest}
	}
	// Free choice: 7, or a roll that lands on the current zone.
	var out []ZoneID
	for id := range g.Board.Zones {
		if id != p.Zone {
			out = append(out, id)
		}
	}
	return out
}

// MovementChoices lists the zones the current player may choose for the
// pending movement roll. Empty before rolling.
func (g *GameState) MovementChoices(playerID string) ([]ZoneID, error) {
	p, err := g.validateTurnOwner(playerID, false)
	if err != nil {
		return nil, err
	}
	return g.movementChoices(p), nil
}

// ChooseZone completes movement resolution: the chosen zone must be legal
// for the pending roll and differ from the current zone. On success the
// phase advances to Action.
func (g *GameState) ChooseZone(playerID string, zone ZoneID) error {
	p, err := g.validateTurnOwner(playerID, false)
	if err != nil {
		return err
	}
	if g.Turn.Phase != PhaseMovement {
		return reject(RejectWrongPhase, "zone choice only in movement phase")
	}
	if g.Turn.PendingRoll == 0 {
		return reject(RejectNoRoll, "roll movement first")
	}
	if _, ok := g.Board.Zones[zone]; !ok {
		return reject(RejectBadZone, "unknown zone %q", zone)
	}

	legal := false
	for _, z := range g.movementChoices(p) {
		if z == zone {
			legal = true
			break
		}
	}
	if !legal {
		return reject(RejectBadZone, "zone %q not reachable with roll %d", zone, g.Turn.PendingRoll)
	}

	p.Zone = zone
	g.Turn.PendingRoll = 0
	g.emit(Event{Type: EventPlayerMoved, PlayerID: p.ID, Zone: zone})
	g.setPhase(PhaseAction, p.ID)
	return nil
}

// DrawCard draws from the deck of the current zone. At a choose-your-deck
// zone the deck argument selects the pool; elsewhere it must be empty or
// match the zone's deck. An exhausted deck is reported, not fatal: the
// action still completes and the turn proceeds without a card.
func (g *GameState) DrawCard(playerID string, deck DeckType) (*Card, error) {
	p, err := g.validateTurnOwner(playerID, false)
	if err != nil {
		return nil, err
	}
	if g.Turn.Phase != PhaseAction {
		return nil, reject(RejectWrongPhase, "drawing only in action phase")
	}

	zone := g.Board.Zones[p.Zone]
	if zone == nil {
		return nil, reject(RejectBadZone, "player is not on the board")
	}

	var dt DeckType
	switch zone.Deck {
	case DeckNone:
		return nil, reject(RejectBadZone, "no deck at %s", zone.Name)
	case DeckAny:
		if deck != DeckBlack && deck != DeckWhite && deck != DeckVision {
			return nil, reject(RejectBadCard, "choose a deck to draw from at %s", zone.Name)
		}
		dt = deck
	default:
		if deck != DeckNone && deck != zone.Deck {
			return nil, reject(RejectBadCard, "only the %s deck is available at %s", zone.Deck, zone.Name)
		}
		dt = zone.Deck
	}

	card, err := g.Decks[dt].DrawCard(g.rng)
	if err != nil {
		g.emit(Event{Type: EventDeckExhausted, PlayerID: p.ID, Deck: dt})
		g.setPhase(PhaseEnd, p.ID)
		return nil, nil
	}

	g.emit(Event{Type: EventCardDrawn, PlayerID: p.ID, Deck: dt})
	g.emit(Event{Type: EventCardDrawn, PlayerID: p.ID, Deck: dt,
		CardID: card.ID, CardName: card.Name, PrivateTo: p.ID})
	g.resolveDrawnCard(p, card)
	g.setPhase(PhaseEnd, p.ID)
	return &card, nil
}

// resolveDrawnCard routes a drawn card: equipment goes to the hand, instants
// resolve immediately against the drawer, visions produce a private hint.
func (g *GameState) resolveDrawnCard(p *Player, card Card) {
	switch card.Type {
	case CardEquipment:
		p.Hand = append(p.Hand, card)

	case CardInstant:
		switch card.Effect.Kind {
		case EffectDamage:
			g.applyDamage(p, card.Effect.Value, p.ID)
			g.CheckWinConditions()
		case EffectHeal:
			if healed := p.heal(card.Effect.Value); healed > 0 {
				g.emit(Event{Type: EventHealed, PlayerID: p.ID, Amount: healed})
			}
		case EffectExtraTurn:
			p.Status.PendingExtraTurns += card.Effect.Value
		case EffectDisable:
			p.AbilityDisabled = true
			g.emit(Event{Type: EventAbilityDisabled, PlayerID: p.ID})
		}
		g.discardCard(p.ID, card)

	case CardVision:
		g.resolveVision(p, card)
		g.discardCard(p.ID, card)
	}
}

// resolveVision picks a uniformly random other living player and tells the
// drawer, privately, whether that player's faction matches the card.
func (g *GameState) resolveVision(p *Player, card Card) {
	var others []*Player
	for _, other := range g.Players {
		if other.ID != p.ID && other.IsAlive {
			others = append(others, other)
		}
	}
	if len(others) == 0 {
		return
	}
	subject := others[g.rng.Intn(len(others))]
	g.emit(Event{
		Type:      EventVision,
		PlayerID:  p.ID,
		TargetID:  subject.ID,
		CardID:    card.ID,
		CardName:  card.Name,
		Match:     subject.Faction() == card.VisionFaction,
		PrivateTo: p.ID,
	})
}

func (g *GameState) discardCard(playerID string, card Card) {
	g.Decks[card.Deck].DiscardCard(card)
	g.emit(Event{Type: EventCardDiscarded, PlayerID: playerID, CardID: card.ID, Deck: card.Deck})
}

// EquipCard moves an equipment card from hand to equipment. Equipping is a
// free action during the owner's Action or End phase; it does not consume
// the phase action.
func (g *GameState) EquipCard(playerID, cardID string) error {
	p, err := g.validateTurnOwner(playerID, false)
	if err != nil {
		return err
	}
	if g.Turn.Phase != PhaseAction && g.Turn.Phase != PhaseEnd {
		return reject(RejectWrongPhase, "equipping only during your action")
	}
	card, ok := p.removeFromHand(cardID)
	if !ok {
		return reject(RejectBadCard, "card %q not in hand", cardID)
	}
	if card.Type != CardEquipment {
		p.Hand = append(p.Hand, card)
		return reject(RejectBadCard, "%s is not equipment", card.Name)
	}
	p.Equipment = append(p.Equipment, card)
	g.emit(Event{Type: EventEquipped, PlayerID: p.ID, CardID: card.ID, CardName: card.Name})
	g.CheckWinConditions()
	return nil
}

// Attack resolves an attack by the current player against a target in the
// same zone group, including any retaliation chain, then re-evaluates win
// conditions. It consumes the phase action.
func (g *GameState) Attack(playerID, targetID string) ([]AttackResult, error) {
	p, err := g.validateTurnOwner(playerID, false)
	if err != nil {
		return nil, err
	}
	if g.Turn.Phase != PhaseAction {
		return nil, reject(RejectWrongPhase, "attacking only in action phase")
	}

	target := g.PlayerByID(targetID)
	if target == nil {
		return nil, reject(RejectBadTarget, "unknown target %q", targetID)
	}
	if target.ID == p.ID {
		return nil, reject(RejectBadTarget, "cannot attack yourself")
	}
	if !target.IsAlive {
		return nil, reject(RejectBadTarget, "%s is already dead", targetID)
	}
	if p.Zone == NoZone || target.Zone == NoZone || !g.Board.SameGroup(p.Zone, target.Zone) {
		return nil, reject(RejectBadTarget, "%s is not in your zone group", targetID)
	}

	results := g.resolveCombat(p, target)
	g.CheckWinConditions()
	g.setPhase(PhaseEnd, p.ID)
	return results, nil
}

// UseAbility fires the current player's active character ability. Active
// abilities are once per match, require the identity to be revealed, and
// consume the phase action. Passive abilities cannot be invoked directly.
func (g *GameState) UseAbility(playerID string, targetIDs []string) error {
	p, err := g.validateTurnOwner(playerID, false)
	if err != nil {
		return err
	}
	if g.Turn.Phase != PhaseAction {
		return reject(RejectWrongPhase, "abilities only in action phase")
	}

	ability := p.Character.Ability
	if ability.Kind == AbilityNone || ability.Passive {
		return reject(RejectBadTarget, "%s has no usable ability", p.Character.Name)
	}
	if !p.IsRevealed {
		return reject(RejectNotRevealed, "reveal your identity first")
	}
	if p.AbilityDisabled {
		return reject(RejectDisabled, "ability is disabled")
	}
	if p.AbilityUsed {
		return reject(RejectAbilityUsed, "ability already used")
	}

	switch ability.Kind {
	case AbilityExtraTurns:
		p.Status.PendingExtraTurns += ability.Value

	case AbilityReplayTurn:
		p.Status.ReplayTurn = true

	case AbilityHeal:
		target := p
		if len(targetIDs) > 0 {
			target = g.PlayerByID(targetIDs[0])
			if target == nil || !target.IsAlive {
				return reject(RejectBadTarget, "invalid heal target")
			}
		}
		if healed := target.heal(ability.Value); healed > 0 {
			g.emit(Event{Type: EventHealed, PlayerID: target.ID, Amount: healed})
		}

	case AbilitySmite:
		if len(targetIDs) == 0 {
			return reject(RejectBadTarget, "choose a target")
		}
		target := g.PlayerByID(targetIDs[0])
		if target == nil || !target.IsAlive || target.ID == p.ID {
			return reject(RejectBadTarget, "invalid target")
		}
		if target.Zone == NoZone || !g.Board.SameGroup(p.Zone, target.Zone) {
			return reject(RejectBadTarget, "%s is not in your zone group", target.ID)
		}
		g.applyDamage(target, ability.Value, p.ID)

	default:
		return reject(RejectBadTarget, "unhandled ability %s", ability.Kind)
	}

	p.AbilityUsed = true
	g.emit(Event{Type: EventAbilityUsed, PlayerID: p.ID, Amount: ability.Value})
	g.CheckWinConditions()
	g.setPhase(PhaseEnd, p.ID)
	return nil
}

// Reveal makes the current player's hidden identity public. A free action
// on the owner's turn.
func (g *GameState) Reveal(playerID string) error {
	p, err := g.validateTurnOwner(playerID, false)
	if err != nil {
		return err
	}
	if p.IsRevealed {
		return reject(RejectBadTarget, "already revealed")
	}
	p.IsRevealed = true
	g.emit(Event{Type: EventRevealed, PlayerID: p.ID, Faction: p.Faction()})
	return nil
}

// EndTurn finishes the current player's turn. Before rotating it checks the
// pending-extra-turn counter and the one-shot replay flag: either causes the
// same player's turn to replay (phase reset to Movement, turn-started
// re-emitted). Rotation skips dead players; a full lap with nobody alive is
// a fatal invariant violation since the win evaluator should have ended the
// match first.
func (g *GameState) EndTurn(playerID string) error {
	p, err := g.validateTurnOwner(playerID, true)
	if err != nil {
		return err
	}
	if g.Turn.Phase != PhaseAction && g.Turn.Phase != PhaseEnd {
		return reject(RejectWrongPhase, "finish movement first")
	}

	g.emit(Event{Type: EventTurnEnded, PlayerID: p.ID, Turn: g.Turn.TurnCount})

	if p.IsAlive {
		if p.Status.PendingExtraTurns > 0 {
			p.Status.PendingExtraTurns--
			g.restartTurn(p)
			return nil
		}
		if p.Status.ReplayTurn {
			p.Status.ReplayTurn = false
			g.restartTurn(p)
			return nil
		}
	}

	return g.rotate()
}

// restartTurn replays the same player's turn from the Movement phase.
func (g *GameState) restartTurn(p *Player) {
	g.Turn.Phase = PhaseMovement
	g.Turn.PendingRoll = 0
	g.emit(Event{Type: EventTurnStarted, PlayerID: p.ID, Turn: g.Turn.TurnCount})
	g.emit(Event{Type: EventPhaseChanged, Phase: PhaseMovement, PlayerID: p.ID})
}

// rotate advances to the next living player. The turn counter increments
// whenever rotation wraps past seat 0.
func (g *GameState) rotate() error {
	n := len(g.Players)
	cur := g.Turn.CurrentPlayerIndex
	for step := 1; step <= n; step++ {
		idx := (cur + step) % n
		next := g.Players[idx]
		if !next.IsAlive {
			continue
		}
		if idx <= cur {
			g.Turn.TurnCount++
		}
		g.Turn.CurrentPlayerIndex = idx
		g.Turn.Phase = PhaseMovement
		g.Turn.PendingRoll = 0
		g.emit(Event{Type: EventTurnStarted, PlayerID: next.ID, Turn: g.Turn.TurnCount})
		g.emit(Event{Type: EventPhaseChanged, Phase: PhaseMovement, PlayerID: next.ID})
		return nil
	}

	g.Turn.Halted = true
	return &InvariantError{Message: "turn rotation found no living player"}
}

// setPhase transitions the phase and emits the change.
func (g *GameState) setPhase(phase TurnPhase, playerID string) {
	g.Turn.Phase = phase
	g.emit(Event{Type: EventPhaseChanged, Phase: phase, PlayerID: playerID})
}
