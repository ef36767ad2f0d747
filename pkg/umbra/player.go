package umbra

// StatusEffects holds the typed per-player flags that one-off abilities and
// cards manipulate. Modeled explicitly rather than as a dynamic property bag.
type StatusEffects struct {
	// PendingExtraTurns is decremented at end of turn; while positive, the
	// player's turn replays instead of rotating.
	PendingExtraTurns int `json:"pending_extra_turns,omitempty"`

	// ReplayTurn is a one-shot flag: the next end-of-turn replays the same
	// player's turn once, then the flag clears.
	ReplayTurn bool `json:"replay_turn,omitempty"`
}

// Player is a seat in the match. Records are created at setup and mutated
// throughout; death zeroes HP and clears IsAlive but never removes the
// record, which is still needed for reveal and spectator views.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsHuman     bool   `json:"is_human"`

	Character Character `json:"character"`
	HP        int       `json:"hp"`
	MaxHP     int       `json:"hp_max"`

	Hand      []Card `json:"hand"`
	Equipment []Card `json:"equipment"`

	IsAlive    bool `json:"is_alive"`
	IsRevealed bool `json:"is_revealed"`

	AbilityUsed     bool `json:"ability_used"`
	AbilityDisabled bool `json:"ability_disabled"`

	// Zone is a weak reference; the board owns the zones.
	Zone ZoneID `json:"position_zone"`

	Status StatusEffects `json:"status"`

	// KilledBy records the player who landed the killing blow, for neutral
	// goal evaluation. Empty while alive or for non-combat deaths.
	KilledBy string `json:"killed_by,omitempty"`

	// Personality names the weight profile assigned to bot seats.
	Personality string `json:"personality,omitempty"`
}

// Faction is the player's character faction.
func (p *Player) Faction() Faction { return p.Character.Faction }

// AttackBonus sums equipped damage-effect cards.
func (p *Player) AttackBonus() int {
	total := 0
	for _, c := range p.Equipment {
		if c.Effect.Kind == EffectDamage {
			total += c.Effect.Value
		}
	}
	return total
}

// DefenseBonus sums equipped defense-effect cards.
func (p *Player) DefenseBonus() int {
	total := 0
	for _, c := range p.Equipment {
		if c.Effect.Kind == EffectDefense {
			total += c.Effect.Value
		}
	}
	return total
}

// HasAttackEquipment reports whether any damage-effect card is equipped.
func (p *Player) HasAttackEquipment() bool { return p.AttackBonus() > 0 }

// HasDefenseEquipment reports whether any defense-effect card is equipped.
func (p *Player) HasDefenseEquipment() bool { return p.DefenseBonus() > 0 }

// DefenseCardsInHand counts unequipped defense cards still held.
func (p *Player) DefenseCardsInHand() int {
	n := 0
	for _, c := range p.Hand {
		if c.Type == CardEquipment && c.Effect.Kind == EffectDefense {
			n++
		}
	}
	return n
}

// removeFromHand takes the first card with the given ID out of the hand.
func (p *Player) removeFromHand(cardID string) (Card, bool) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// heal restores HP up to the character maximum and returns the amount
// actually restored.
func (p *Player) heal(amount int) int {
	if amount <= 0 || !p.IsAlive {
		return 0
	}
	healed := amount
	if p.HP+healed > p.MaxHP {
		healed = p.MaxHP - p.HP
	}
	p.HP += healed
	return healed
}

// abilityReady reports whether the character's passive ability can fire:
// alive, not disabled, and (for reveal-gated passives) revealed.
func (p *Player) abilityReady(requireReveal bool) bool {
	if !p.IsAlive || p.AbilityDisabled {
		return false
	}
	if requireReveal && !p.IsRevealed {
		return false
	}
	return true
}
