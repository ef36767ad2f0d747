package umbra

// AttackKind distinguishes the original resolution from retaliation links.
type AttackKind string

const (
	AttackOriginal AttackKind = "attack"
	AttackCounter  AttackKind = "counter"
	AttackReattack AttackKind = "reattack"
)

// AttackResult records one dice resolution. A full attack returns a short
// chain of these: the original plus at most one counterattack and one
// re-attack.
type AttackResult struct {
	Kind       AttackKind `json:"kind"`
	AttackerID string     `json:"attacker_id"`
	DefenderID string     `json:"defender_id"`
	AttackRoll int        `json:"attack_roll"`
	ResistRoll int        `json:"resist_roll"`
	Missed     bool       `json:"missed"`
	Damage     int        `json:"damage"`
	DefenderHP int        `json:"defender_hp"`
	Killed     bool       `json:"killed"`
}

// resolveCombat runs the full attack sequence between two players who have
// already been validated as same-group targets. Retaliation rules chain off
// every landed hit, but each chain fires at most once per original attack,
// so the sequence always terminates:
//
//   - counterattack: a revealed, enabled counterattack defender reciprocates
//     once against the original attacker;
//   - re-attack: a re-attack attacker pays ReattackCost HP (skipped when
//     lethal) to resolve a second attack against the same target.
func (g *GameState) resolveCombat(attacker, defender *Player) []AttackResult {
	results := []AttackResult{g.resolveOnce(attacker, defender, AttackOriginal)}

	counterFired := false
	reattackFired := false

	landed := func(r AttackResult) bool { return !r.Missed }

	if landed(results[0]) {
		if defender.Character.Ability.Kind == AbilityCounterattack &&
			defender.abilityReady(true) {
			counterFired = true
			results = append(results, g.resolveOnce(defender, attacker, AttackCounter))
		}

		if !reattackFired && attacker.IsAlive && defender.IsAlive &&
			attacker.Character.Ability.Kind == AbilityReattack &&
			attacker.abilityReady(false) &&
			attacker.HP > ReattackCost {
			reattackFired = true
			attacker.HP -= ReattackCost
			g.emit(Event{Type: EventDamageDealt, PlayerID: attacker.ID, TargetID: attacker.ID, Amount: ReattackCost})
			second := g.resolveOnce(attacker, defender, AttackReattack)
			results = append(results, second)

			// The follow-up can still draw the one allowed counterattack.
			if landed(second) && !counterFired &&
				defender.Character.Ability.Kind == AbilityCounterattack &&
				defender.abilityReady(true) && attacker.IsAlive {
				results = append(results, g.resolveOnce(defender, attacker, AttackCounter))
			}
		}
	}

	return results
}

// resolveOnce applies the dice formula a single time. Attack d6 vs
// resistance d4; equal values miss outright. Otherwise raw damage is
// max(0, atk-res), plus the attacker's equipped damage bonus, minus the
// defender's equipped defense bonus, floored at zero.
func (g *GameState) resolveOnce(attacker, defender *Player, kind AttackKind) AttackResult {
	atk := g.rollD6()
	res := g.rollD4()

	result := AttackResult{
		Kind:       kind,
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		AttackRoll: atk,
		ResistRoll: res,
	}

	if atk == res {
		result.Missed = true
		result.DefenderHP = defender.HP
		g.emit(Event{Type: EventAttackMissed, PlayerID: attacker.ID, TargetID: defender.ID, Amount: atk})
		return result
	}

	damage := atk - res
	if damage < 0 {
		damage = 0
	}
	damage += attacker.AttackBonus()
	damage -= defender.DefenseBonus()
	if damage < 0 {
		damage = 0
	}

	result.Damage = damage
	g.applyDamage(defender, damage, attacker.ID)
	result.DefenderHP = defender.HP
	result.Killed = !defender.IsAlive
	return result
}

// applyDamage lowers HP, emits the damage event, and handles death. Death
// keeps the player record; it only zeroes HP and flips IsAlive.
func (g *GameState) applyDamage(target *Player, amount int, sourceID string) {
	if !target.IsAlive {
		return
	}
	if amount < 0 {
		amount = 0
	}
	target.HP -= amount
	g.emit(Event{Type: EventDamageDealt, PlayerID: sourceID, TargetID: target.ID, Amount: amount})

	if target.HP <= 0 {
		target.HP = 0
		target.IsAlive = false
		target.KilledBy = sourceID
		// Death always makes the identity public.
		if !target.IsRevealed {
			target.IsRevealed = true
			g.emit(Event{Type: EventRevealed, PlayerID: target.ID, Faction: target.Faction()})
		}
		g.emit(Event{Type: EventPlayerDied, PlayerID: target.ID, TargetID: sourceID, Faction: target.Faction()})
	}
}
