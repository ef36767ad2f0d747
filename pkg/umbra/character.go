package umbra

// Faction is a player's hidden allegiance.
type Faction string

const (
	FactionHunter  Faction = "hunter"
	FactionShadow  Faction = "shadow"
	FactionNeutral Faction = "neutral"
)

// AbilityKind is the closed set of character abilities. Dispatch over this
// enum is exhaustive, so adding an ability is a compile-time-checked change
// rather than a string match on character IDs.
type AbilityKind string

const (
	// AbilityNone marks a character without a special ability.
	AbilityNone AbilityKind = "none"

	// AbilityCounterattack fires a reciprocal attack resolution whenever the
	// character is hit, provided it is alive, revealed, and not disabled.
	// Passive; at most once per original attack.
	AbilityCounterattack AbilityKind = "counterattack"

	// AbilityReattack lets the character pay ReattackCost HP after landing a
	// hit to immediately resolve a second attack on the same target. Passive;
	// skipped when the cost would be lethal; at most once per original attack.
	AbilityReattack AbilityKind = "reattack"

	// AbilityExtraTurns grants the character Value pending extra turns.
	// Active, once per match, requires reveal.
	AbilityExtraTurns AbilityKind = "extra_turns"

	// AbilityReplayTurn sets the one-shot replay flag so the current turn
	// restarts instead of rotating. Active, once per match, requires reveal.
	AbilityReplayTurn AbilityKind = "replay_turn"

	// AbilityHeal restores Value HP to the character or a chosen target.
	// Active, once per match, requires reveal.
	AbilityHeal AbilityKind = "heal"

	// AbilitySmite deals Value damage to a chosen target in the character's
	// combat group, bypassing dice. Active, once per match, requires reveal.
	AbilitySmite AbilityKind = "smite"
)

// ReattackCost is the HP price of an AbilityReattack follow-up attack.
const ReattackCost = 2

// NeutralGoal is the closed set of personal win conditions for neutral
// characters. Principal factions use faction elimination instead.
type NeutralGoal string

const (
	GoalNone NeutralGoal = ""

	// GoalLastStanding: win alone as the only living player, or alongside
	// the victors when still alive at game end.
	GoalLastStanding NeutralGoal = "last_standing"

	// GoalFirstHunterKill: land the killing blow on a Hunter before the
	// match ends. Satisfiable without ending the game.
	GoalFirstHunterKill NeutralGoal = "first_hunter_kill"
)

// Ability couples an ability kind with its numeric parameter.
type Ability struct {
	Kind    AbilityKind `json:"kind"`
	Value   int         `json:"value,omitempty"`
	Passive bool        `json:"passive,omitempty"`
}

// Character is a static character definition. Characters are data; all
// behavior hangs off the Ability and Goal enums.
type Character struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Faction Faction     `json:"faction"`
	MaxHP   int         `json:"max_hp"`
	Ability Ability     `json:"ability"`
	Goal    NeutralGoal `json:"goal,omitempty"`
}

// Roster returns the standard character set: three Hunters, three Shadows,
// two Neutrals. Match setup deals one character per player, keeping the
// Hunter/Shadow split as even as the player count allows.
func Roster() []Character {
	return []Character{
		{ID: "warden_kass", Name: "Warden Kass", Faction: FactionHunter, MaxHP: 13,
			Ability: Ability{Kind: AbilityReplayTurn}},
		{ID: "cleric_anna", Name: "Cleric Anna", Faction: FactionHunter, MaxHP: 11,
			Ability: Ability{Kind: AbilityHeal, Value: 5}},
		{ID: "franz", Name: "Franz the Tracker", Faction: FactionHunter, MaxHP: 12,
			Ability: Ability{Kind: AbilityExtraTurns, Value: 2}},
		{ID: "lurker", Name: "The Lurker", Faction: FactionShadow, MaxHP: 13,
			Ability: Ability{Kind: AbilityCounterattack, Passive: true}},
		{ID: "night_widow", Name: "Night Widow", Faction: FactionShadow, MaxHP: 11,
			Ability: Ability{Kind: AbilitySmite, Value: 3}},
		{ID: "pale_king", Name: "The Pale King", Faction: FactionShadow, MaxHP: 14,
			Ability: Ability{Kind: AbilityNone}},
		{ID: "old_marlow", Name: "Old Marlow", Faction: FactionNeutral, MaxHP: 10,
			Ability: Ability{Kind: AbilityReattack, Passive: true}, Goal: GoalLastStanding},
		{ID: "sister_iris", Name: "Sister Iris", Faction: FactionNeutral, MaxHP: 9,
			Ability: Ability{Kind: AbilityExtraTurns, Value: 1}, Goal: GoalFirstHunterKill},
	}
}

// CharacterByID looks a character up in the standard roster.
func CharacterByID(id string) (Character, bool) {
	for _, c := range Roster() {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}
