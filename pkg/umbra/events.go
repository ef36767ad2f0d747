package umbra

// EventType names a core-emitted event. Presentation layers (rendering,
// audio, logs, network push) consume these; the core never depends on them.
type EventType string

const (
	EventTurnStarted     EventType = "turn_started"
	EventTurnEnded       EventType = "turn_ended"
	EventPhaseChanged    EventType = "phase_changed"
	EventMovementRolled  EventType = "movement_rolled"
	EventPlayerMoved     EventType = "player_moved"
	EventCardDrawn       EventType = "card_drawn"
	EventCardDiscarded   EventType = "card_discarded"
	EventEquipped        EventType = "equipped"
	EventVision          EventType = "vision"
	EventDamageDealt     EventType = "damage_dealt"
	EventAttackMissed    EventType = "attack_missed"
	EventHealed          EventType = "healed"
	EventPlayerDied      EventType = "player_died"
	EventRevealed        EventType = "revealed"
	EventAbilityUsed     EventType = "ability_used"
	EventAbilityDisabled EventType = "ability_disabled"
	EventDeckExhausted   EventType = "deck_exhausted"
	EventWinCondition    EventType = "win_condition_met"
	EventGameOver        EventType = "game_over"
)

// Event is one entry in the core's outbox. The core appends events
// synchronously after the corresponding state mutation is final; an external
// consumer drains them and paces any presentation itself.
type Event struct {
	Type     EventType `json:"type"`
	PlayerID string    `json:"player_id,omitempty"`
	TargetID string    `json:"target_id,omitempty"`
	Zone     ZoneID    `json:"zone,omitempty"`
	Phase    TurnPhase `json:"phase,omitempty"`
	CardID   string    `json:"card_id,omitempty"`
	CardName string    `json:"card_name,omitempty"`
	Deck     DeckType  `json:"deck,omitempty"`
	Amount   int       `json:"amount,omitempty"`
	Faction  Faction   `json:"faction,omitempty"`
	Turn     int       `json:"turn,omitempty"`
	Match    bool      `json:"match,omitempty"` // vision events: target faction matched

	// PrivateTo restricts delivery to one player (vision results, hand
	// contents). Empty means public.
	PrivateTo string `json:"private_to,omitempty"`
}

// emit appends an event to the outbox.
func (g *GameState) emit(e Event) {
	g.Outbox = append(g.Outbox, e)
}

// DrainEvents returns and clears the pending event list.
func (g *GameState) DrainEvents() []Event {
	events := g.Outbox
	g.Outbox = nil
	return events
}
