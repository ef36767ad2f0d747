package umbra

// DeckType names one of the card pools.
type DeckType string

const (
	DeckBlack  DeckType = "black"
	DeckWhite  DeckType = "white"
	DeckVision DeckType = "vision"

	// DeckNone marks a zone with no deck; DeckAny marks a zone where the
	// acting player chooses which deck to draw from.
	DeckNone DeckType = ""
	DeckAny  DeckType = "any"
)

// CardType classifies how a card is played.
type CardType string

const (
	CardEquipment CardType = "equipment" // held in hand until equipped
	CardInstant   CardType = "instant"   // resolves immediately on draw
	CardVision    CardType = "vision"    // resolves as a private vision on draw
)

// EffectKind is the closed set of card effects.
type EffectKind string

const (
	EffectDamage    EffectKind = "damage"     // equipment: attack bonus; instant: damage to drawer
	EffectDefense   EffectKind = "defense"    // equipment: defense bonus
	EffectHeal      EffectKind = "heal"       // instant: heal drawer
	EffectExtraTurn EffectKind = "extra_turn" // instant: grant drawer pending extra turns
	EffectDisable   EffectKind = "disable"    // instant: disable drawer's character ability
	EffectVision    EffectKind = "vision"     // vision: private faction hint for the drawer
)

// Effect describes what a card does when resolved or equipped.
type Effect struct {
	Kind        EffectKind `json:"kind"`
	Value       int        `json:"value"`
	Description string     `json:"description"`
}

// Card is an immutable value object. Ownership of a card moves between deck
// piles and player hand/equipment; cards are never duplicated at runtime.
type Card struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Deck   DeckType `json:"deck"`
	Type   CardType `json:"type"`
	Effect Effect   `json:"effect"`

	// CopiesInDeck is a deck-construction multiplier, not a live invariant.
	CopiesInDeck int `json:"copies_in_deck"`

	// VisionFaction is the faction a vision card asks about (vision cards only).
	VisionFaction Faction `json:"vision_faction,omitempty"`
}

// blackCards is the construction list for the black deck.
func blackCards() []Card {
	return []Card{
		{ID: "cursed_blade", Name: "Cursed Blade", Deck: DeckBlack, Type: CardEquipment,
			Effect: Effect{Kind: EffectDamage, Value: 1, Description: "Your attacks deal 1 extra damage."}, CopiesInDeck: 2},
		{ID: "ritual_dagger", Name: "Ritual Dagger", Deck: DeckBlack, Type: CardEquipment,
			Effect: Effect{Kind: EffectDamage, Value: 2, Description: "Your attacks deal 2 extra damage."}, CopiesInDeck: 1},
		{ID: "hexflame", Name: "Hexflame", Deck: DeckBlack, Type: CardInstant,
			Effect: Effect{Kind: EffectDamage, Value: 2, Description: "Take 2 damage."}, CopiesInDeck: 3},
		{ID: "dread_omen", Name: "Dread Omen", Deck: DeckBlack, Type: CardInstant,
			Effect: Effect{Kind: EffectDisable, Value: 0, Description: "Your character ability is disabled."}, CopiesInDeck: 1},
	}
}

// whiteCards is the construction list for the white deck.
func whiteCards() []Card {
	return []Card{
		{ID: "iron_ward", Name: "Iron Ward", Deck: DeckWhite, Type: CardEquipment,
			Effect: Effect{Kind: EffectDefense, Value: 1, Description: "Attacks against you deal 1 less damage."}, CopiesInDeck: 2},
		{ID: "silver_aegis", Name: "Silver Aegis", Deck: DeckWhite, Type: CardEquipment,
			Effect: Effect{Kind: EffectDefense, Value: 2, Description: "Attacks against you deal 2 less damage."}, CopiesInDeck: 1},
		{ID: "blessing", Name: "Blessing", Deck: DeckWhite, Type: CardInstant,
			Effect: Effect{Kind: EffectHeal, Value: 2, Description: "Heal 2 HP."}, CopiesInDeck: 3},
		{ID: "second_wind", Name: "Second Wind", Deck: DeckWhite, Type: CardInstant,
			Effect: Effect{Kind: EffectExtraTurn, Value: 1, Description: "Take an extra turn after this one."}, CopiesInDeck: 1},
	}
}

// visionCards is the construction list for the vision deck.
func visionCards() []Card {
	return []Card{
		{ID: "vision_of_dusk", Name: "Vision of Dusk", Deck: DeckVision, Type: CardVision,
			Effect: Effect{Kind: EffectVision, Description: "I sense a creature of the night."},
			VisionFaction: FactionShadow, CopiesInDeck: 3},
		{ID: "vision_of_dawn", Name: "Vision of Dawn", Deck: DeckVision, Type: CardVision,
			Effect: Effect{Kind: EffectVision, Description: "I sense a servant of the light."},
			VisionFaction: FactionHunter, CopiesInDeck: 3},
		{ID: "vision_of_mist", Name: "Vision of Mist", Deck: DeckVision, Type: CardVision,
			Effect: Effect{Kind: EffectVision, Description: "I sense one who walks their own path."},
			VisionFaction: FactionNeutral, CopiesInDeck: 2},
	}
}
