package umbra

// IntentType names an action request consumed by the core.
type IntentType string

const (
	IntentRollMovement IntentType = "roll_movement"
	IntentChooseZone   IntentType = "choose_zone"
	IntentDrawCard     IntentType = "draw_card"
	IntentAttack       IntentType = "attack"
	IntentUseAbility   IntentType = "use_ability"
	IntentEquipCard    IntentType = "equip_card"
	IntentReveal       IntentType = "reveal"
	IntentEndTurn      IntentType = "end_turn"
)

// Intent is the wire form of a player action. Each intent is validated
// against the current phase and turn owner; invalid intents are rejected
// with a RejectError carrying a reason code, never silently dropped.
type Intent struct {
	Type     IntentType `json:"type"`
	Zone     ZoneID     `json:"zone,omitempty"`
	Deck     DeckType   `json:"deck,omitempty"`
	TargetID string     `json:"target_id,omitempty"`
	Targets  []string   `json:"targets,omitempty"`
	CardID   string     `json:"card_id,omitempty"`
}

// Apply dispatches an intent to the matching core operation on behalf of the
// given player.
func (g *GameState) Apply(playerID string, in Intent) error {
	switch in.Type {
	case IntentRollMovement:
		_, err := g.RollMovement(playerID)
		return err
	case IntentChooseZone:
		return g.ChooseZone(playerID, in.Zone)
	case IntentDrawCard:
		_, err := g.DrawCard(playerID, in.Deck)
		return err
	case IntentAttack:
		_, err := g.Attack(playerID, in.TargetID)
		return err
	case IntentUseAbility:
		targets := in.Targets
		if len(targets) == 0 && in.TargetID != "" {
			targets = []string{in.TargetID}
		}
		return g.UseAbility(playerID, targets)
	case IntentEquipCard:
		return g.EquipCard(playerID, in.CardID)
	case IntentReveal:
		return g.Reveal(playerID)
	case IntentEndTurn:
		return g.EndTurn(playerID)
	default:
		return reject(RejectBadTarget, "unknown intent type %q", in.Type)
	}
}
