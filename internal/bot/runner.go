package bot

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/palegrove/umbra/pkg/umbra"
)

// ResolvedAction is one intent the runner applied on the bot's behalf,
// in order. Callers pace any presentation of these after the fact; the
// state is already final when the list is returned.
type ResolvedAction struct {
	Intent  umbra.Intent         `json:"intent"`
	Results []umbra.AttackResult `json:"results,omitempty"`
}

// maxReplays bounds extra-turn/replay loops within a single RunTurn call.
const maxReplays = 8

// RunTurn synchronously drives one bot turn (and any replays it earns):
// roll, move, optionally reveal and fire an ability, act, end. The only
// nondeterminism is the game state's own dice and shuffle source.
func RunTurn(g *umbra.GameState, playerID string, s Strategy) ([]ResolvedAction, error) {
	var actions []ResolvedAction

	for i := 0; i < maxReplays; i++ {
		if g.IsOver() {
			return actions, nil
		}
		if g.CurrentPlayer().ID != playerID {
			return actions, nil
		}

		turn, err := runSingleTurn(g, playerID, s)
		actions = append(actions, turn...)
		if err != nil {
			return actions, err
		}
	}
	return actions, fmt.Errorf("bot %s exceeded %d turn replays", playerID, maxReplays)
}

func runSingleTurn(g *umbra.GameState, playerID string, s Strategy) ([]ResolvedAction, error) {
	var actions []ResolvedAction
	record := func(in umbra.Intent, results []umbra.AttackResult) {
		actions = append(actions, ResolvedAction{Intent: in, Results: results})
	}

	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, umbra.ErrPlayerNotFound
	}
	w := s.PersonalityWeights()

	// Movement: roll, then resolve the zone choice.
	if _, err := g.RollMovement(playerID); err != nil {
		return actions, fmt.Errorf("roll movement: %w", err)
	}
	record(umbra.Intent{Type: umbra.IntentRollMovement}, nil)

	choices, err := g.MovementChoices(playerID)
	if err != nil {
		return actions, fmt.Errorf("movement choices: %w", err)
	}
	dest := pickDestination(g, playerID, choices, s)
	if err := g.ChooseZone(playerID, dest); err != nil {
		return actions, fmt.Errorf("choose zone: %w", err)
	}
	record(umbra.Intent{Type: umbra.IntentChooseZone, Zone: dest}, nil)

	// Attack gear is always worth wearing; equipping is free.
	for _, card := range attackCardsInHand(p) {
		if err := g.EquipCard(playerID, card.ID); err == nil {
			record(umbra.Intent{Type: umbra.IntentEquipCard, CardID: card.ID}, nil)
		}
	}

	// Character abilities sit outside the scored action classes; fire one
	// when the rule-based check says it clearly pays off.
	acted := false
	if abilityActions := maybeUseAbility(g, p, w); len(abilityActions) > 0 {
		actions = append(actions, abilityActions...)
		acted = true
	}

	if !acted {
		ctx := BuildContext(g, playerID)
		candidates := actionCandidates(g, p, w, ctx)
		if len(candidates) > 0 {
			choice := s.ChooseAction(ctx, candidates)
			res, err := executeAction(g, p, choice)
			if err != nil {
				log.Warn().Err(err).Str("bot", playerID).Str("action", string(choice.Kind)).
					Msg("Bot action rejected, ending turn")
			} else {
				actions = append(actions, res...)
			}
		}
	}

	// A lethal attack or ability can finish the match mid-turn; there is
	// no turn left to end.
	if g.IsOver() {
		return actions, nil
	}

	if err := g.EndTurn(playerID); err != nil {
		return actions, fmt.Errorf("end turn: %w", err)
	}
	record(umbra.Intent{Type: umbra.IntentEndTurn}, nil)
	return actions, nil
}

// pickDestination scores MoveSafe vs MoveRisky and maps the winner onto a
// concrete zone: risky means toward the most enemies, safe means the fewest.
// Zone order is fixed so equal enemy counts resolve deterministically.
func pickDestination(g *umbra.GameState, playerID string, choices []umbra.ZoneID, s Strategy) umbra.ZoneID {
	if len(choices) == 1 {
		return choices[0]
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i] < choices[j] })

	ctx := BuildContext(g, playerID)
	pick := s.ChooseAction(ctx, []CandidateAction{
		{Kind: ActionMoveRisky},
		{Kind: ActionMoveSafe},
	})

	best := choices[0]
	bestCount := enemiesInGroupOf(g, playerID, choices[0])
	for _, z := range choices[1:] {
		count := enemiesInGroupOf(g, playerID, z)
		if pick.Kind == ActionMoveRisky && count > bestCount {
			best, bestCount = z, count
		}
		if pick.Kind == ActionMoveSafe && count < bestCount {
			best, bestCount = z, count
		}
	}
	return best
}

// enemiesInGroupOf counts living players (other than the bot) whose zone
// shares a group with the candidate zone.
func enemiesInGroupOf(g *umbra.GameState, playerID string, zone umbra.ZoneID) int {
	n := 0
	for _, other := range g.Players {
		if other.ID == playerID || !other.IsAlive || other.Zone == umbra.NoZone {
			continue
		}
		if g.Board.SameGroup(zone, other.Zone) {
			n++
		}
	}
	return n
}

// actionCandidates builds the scored options available this action phase.
func actionCandidates(g *umbra.GameState, p *umbra.Player, w Weights, ctx DecisionContext) []CandidateAction {
	var candidates []CandidateAction

	if ctx.WeakestEnemyID != "" {
		candidates = append(candidates, CandidateAction{Kind: ActionAttack, TargetID: ctx.WeakestEnemyID})
	}
	if ctx.DefenseCardsInHand > 0 {
		candidates = append(candidates, CandidateAction{Kind: ActionDefend})
	}
	if zone := g.Board.Zones[p.Zone]; zone != nil && zone.Deck != umbra.DeckNone {
		candidates = append(candidates, CandidateAction{Kind: ActionDrawCard, Deck: chooseDeck(zone.Deck, w, ctx)})
	}
	return candidates
}

// chooseDeck resolves the deck for choose-your-deck zones: white when hurt,
// black when attack-minded, vision otherwise.
func chooseDeck(zoneDeck umbra.DeckType, w Weights, ctx DecisionContext) umbra.DeckType {
	if zoneDeck != umbra.DeckAny {
		return umbra.DeckNone // zone dictates the deck
	}
	switch {
	case ctx.HPRatio() < 0.6:
		return umbra.DeckWhite
	case w.Attack >= w.CardDraw:
		return umbra.DeckBlack
	default:
		return umbra.DeckVision
	}
}

// executeAction maps the winning action class onto concrete intents.
func executeAction(g *umbra.GameState, p *umbra.Player, choice CandidateAction) ([]ResolvedAction, error) {
	switch choice.Kind {
	case ActionAttack:
		results, err := g.Attack(p.ID, choice.TargetID)
		if err != nil {
			return nil, err
		}
		return []ResolvedAction{{
			Intent:  umbra.Intent{Type: umbra.IntentAttack, TargetID: choice.TargetID},
			Results: results,
		}}, nil

	case ActionDefend:
		card := bestDefenseCard(p)
		if card == nil {
			return nil, nil
		}
		if err := g.EquipCard(p.ID, card.ID); err != nil {
			return nil, err
		}
		return []ResolvedAction{{Intent: umbra.Intent{Type: umbra.IntentEquipCard, CardID: card.ID}}}, nil

	case ActionDrawCard:
		if _, err := g.DrawCard(p.ID, choice.Deck); err != nil {
			return nil, err
		}
		return []ResolvedAction{{Intent: umbra.Intent{Type: umbra.IntentDrawCard, Deck: choice.Deck}}}, nil
	}
	return nil, nil
}

// maybeUseAbility fires the character's active ability when it clearly pays
// off, revealing first when the seat is willing. Returns the applied intents
// or nil when no ability was used.
func maybeUseAbility(g *umbra.GameState, p *umbra.Player, w Weights) []ResolvedAction {
	ability := p.Character.Ability
	if ability.Kind == umbra.AbilityNone || ability.Passive || p.AbilityUsed || p.AbilityDisabled {
		return nil
	}

	ctx := BuildContext(g, p.ID)
	var targets []string
	worth := false

	switch ability.Kind {
	case umbra.AbilityHeal:
		worth = ctx.BotHP*2 <= ctx.BotMaxHP
	case umbra.AbilitySmite:
		if ctx.WeakestEnemyID != "" && ctx.WeakestEnemyHP <= ability.Value {
			worth = true
			targets = []string{ctx.WeakestEnemyID}
		}
	case umbra.AbilityExtraTurns, umbra.AbilityReplayTurn:
		worth = len(ctx.NearbyEnemies) > 0 && ctx.HPRatio() > 0.6
	}
	if !worth {
		return nil
	}

	var actions []ResolvedAction
	if !p.IsRevealed {
		// Revealing is a one-way door; only risk-tolerant or desperate
		// seats do it for an ability.
		if w.Risk < 0.35 && ctx.HPRatio() > 0.34 {
			return nil
		}
		if err := g.Reveal(p.ID); err != nil {
			return nil
		}
		actions = append(actions, ResolvedAction{Intent: umbra.Intent{Type: umbra.IntentReveal}})
	}

	if err := g.UseAbility(p.ID, targets); err != nil {
		log.Warn().Err(err).Str("bot", p.ID).Msg("Bot ability rejected")
		return actions
	}
	actions = append(actions, ResolvedAction{Intent: umbra.Intent{Type: umbra.IntentUseAbility, Targets: targets}})
	return actions
}

func attackCardsInHand(p *umbra.Player) []umbra.Card {
	var cards []umbra.Card
	for _, c := range p.Hand {
		if c.Type == umbra.CardEquipment && c.Effect.Kind == umbra.EffectDamage {
			cards = append(cards, c)
		}
	}
	return cards
}

func bestDefenseCard(p *umbra.Player) *umbra.Card {
	var best *umbra.Card
	for i := range p.Hand {
		c := &p.Hand[i]
		if c.Type != umbra.CardEquipment || c.Effect.Kind != umbra.EffectDefense {
			continue
		}
		if best == nil || c.Effect.Value > best.Effect.Value {
			best = c
		}
	}
	return best
}
