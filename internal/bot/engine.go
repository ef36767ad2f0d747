package bot

import "github.com/palegrove/umbra/pkg/umbra"

// ActionKind is an abstract action class the engine scores. The runner maps
// the winning class onto concrete intents.
type ActionKind string

const (
	ActionAttack    ActionKind = "attack"
	ActionDefend    ActionKind = "defend"
	ActionMoveRisky ActionKind = "move_risky"
	ActionMoveSafe  ActionKind = "move_safe"
	ActionDrawCard  ActionKind = "draw_card"
)

// actionPriority breaks score ties deterministically:
// Attack > Defend > MoveRisky > MoveSafe > DrawCard.
var actionPriority = map[ActionKind]int{
	ActionAttack:    5,
	ActionDefend:    4,
	ActionMoveRisky: 3,
	ActionMoveSafe:  2,
	ActionDrawCard:  1,
}

// CandidateAction is one scored option.
type CandidateAction struct {
	Kind     ActionKind
	TargetID string       // attack target
	Zone     umbra.ZoneID // movement destination
	Deck     umbra.DeckType
}

// EvaluateAction scores a candidate for a personality and context. It is a
// pure function: the same inputs always produce the same score, and no
// randomness enters scoring — dice are rolled only after a decision.
func EvaluateAction(w Weights, action CandidateAction, ctx DecisionContext) float64 {
	hpRatio := ctx.HPRatio()

	switch action.Kind {
	case ActionAttack:
		if len(ctx.NearbyEnemies) == 0 {
			return 0
		}
		score := w.Attack * 2.0
		// Finishing blows: the weaker the weakest enemy, the better.
		wounded := 1.0 - clamp01(float64(ctx.WeakestEnemyHP)/10.0)
		score += w.Attack * wounded
		if ctx.HasAttackEquipment {
			score += 0.5 * w.Attack
		}
		// Low-risk personalities avoid trading blows while weak.
		if hpRatio < 0.5 {
			score -= (1.0 - 4.0*w.Risk) * (0.5 - hpRatio) * 2.0
		}
		if score < 0 {
			score = 0
		}
		return score

	case ActionDefend:
		urgency := 1.0 - hpRatio
		score := w.Defense * (1.0 + 0.3*float64(ctx.DefenseCardsInHand))
		score += w.Defense * urgency * urgency * 3.0
		return score

	case ActionMoveRisky:
		riskiness := 4.0 * w.Risk
		return 0.25 * riskiness * (2.0 - hpRatio)

	case ActionMoveSafe:
		riskiness := 4.0 * w.Risk
		return 0.25 * (2.0 - riskiness*(2.0-hpRatio))

	case ActionDrawCard:
		drawness := 4.0 * w.CardDraw
		fullness := clamp01(float64(ctx.HandSize) / 5.0)
		score := 0.25 * drawness * (1.5 - fullness)
		// Default action when nobody is around and HP is safe.
		if len(ctx.NearbyEnemies) == 0 && hpRatio > 0.6 {
			score += 0.5
		}
		return score
	}
	return 0
}

// ChooseBestAction evaluates every candidate once and returns the one with
// the strictly highest score; ties fall back to the fixed priority order so
// behavior stays deterministic and testable.
func ChooseBestAction(w Weights, candidates []CandidateAction, ctx DecisionContext) (CandidateAction, float64) {
	var best CandidateAction
	bestScore := -1.0
	bestPriority := -1
	for _, c := range candidates {
		score := EvaluateAction(w, c, ctx)
		prio := actionPriority[c.Kind]
		if score > bestScore || (score == bestScore && prio > bestPriority) {
			best = c
			bestScore = score
			bestPriority = prio
		}
	}
	return best, bestScore
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
