package bot

// Strategy picks an action class from scored candidates. The utility
// strategy is the personality-driven default; the random strategy exists for
// arena baselines and tests.
type Strategy interface {
	Name() string
	ChooseAction(ctx DecisionContext, candidates []CandidateAction) CandidateAction
	PersonalityWeights() Weights
}

// StrategyFor returns the strategy for a seat. Anything but "random" gets
// the utility strategy with the given personality.
func StrategyFor(kind string, p Personality) Strategy {
	if kind == "random" {
		return &RandomStrategy{}
	}
	return &UtilityStrategy{Personality: p}
}

// --- UtilityStrategy ---

// UtilityStrategy scores candidates with the personality's weight vector and
// picks the best. Deterministic for identical inputs.
type UtilityStrategy struct {
	Personality Personality
}

func (s *UtilityStrategy) Name() string { return "utility:" + s.Personality.Name }

func (s *UtilityStrategy) PersonalityWeights() Weights { return s.Personality.Weights }

func (s *UtilityStrategy) ChooseAction(ctx DecisionContext, candidates []CandidateAction) CandidateAction {
	best, _ := ChooseBestAction(s.Personality.Weights, candidates, ctx)
	return best
}

// --- RandomStrategy ---

// RandomStrategy picks a uniformly random candidate. Useful as an arena
// baseline; never assigned to live matches.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) PersonalityWeights() Weights {
	return Weights{Attack: 0.25, Defense: 0.25, Risk: 0.25, CardDraw: 0.25}
}

func (RandomStrategy) ChooseAction(_ DecisionContext, candidates []CandidateAction) CandidateAction {
	if len(candidates) == 0 {
		return CandidateAction{}
	}
	return candidates[botIntn(len(candidates))]
}
