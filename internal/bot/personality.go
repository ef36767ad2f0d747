package bot

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rs/zerolog/log"
)

// weightTolerance is the allowed deviation from 1.0 for a weight sum.
const weightTolerance = 0.01

// Weights is the normalized 4-vector controlling a bot's action-scoring
// bias. Components must sum to 1.0 within weightTolerance.
type Weights struct {
	Attack   float64 `json:"attack"`
	Defense  float64 `json:"defense"`
	Risk     float64 `json:"risk"`
	CardDraw float64 `json:"card_draw"`
}

// Sum returns the component total.
func (w Weights) Sum() float64 {
	return w.Attack + w.Defense + w.Risk + w.CardDraw
}

// Valid reports whether all components are non-negative and the sum
// invariant holds.
func (w Weights) Valid() bool {
	if w.Attack < 0 || w.Defense < 0 || w.Risk < 0 || w.CardDraw < 0 {
		return false
	}
	return math.Abs(w.Sum()-1.0) <= weightTolerance
}

// Personality is a named weight profile assignable to a bot seat.
type Personality struct {
	Name    string  `json:"name"`
	Weights Weights `json:"weights"`
}

// DefaultPersonalities is the built-in profile set, used when no personality
// file is configured.
func DefaultPersonalities() []Personality {
	return []Personality{
		{Name: "Brute", Weights: Weights{Attack: 0.55, Defense: 0.10, Risk: 0.25, CardDraw: 0.10}},
		{Name: "Warden", Weights: Weights{Attack: 0.10, Defense: 0.55, Risk: 0.10, CardDraw: 0.25}},
		{Name: "Gambler", Weights: Weights{Attack: 0.25, Defense: 0.10, Risk: 0.50, CardDraw: 0.15}},
		{Name: "Scholar", Weights: Weights{Attack: 0.15, Defense: 0.20, Risk: 0.10, CardDraw: 0.55}},
		{Name: "Drifter", Weights: Weights{Attack: 0.25, Defense: 0.25, Risk: 0.25, CardDraw: 0.25}},
	}
}

// LoadPersonalities decodes a JSON personality list, skipping malformed
// entries with a warning rather than failing the whole load. It errors only
// when the stream cannot be decoded at all or no valid entry remains.
func LoadPersonalities(r io.Reader) ([]Personality, error) {
	var raw []Personality
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode personalities: %w", err)
	}

	var valid []Personality
	for i, p := range raw {
		if p.Name == "" {
			log.Warn().Int("index", i).Msg("Skipping personality with empty name")
			continue
		}
		if !p.Weights.Valid() {
			log.Warn().Str("personality", p.Name).Float64("sum", p.Weights.Sum()).
				Msg("Skipping personality with invalid weight vector")
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid personalities in input (%d entries)", len(raw))
	}
	return valid, nil
}

// LoadPersonalitiesFile loads personalities from a JSON file, falling back
// to the defaults when the path is empty.
func LoadPersonalitiesFile(path string) ([]Personality, error) {
	if path == "" {
		return DefaultPersonalities(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open personalities: %w", err)
	}
	defer f.Close()
	return LoadPersonalities(f)
}

// Assigner hands out personalities round-robin over the loaded set.
type Assigner struct {
	personalities []Personality
	next          int
}

// NewAssigner creates an Assigner over the given set.
func NewAssigner(ps []Personality) *Assigner {
	return &Assigner{personalities: ps}
}

// Next returns the next personality in rotation.
func (a *Assigner) Next() Personality {
	p := a.personalities[a.next%len(a.personalities)]
	a.next++
	return p
}

// ByName finds a personality in the set, or false.
func ByName(ps []Personality, name string) (Personality, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Personality{}, false
}
