package umbra

import "math/rand"

// Deck holds an ordered draw pile and a discard pile for one card pool.
// The last element of the draw pile is the next card drawn.
type Deck struct {
	Type    DeckType `json:"type"`
	Draw    []Card   `json:"draw"`
	Discard []Card   `json:"discard"`

	// Built is the construction size. Draw + Discard + cards in play always
	// sums to Built; no card is created or lost after construction.
	Built int `json:"built"`
}

// NewDeck expands the construction list by CopiesInDeck and shuffles it.
func NewDeck(t DeckType, defs []Card, rng *rand.Rand) *Deck {
	d := &Deck{Type: t}
	for _, def := range defs {
		n := def.CopiesInDeck
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			d.Draw = append(d.Draw, def)
		}
	}
	d.Built = len(d.Draw)
	d.Shuffle(rng)
	return d
}

// Shuffle uniformly permutes the draw pile.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Draw), func(i, j int) {
		d.Draw[i], d.Draw[j] = d.Draw[j], d.Draw[i]
	})
}

// DrawCard pops the top card. When the draw pile is empty and the discard
// pile is not, the discard pile is shuffled back in first. With both piles
// empty it returns ErrDeckEmpty; callers must treat that as "no card
// available", not as a fatal condition.
func (d *Deck) DrawCard(rng *rand.Rand) (Card, error) {
	if len(d.Draw) == 0 {
		if len(d.Discard) == 0 {
			return Card{}, ErrDeckEmpty
		}
		d.Draw = append(d.Draw, d.Discard...)
		d.Discard = d.Discard[:0]
		d.Shuffle(rng)
	}
	c := d.Draw[len(d.Draw)-1]
	d.Draw = d.Draw[:len(d.Draw)-1]
	return c, nil
}

// DiscardCard returns a card to the discard pile.
func (d *Deck) DiscardCard(c Card) {
	d.Discard = append(d.Discard, c)
}

// Remaining returns the number of cards left in the draw pile.
func (d *Deck) Remaining() int { return len(d.Draw) }

// PileSizes returns the draw and discard pile sizes.
func (d *Deck) PileSizes() (draw, discard int) {
	return len(d.Draw), len(d.Discard)
}
