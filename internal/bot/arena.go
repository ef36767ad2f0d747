package bot

import (
	"fmt"

	"github.com/palegrove/umbra/pkg/umbra"

	"github.com/rs/zerolog/log"
)

// ArenaConfig describes one headless bot-vs-bot match.
type ArenaConfig struct {
	Seed          int64
	Players       int
	Personalities []Personality // round-robin over seats; defaults when empty
	MaxTurns      int           // draw cutoff; 0 means DefaultMaxTurns
}

// DefaultMaxTurns is the arena draw cutoff.
const DefaultMaxTurns = 200

// ArenaResult summarizes a finished arena match.
type ArenaResult struct {
	Seed                int64         `json:"seed"`
	Turns               int           `json:"turns"`
	Winner              umbra.Faction `json:"winner,omitempty"`
	WinningPlayers      []string      `json:"winning_players,omitempty"`
	WinnerPersonalities []string      `json:"winner_personalities,omitempty"`
	Draw                bool          `json:"draw"`
	Events              int           `json:"events"`
}

// RunArenaMatch plays a full match with every seat bot-controlled. The match
// is fully reproducible from the seed.
func RunArenaMatch(cfg ArenaConfig) (*ArenaResult, error) {
	if cfg.Players == 0 {
		cfg.Players = 4
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	personalities := cfg.Personalities
	if len(personalities) == 0 {
		personalities = DefaultPersonalities()
	}

	assigner := NewAssigner(personalities)
	var seats []umbra.Seat
	strategies := make(map[string]Strategy, cfg.Players)
	for i := 0; i < cfg.Players; i++ {
		id := fmt.Sprintf("bot-%d", i+1)
		p := assigner.Next()
		seats = append(seats, umbra.Seat{
			ID:          id,
			DisplayName: fmt.Sprintf("Bot %d (%s)", i+1, p.Name),
			Personality: p.Name,
		})
		strategies[id] = &UtilityStrategy{Personality: p}
	}

	g, err := umbra.NewGame(fmt.Sprintf("arena-%d", cfg.Seed), seats, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("arena setup: %w", err)
	}

	result := &ArenaResult{Seed: cfg.Seed}
	for !g.IsOver() {
		if g.Turn.TurnCount > cfg.MaxTurns {
			result.Draw = true
			break
		}
		current := g.CurrentPlayer()
		if _, err := RunTurn(g, current.ID, strategies[current.ID]); err != nil {
			if umbra.IsFatal(err) {
				return nil, err
			}
			log.Warn().Err(err).Str("bot", current.ID).Msg("Arena turn error")
			break
		}
		result.Events += len(g.DrainEvents())
	}

	result.Turns = g.Turn.TurnCount
	if g.Result != nil {
		result.Winner = g.Result.WinningFaction
		result.WinningPlayers = g.Result.WinningPlayers
		for _, id := range g.Result.WinningPlayers {
			if p := g.PlayerByID(id); p != nil {
				result.WinnerPersonalities = append(result.WinnerPersonalities, p.Personality)
			}
		}
	}
	return result, nil
}
