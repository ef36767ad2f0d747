package umbra

import (
	"fmt"
	"math/rand"
)

// Seat count limits for a match.
const (
	MinPlayers = 2
	MaxPlayers = 8
)

// TurnPhase is the orchestrator's current phase.
type TurnPhase string

const (
	PhaseMovement TurnPhase = "movement"
	PhaseAction   TurnPhase = "action"
	PhaseEnd      TurnPhase = "end"
)

// TurnState is the single live turn record for a match, owned by the
// orchestrator. Per-player extra-turn counters live on the players.
type TurnState struct {
	Phase              TurnPhase `json:"phase"`
	CurrentPlayerIndex int       `json:"current_player_index"`
	TurnCount          int       `json:"turn_count"`

	// PendingRoll holds the movement dice total awaiting a zone choice.
	// Zero means the current player has not rolled yet.
	PendingRoll int `json:"pending_roll,omitempty"`

	// Halted is set when an invariant violation stops the match loop.
	Halted bool `json:"halted,omitempty"`
}

// Seat describes one participant at match creation time.
type Seat struct {
	ID          string
	DisplayName string
	IsHuman     bool
	Personality string // bot seats only
}

// GameState is the authoritative match aggregate. It is explicitly
// constructed and passed by reference; nothing in the core reads globals.
// All mutation is strictly turn-sequential.
type GameState struct {
	MatchID string               `json:"match_id"`
	Players []*Player            `json:"players"`
	Board   *Board               `json:"-"`
	Decks   map[DeckType]*Deck   `json:"decks"`
	Turn    TurnState            `json:"turn"`
	Result  *WinResult           `json:"result,omitempty"`
	Outbox  []Event              `json:"-"`

	// Seed is the dice/shuffle seed, kept for reproducibility and recovery.
	Seed int64 `json:"seed"`

	announced map[string]bool
	rng       *rand.Rand
}

// NewGame sets up a match: permutes the zone-to-position assignment, builds
// and shuffles the decks, deals characters (Hunter/Shadow split kept as even
// as the seat count allows, neutrals filling the remainder), and starts the
// first player's Movement phase. All randomness comes from the seed.
func NewGame(matchID string, seats []Seat, seed int64) (*GameState, error) {
	if len(seats) < MinPlayers {
		return nil, fmt.Errorf("need at least %d players, got %d", MinPlayers, len(seats))
	}
	if len(seats) > MaxPlayers {
		return nil, fmt.Errorf("at most %d players supported, got %d", MaxPlayers, len(seats))
	}

	rng := rand.New(rand.NewSource(seed))

	g := &GameState{
		MatchID: matchID,
		Board:   NewBoard(rng.Perm(ZoneCount)),
		Decks: map[DeckType]*Deck{
			DeckBlack:  NewDeck(DeckBlack, blackCards(), rng),
			DeckWhite:  NewDeck(DeckWhite, whiteCards(), rng),
			DeckVision: NewDeck(DeckVision, visionCards(), rng),
		},
		Seed:      seed,
		announced: make(map[string]bool),
		rng:       rng,
	}

	chars := dealCharacters(len(seats), rng)
	for i, seat := range seats {
		c := chars[i]
		g.Players = append(g.Players, &Player{
			ID:          seat.ID,
			DisplayName: seat.DisplayName,
			IsHuman:     seat.IsHuman,
			Character:   c,
			HP:          c.MaxHP,
			MaxHP:       c.MaxHP,
			IsAlive:     true,
			Zone:        NoZone,
			Personality: seat.Personality,
		})
	}

	g.Turn = TurnState{Phase: PhaseMovement, CurrentPlayerIndex: 0, TurnCount: 1}
	g.emit(Event{Type: EventTurnStarted, PlayerID: g.Players[0].ID, Turn: 1})
	g.emit(Event{Type: EventPhaseChanged, Phase: PhaseMovement, PlayerID: g.Players[0].ID})
	return g, nil
}

// dealCharacters picks len(seats) characters from the roster. Principal
// factions are dealt evenly; seats beyond the even principal split get
// neutrals.
func dealCharacters(n int, rng *rand.Rand) []Character {
	var hunters, shadows, neutrals []Character
	for _, c := range Roster() {
		switch c.Faction {
		case FactionHunter:
			hunters = append(hunters, c)
		case FactionShadow:
			shadows = append(shadows, c)
		default:
			neutrals = append(neutrals, c)
		}
	}
	shuffleCharacters(hunters, rng)
	shuffleCharacters(shadows, rng)
	shuffleCharacters(neutrals, rng)

	nSide := n / 2
	if nSide > len(hunters) {
		nSide = len(hunters)
	}
	if nSide > len(shadows) {
		nSide = len(shadows)
	}
	nNeutral := n - 2*nSide

	var dealt []Character
	dealt = append(dealt, hunters[:nSide]...)
	dealt = append(dealt, shadows[:nSide]...)
	dealt = append(dealt, neutrals[:nNeutral]...)
	shuffleCharacters(dealt, rng)
	return dealt
}

func shuffleCharacters(cs []Character, rng *rand.Rand) {
	rng.Shuffle(len(cs), func(i, j int) { cs[i], cs[j] = cs[j], cs[i] })
}

// rollD6 and rollD4 are the only dice in the game.
func (g *GameState) rollD6() int { return g.rng.Intn(6) + 1 }
func (g *GameState) rollD4() int { return g.rng.Intn(4) + 1 }

// PlayerByID returns the player with the given ID, or nil.
func (g *GameState) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *Player {
	return g.Players[g.Turn.CurrentPlayerIndex]
}

// AliveCount returns the number of living players.
func (g *GameState) AliveCount() int {
	n := 0
	for _, p := range g.Players {
		if p.IsAlive {
			n++
		}
	}
	return n
}

// AliveByFaction returns the number of living players in a faction.
func (g *GameState) AliveByFaction(f Faction) int {
	n := 0
	for _, p := range g.Players {
		if p.IsAlive && p.Faction() == f {
			n++
		}
	}
	return n
}

// PlayersInGroupWith returns the living players sharing the given player's
// combat group, excluding the player itself. A player who has not yet moved
// onto the board shares a group with nobody.
func (g *GameState) PlayersInGroupWith(id string) []*Player {
	p := g.PlayerByID(id)
	if p == nil || p.Zone == NoZone {
		return nil
	}
	var out []*Player
	for _, other := range g.Players {
		if other.ID == id || !other.IsAlive || other.Zone == NoZone {
			continue
		}
		if g.Board.SameGroup(p.Zone, other.Zone) {
			out = append(out, other)
		}
	}
	return out
}

// IsOver reports whether the match has ended.
func (g *GameState) IsOver() bool {
	return g.Result != nil && g.Result.GameOver
}

// Rehydrate restores runtime-only fields after decoding a serialized
// state. The board layout is rebuilt from the seed (the zone permutation
// is the seed's first draw); dice continue from a stream derived from the
// seed and current turn so a restart does not replay earlier rolls.
func (g *GameState) Rehydrate() {
	setup := rand.New(rand.NewSource(g.Seed))
	g.Board = NewBoard(setup.Perm(ZoneCount))
	g.rng = rand.New(rand.NewSource(g.Seed + int64(g.Turn.TurnCount)))
	if g.announced == nil {
		g.announced = make(map[string]bool)
	}
	if g.Result != nil {
		g.announced[announceKey(*g.Result)] = true
	}
}
