package umbra

// PlayerSnapshot is the public projection of one seat. Faction and
// character identity are populated only for revealed players.
type PlayerSnapshot struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	IsHuman     bool    `json:"is_human"`
	HP          int     `json:"hp"`
	MaxHP       int     `json:"hp_max"`
	IsAlive     bool    `json:"is_alive"`
	IsRevealed  bool    `json:"is_revealed"`
	Zone        ZoneID  `json:"position_zone"`
	Equipment   []Card  `json:"equipment"`
	HandSize    int     `json:"hand_size"`
	CharacterID string  `json:"character_id,omitempty"`
	Faction     Faction `json:"faction,omitempty"`
}

// DeckSnapshot is the public view of one deck's pile sizes.
type DeckSnapshot struct {
	Type      DeckType `json:"type"`
	Remaining int      `json:"remaining"`
	Discarded int      `json:"discarded"`
}

// Snapshot is the read-only public projection of a match.
type Snapshot struct {
	MatchID            string           `json:"match_id"`
	Phase              TurnPhase        `json:"phase"`
	CurrentPlayerIndex int              `json:"current_player_index"`
	CurrentPlayerID    string           `json:"current_player_id"`
	TurnCount          int              `json:"turn_count"`
	PendingRoll        int              `json:"pending_roll,omitempty"`
	Players            []PlayerSnapshot `json:"players"`
	Decks              []DeckSnapshot   `json:"decks"`
	Result             *WinResult       `json:"result,omitempty"`
}

// PrivateSnapshot extends the public view with one player's own hidden
// information: identity, goal, hand, and ability state.
type PrivateSnapshot struct {
	Snapshot
	You struct {
		CharacterID     string      `json:"character_id"`
		CharacterName   string      `json:"character_name"`
		Faction         Faction     `json:"faction"`
		Goal            NeutralGoal `json:"goal,omitempty"`
		Ability         Ability     `json:"ability"`
		AbilityUsed     bool        `json:"ability_used"`
		AbilityDisabled bool        `json:"ability_disabled"`
		Hand            []Card      `json:"hand"`
	} `json:"you"`
}

// PublicSnapshot builds the spectator-safe projection: unrevealed identities
// stay hidden, hands are reduced to counts, equipment is public.
func (g *GameState) PublicSnapshot() Snapshot {
	s := Snapshot{
		MatchID:            g.MatchID,
		Phase:              g.Turn.Phase,
		CurrentPlayerIndex: g.Turn.CurrentPlayerIndex,
		CurrentPlayerID:    g.CurrentPlayer().ID,
		TurnCount:          g.Turn.TurnCount,
		PendingRoll:        g.Turn.PendingRoll,
		Result:             g.Result,
	}
	for _, p := range g.Players {
		ps := PlayerSnapshot{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			IsHuman:     p.IsHuman,
			HP:          p.HP,
			MaxHP:       p.MaxHP,
			IsAlive:     p.IsAlive,
			IsRevealed:  p.IsRevealed,
			Zone:        p.Zone,
			Equipment:   append([]Card{}, p.Equipment...),
			HandSize:    len(p.Hand),
		}
		if p.IsRevealed {
			ps.CharacterID = p.Character.ID
			ps.Faction = p.Faction()
		}
		s.Players = append(s.Players, ps)
	}
	for _, dt := range []DeckType{DeckBlack, DeckWhite, DeckVision} {
		draw, discard := g.Decks[dt].PileSizes()
		s.Decks = append(s.Decks, DeckSnapshot{Type: dt, Remaining: draw, Discarded: discard})
	}
	return s
}

// PrivateSnapshotFor builds the per-player view. Returns ErrPlayerNotFound
// for an unknown ID.
func (g *GameState) PrivateSnapshotFor(playerID string) (PrivateSnapshot, error) {
	p := g.PlayerByID(playerID)
	if p == nil {
		return PrivateSnapshot{}, ErrPlayerNotFound
	}
	ps := PrivateSnapshot{Snapshot: g.PublicSnapshot()}
	ps.You.CharacterID = p.Character.ID
	ps.You.CharacterName = p.Character.Name
	ps.You.Faction = p.Faction()
	ps.You.Goal = p.Character.Goal
	ps.You.Ability = p.Character.Ability
	ps.You.AbilityUsed = p.AbilityUsed
	ps.You.AbilityDisabled = p.AbilityDisabled
	ps.You.Hand = append([]Card{}, p.Hand...)
	return ps, nil
}
