package umbra

// WinResult is the evaluator's verdict. HasWinner with GameOver=false models
// a neutral player's personal objective being satisfied while play continues.
type WinResult struct {
	HasWinner      bool     `json:"has_winner"`
	WinningFaction Faction  `json:"winning_faction,omitempty"`
	WinningPlayers []string `json:"winning_players,omitempty"`
	GameOver       bool     `json:"game_over"`
}

// CheckWinConditions recomputes the win state from current observations.
// It is idempotent: a result already announced is not announced again, and
// a call with nothing new returns HasWinner=false. A game-over result is
// stored on the state and ends the match.
func (g *GameState) CheckWinConditions() WinResult {
	if g.IsOver() {
		return WinResult{}
	}

	if r := g.factionElimination(); r.HasWinner {
		return g.announce(r)
	}
	if r := g.lastStanding(); r.HasWinner {
		return g.announce(r)
	}
	if r := g.neutralObjectives(); r.HasWinner {
		return g.announce(r)
	}
	return WinResult{}
}

// factionElimination: a principal faction wins when every member of the
// opposing principal faction is dead. Living GoalLastStanding neutrals win
// alongside the victors.
func (g *GameState) factionElimination() WinResult {
	hunters := g.AliveByFaction(FactionHunter)
	shadows := g.AliveByFaction(FactionShadow)

	var winner Faction
	switch {
	case shadows == 0 && hunters > 0:
		winner = FactionHunter
	case hunters == 0 && shadows > 0:
		winner = FactionShadow
	default:
		return WinResult{}
	}

	r := WinResult{HasWinner: true, WinningFaction: winner, GameOver: true}
	for _, p := range g.Players {
		if p.Faction() == winner {
			r.WinningPlayers = append(r.WinningPlayers, p.ID)
		}
		if p.IsAlive && p.Character.Goal == GoalLastStanding {
			r.WinningPlayers = append(r.WinningPlayers, p.ID)
		}
	}
	return r
}

// lastStanding: a neutral with GoalLastStanding wins alone as the sole
// survivor, ending the game.
func (g *GameState) lastStanding() WinResult {
	if g.AliveCount() != 1 {
		return WinResult{}
	}
	for _, p := range g.Players {
		if p.IsAlive && p.Character.Goal == GoalLastStanding {
			return WinResult{
				HasWinner:      true,
				WinningFaction: FactionNeutral,
				WinningPlayers: []string{p.ID},
				GameOver:       true,
			}
		}
	}
	return WinResult{}
}

// neutralObjectives covers personal goals that can be satisfied without
// ending the game, evaluated against the running kill observations.
func (g *GameState) neutralObjectives() WinResult {
	for _, p := range g.Players {
		if p.Character.Goal != GoalFirstHunterKill || !p.IsAlive {
			continue
		}
		for _, victim := range g.Players {
			if !victim.IsAlive && victim.Faction() == FactionHunter && victim.KilledBy == p.ID {
				return WinResult{
					HasWinner:      true,
					WinningFaction: FactionNeutral,
					WinningPlayers: []string{p.ID},
					GameOver:       false,
				}
			}
		}
	}
	return WinResult{}
}

// announce records and emits a result exactly once. Repeated evaluation of
// an unchanged board stays silent.
func (g *GameState) announce(r WinResult) WinResult {
	key := announceKey(r)
	if g.announced == nil {
		g.announced = make(map[string]bool)
	}
	if g.announced[key] {
		return WinResult{}
	}
	g.announced[key] = true

	for _, id := range r.WinningPlayers {
		g.emit(Event{Type: EventWinCondition, PlayerID: id, Faction: r.WinningFaction})
	}
	if r.GameOver {
		g.Result = &r
		g.emit(Event{Type: EventGameOver, Faction: r.WinningFaction})
	}
	return r
}

func announceKey(r WinResult) string {
	key := string(r.WinningFaction)
	for _, id := range r.WinningPlayers {
		key += ":" + id
	}
	if r.GameOver {
		key += ":over"
	}
	return key
}
