package bot

import "github.com/palegrove/umbra/pkg/umbra"

// EnemyInfo is one nearby enemy in a decision context.
type EnemyInfo struct {
	ID string
	HP int
}

// DecisionContext is the transient feature snapshot fed to action scoring.
// It is rebuilt for every decision and never persisted.
type DecisionContext struct {
	BotHP    int
	BotMaxHP int
	HandSize int

	CurrentZone umbra.ZoneID

	// NearbyEnemies are the living players sharing the bot's combat group.
	NearbyEnemies []EnemyInfo

	// WeakestEnemyHP is the lowest HP among nearby enemies, 0 when none.
	WeakestEnemyHP int
	WeakestEnemyID string

	HasAttackEquipment  bool
	HasDefenseEquipment bool
	DefenseCardsInHand  int
}

// HPRatio returns current HP as a fraction of the maximum.
func (c DecisionContext) HPRatio() float64 {
	if c.BotMaxHP <= 0 {
		return 0
	}
	return float64(c.BotHP) / float64(c.BotMaxHP)
}

// BuildContext snapshots the game-state features relevant to the given bot.
func BuildContext(g *umbra.GameState, botID string) DecisionContext {
	p := g.PlayerByID(botID)
	if p == nil {
		return DecisionContext{}
	}

	ctx := DecisionContext{
		BotHP:               p.HP,
		BotMaxHP:            p.MaxHP,
		HandSize:            len(p.Hand),
		CurrentZone:         p.Zone,
		HasAttackEquipment:  p.HasAttackEquipment(),
		HasDefenseEquipment: p.HasDefenseEquipment(),
		DefenseCardsInHand:  p.DefenseCardsInHand(),
	}

	for _, enemy := range g.PlayersInGroupWith(botID) {
		ctx.NearbyEnemies = append(ctx.NearbyEnemies, EnemyInfo{ID: enemy.ID, HP: enemy.HP})
		if ctx.WeakestEnemyID == "" || enemy.HP < ctx.WeakestEnemyHP {
			ctx.WeakestEnemyHP = enemy.HP
			ctx.WeakestEnemyID = enemy.ID
		}
	}
	return ctx
}
