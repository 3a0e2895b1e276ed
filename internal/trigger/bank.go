package trigger

import (
	"math/rand"

	"github.com/riftcast/riftcast/internal/logger"
)

// Bank bundles the default trigger set plus the two members other
// components read directly (streaks and the feats winner feed the
// overlay power ratings).
type Bank struct {
	Engine *Engine
	Streak *Streak
	Feats  *Feats
}

// NewDefaultBank builds the full detector bank in its fixed
// registration order.
func NewDefaultBank(log *logger.Logger, rng *rand.Rand) *Bank {
	streak := NewStreak()
	feats := NewFeats(0, 0)

	engine := NewEngine(log,
		NewFirstBlood(),
		NewKillCount(nil),
		NewDeath(rng),
		streak,
		NewCSMilestone(0),
		NewHPDrop(0, 0, 0),
		NewGoldThreshold(0, 0),
		NewGoldSwing(0, 0, 0),
		NewDragon(),
		NewBaron(),
		NewHerald(),
		NewAtakhan(),
		NewAce(),
		NewMultikill(),
		feats,
		NewGameEnd(),
	)

	return &Bank{Engine: engine, Streak: streak, Feats: feats}
}
