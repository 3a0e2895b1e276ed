package trigger

import (
	"fmt"
	"time"
)

// GoldSwing watches the team gold differential. It fires immediately on
// a large absolute change, and independently nudges again when nothing
// has happened for a full cooldown while the lead remains non-trivial,
// as a reminder rather than a delta.
type GoldSwing struct {
	swing    int
	minDiff  int
	cooldown time.Duration

	seeded    bool
	lastDiff  int
	lastFired time.Time
}

// NewGoldSwing creates the gold-swing trigger. Zero values default to a
// 1500 gold swing, a 1000 gold non-trivial floor and a 3 minute
// reminder cooldown.
func NewGoldSwing(swing, minDiff int, cooldown time.Duration) *GoldSwing {
	if swing <= 0 {
		swing = 1500
	}
	if minDiff <= 0 {
		minDiff = 1000
	}
	if cooldown <= 0 {
		cooldown = 3 * time.Minute
	}
	return &GoldSwing{swing: swing, minDiff: minDiff, cooldown: cooldown}
}

func (g *GoldSwing) Name() string { return "gold-swing" }

func (g *GoldSwing) Reset() {
	g.seeded = false
	g.lastDiff = 0
	g.lastFired = time.Time{}
}

func (g *GoldSwing) Check(t *Tick, prev *CumulativeState) []Result {
	diff := t.GoldDiff
	if !g.seeded {
		g.seeded = true
		g.lastDiff = diff
		g.lastFired = t.Now
		return nil
	}

	if abs(diff-g.lastDiff) >= g.swing {
		text := fmt.Sprintf("Big gold swing: your team went from %+d to %+d.", g.lastDiff, diff)
		g.lastDiff = diff
		g.lastFired = t.Now
		return []Result{{Text: text}}
	}

	if t.Now.Sub(g.lastFired) >= g.cooldown && abs(diff) >= g.minDiff {
		side := "ahead"
		if diff < 0 {
			side = "behind"
		}
		g.lastDiff = diff
		g.lastFired = t.Now
		return []Result{{Text: fmt.Sprintf("Quick reminder: your team is still %s by about %d gold.", side, abs(diff))}}
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
