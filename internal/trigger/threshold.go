package trigger

import (
	"fmt"
	"time"
)

// GoldThreshold fires when the viewed player's unspent gold crosses a
// fixed boundary upward, at most once per cooldown window.
type GoldThreshold struct {
	boundary float64
	cooldown time.Duration

	lastFired time.Time
}

// NewGoldThreshold creates the gold-threshold trigger. A zero boundary
// defaults to 2500 gold, a zero cooldown to 3 minutes.
func NewGoldThreshold(boundary float64, cooldown time.Duration) *GoldThreshold {
	if boundary <= 0 {
		boundary = 2500
	}
	if cooldown <= 0 {
		cooldown = 3 * time.Minute
	}
	return &GoldThreshold{boundary: boundary, cooldown: cooldown}
}

func (g *GoldThreshold) Name() string { return "gold-threshold" }

func (g *GoldThreshold) Reset() { g.lastFired = time.Time{} }

func (g *GoldThreshold) Check(t *Tick, prev *CumulativeState) []Result {
	gold := t.Snap.CurrentGold
	if gold < g.boundary || prev.Gold >= g.boundary {
		return nil
	}
	if !g.lastFired.IsZero() && t.Now.Sub(g.lastFired) < g.cooldown {
		return nil
	}
	g.lastFired = t.Now
	return []Result{{Text: fmt.Sprintf("Sitting on over %.0f gold. Time to think about recalling and spending it.", g.boundary)}}
}

// HPDrop fires on a large relative HP loss, but only when the post-drop
// value is below an absolute floor. Large-but-safe swings at high HP
// are not worth narrating.
type HPDrop struct {
	dropPct  float64
	floorHP  float64
	cooldown time.Duration

	lastFired time.Time
}

// NewHPDrop creates the HP-drop trigger. Zero values default to a 35%
// drop, a 70 HP floor and a 30 second cooldown.
func NewHPDrop(dropPct, floorHP float64, cooldown time.Duration) *HPDrop {
	if dropPct <= 0 {
		dropPct = 35
	}
	if floorHP <= 0 {
		floorHP = 70
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &HPDrop{dropPct: dropPct, floorHP: floorHP, cooldown: cooldown}
}

func (h *HPDrop) Name() string { return "hp-drop" }

func (h *HPDrop) Reset() { h.lastFired = time.Time{} }

func (h *HPDrop) Check(t *Tick, prev *CumulativeState) []Result {
	if !h.lastFired.IsZero() && t.Now.Sub(h.lastFired) < h.cooldown {
		return nil
	}
	prevHP, curHP := prev.LastHP, t.Snap.CurrentHP
	if prevHP <= 0 || curHP <= 0 {
		return nil
	}
	if curHP > h.floorHP {
		return nil
	}
	drop := (prevHP - curHP) / prevHP * 100
	if drop < h.dropPct {
		return nil
	}
	h.lastFired = t.Now
	return []Result{{Text: fmt.Sprintf("Huge hit taken, lost %.0f%% health and now critically low at %.0f HP.", drop, curHP)}}
}
