package trigger

import "github.com/riftcast/riftcast/internal/domain"

// FirstBlood fires exactly once per game, when the total kill count
// moves off zero.
type FirstBlood struct {
	fired bool
}

// NewFirstBlood creates the first-blood trigger.
func NewFirstBlood() *FirstBlood { return &FirstBlood{} }

func (f *FirstBlood) Name() string { return "first-blood" }

func (f *FirstBlood) Reset() { f.fired = false }

func (f *FirstBlood) Check(t *Tick, prev *CumulativeState) []Result {
	if f.fired {
		return nil
	}
	if prev.TotalKills != 0 || t.Snap.TotalKills == 0 {
		return nil
	}
	f.fired = true
	return []Result{{Text: "First blood has been drawn. The fight is on!", Salient: true}}
}

// GameEnd fires exactly once per game lifetime, on the GameEnd event.
type GameEnd struct {
	fired bool
}

// NewGameEnd creates the game-end trigger.
func NewGameEnd() *GameEnd { return &GameEnd{} }

func (g *GameEnd) Name() string { return "game-end" }

func (g *GameEnd) Reset() { g.fired = false }

func (g *GameEnd) Check(t *Tick, prev *CumulativeState) []Result {
	if g.fired {
		return nil
	}
	for i := len(t.Snap.Events) - 1; i >= 0; i-- {
		ev := t.Snap.Events[i]
		if ev.Name != domain.EventGameEnd {
			continue
		}
		g.fired = true
		if ev.Result == "Win" {
			return []Result{{Text: "GG! That's the nexus, a clean victory.", Salient: true}}
		}
		return []Result{{Text: "And that's the game. A loss this time, on to the next one.", Salient: true}}
	}
	return nil
}
