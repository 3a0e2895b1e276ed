// Package trigger implements the detector bank that turns raw snapshot
// deltas into narration-worthy event lines. Each trigger owns its
// private state, is checked once per poll tick in registration order,
// and is reset on game start/end.
package trigger

import (
	"time"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

// Result is one event line produced by a trigger. Salient marks
// high-salience moments that should not wait out the normal commentary
// cadence.
type Result struct {
	Text    string
	Salient bool
}

// Tick is the per-poll view handed to every trigger: the validated
// snapshot plus a few values the monitor derives once per tick.
type Tick struct {
	Snap     *domain.Snapshot
	You      *domain.Player // viewed player's roster entry
	GoldDiff int            // your team gold minus enemy team gold
	Now      time.Time
}

// CumulativeState holds the last-known cumulative counters for the
// viewed player and both teams. It is owned and mutated exclusively by
// the lifecycle monitor; triggers only read it.
type CumulativeState struct {
	Initialized bool
	GameEnded   bool

	Kills   int
	Deaths  int
	Assists int
	CS      int

	LastHP   float64
	Gold     float64
	ItemGold int

	TotalKills   int
	YourTeam     domain.Team
	DragonKills  map[domain.Team]int
	GoldDiff     int
	LastGameTime float64
	Timestamp    time.Time
}

// Seed initializes the state from a tick's absolute values. The first
// tick never computes deltas.
func (s *CumulativeState) Seed(t *Tick) {
	s.apply(t)
	s.Initialized = true
	s.GameEnded = false
}

// Update advances the state to the given tick's values. Lifecycle flags
// are left alone.
func (s *CumulativeState) Update(t *Tick) {
	s.apply(t)
}

func (s *CumulativeState) apply(t *Tick) {
	s.Kills = t.You.Scores.Kills
	s.Deaths = t.You.Scores.Deaths
	s.Assists = t.You.Scores.Assists
	s.CS = t.You.Scores.CreepScore
	s.LastHP = t.Snap.CurrentHP
	s.Gold = t.Snap.CurrentGold
	s.ItemGold = t.You.ItemGold()
	s.TotalKills = t.Snap.TotalKills
	s.YourTeam = t.You.Team
	s.DragonKills = t.Snap.DragonKills
	s.GoldDiff = t.GoldDiff
	s.LastGameTime = t.Snap.GameTime
	s.Timestamp = t.Now
}

// Clear wipes everything back to uninitialized. When preserveEnded is
// true the GameEnded flag survives, so the askai path can keep
// reporting that the match is over.
func (s *CumulativeState) Clear(preserveEnded bool) {
	ended := s.GameEnded
	*s = CumulativeState{}
	if preserveEnded {
		s.GameEnded = ended
	}
}

// Trigger is one stateful detector. Check may mutate the trigger's own
// state only; Reset is invoked on game start and end.
type Trigger interface {
	Name() string
	Check(t *Tick, prev *CumulativeState) []Result
	Reset()
}

// Engine runs a fixed, ordered bank of triggers. Order only matters for
// which trigger claims a shared resource first (see the feats trigger).
type Engine struct {
	triggers []Trigger
	log      *logger.Logger
}

// NewEngine creates an engine over the given triggers, checked in the
// given order every tick.
func NewEngine(log *logger.Logger, triggers ...Trigger) *Engine {
	return &Engine{triggers: triggers, log: log}
}

// Check runs every trigger against the tick and concatenates all
// non-empty outputs, preserving registration order.
func (e *Engine) Check(t *Tick, prev *CumulativeState) []Result {
	var out []Result
	for _, tr := range e.triggers {
		results := tr.Check(t, prev)
		if len(results) == 0 {
			continue
		}
		for _, r := range results {
			e.log.Debug("trigger %s fired: %s", tr.Name(), r.Text)
		}
		out = append(out, results...)
	}
	return out
}

// Reset resets every registered trigger exactly once.
func (e *Engine) Reset() {
	for _, tr := range e.triggers {
		tr.Reset()
	}
	e.log.Info("all %d triggers reset", len(e.triggers))
}

// Len returns the number of registered triggers.
func (e *Engine) Len() int { return len(e.triggers) }
