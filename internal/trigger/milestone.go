package trigger

import (
	"fmt"
	"math/rand"
)

// CSMilestone fires once per creep-score milestone ever crossed. The
// highest milestone seen is tracked so snapshot noise that briefly
// regresses the value never re-announces an old milestone.
type CSMilestone struct {
	step    int
	highest int
}

// NewCSMilestone creates the CS milestone trigger. A zero step defaults
// to 70 minions.
func NewCSMilestone(step int) *CSMilestone {
	if step <= 0 {
		step = 70
	}
	return &CSMilestone{step: step}
}

func (c *CSMilestone) Name() string { return "cs-milestone" }

func (c *CSMilestone) Reset() { c.highest = 0 }

func (c *CSMilestone) Check(t *Tick, prev *CumulativeState) []Result {
	milestone := t.You.Scores.CreepScore / c.step * c.step
	if milestone <= c.highest {
		return nil
	}
	c.highest = milestone
	return []Result{{Text: fmt.Sprintf("Farm milestone: %d minions down.", milestone)}}
}

// KillCount fires whenever the viewed player's kill total increases,
// and additionally announces fixed kill milestones, each at most once
// per game.
type KillCount struct {
	milestones []int

	lastKills int
	announced map[int]bool
}

// NewKillCount creates the kill-count trigger. A nil milestone set
// defaults to 5/10/15/20.
func NewKillCount(milestones []int) *KillCount {
	if milestones == nil {
		milestones = []int{5, 10, 15, 20}
	}
	return &KillCount{milestones: milestones, announced: make(map[int]bool)}
}

func (k *KillCount) Name() string { return "kill-count" }

func (k *KillCount) Reset() {
	k.lastKills = 0
	k.announced = make(map[int]bool)
}

func (k *KillCount) Check(t *Tick, prev *CumulativeState) []Result {
	kills := t.You.Scores.Kills
	if kills <= k.lastKills {
		return nil
	}
	diff := kills - k.lastKills
	k.lastKills = kills

	out := []Result{{Text: fmt.Sprintf("Scored %d new kill(s), now at %d.", diff, kills)}}
	for _, m := range k.milestones {
		if kills >= m && !k.announced[m] {
			k.announced[m] = true
			out = append(out, Result{Text: fmt.Sprintf("That makes %d kills this game. The carry is online.", m)})
		}
	}
	return out
}

// Death fires when the viewed player's death count increases, with a
// randomized message so repeated deaths don't sound canned.
type Death struct {
	rng *rand.Rand

	lastDeaths int
}

// NewDeath creates the death trigger.
func NewDeath(rng *rand.Rand) *Death {
	return &Death{rng: rng}
}

func (d *Death) Name() string { return "death" }

func (d *Death) Reset() { d.lastDeaths = 0 }

func (d *Death) Check(t *Tick, prev *CumulativeState) []Result {
	deaths := t.You.Scores.Deaths
	if deaths <= d.lastDeaths {
		return nil
	}
	diff := deaths - d.lastDeaths
	d.lastDeaths = deaths

	pool := []string{
		fmt.Sprintf("Oof, that's %d more death(s) on the board.", diff),
		fmt.Sprintf("Down again. %d deaths now.", deaths),
		"Tough one. Gray screen time.",
		"The caster winces. Another death logged.",
	}
	return []Result{{Text: pool[d.rng.Intn(len(pool))]}}
}

// Streak tracks per-player kill streaks from kill/death deltas and
// announces the viewed player's streak milestones. A death resets that
// player's streak.
type Streak struct {
	milestones []streakMilestone

	streaks    map[string]int
	lastKills  map[string]int
	lastDeaths map[string]int
}

type streakMilestone struct {
	at    int
	label string
}

// NewStreak creates the streak trigger.
func NewStreak() *Streak {
	return &Streak{
		milestones: []streakMilestone{
			{3, "is on a killing spree"},
			{5, "is on a rampage"},
			{7, "is simply unstoppable"},
		},
		streaks:    make(map[string]int),
		lastKills:  make(map[string]int),
		lastDeaths: make(map[string]int),
	}
}

func (s *Streak) Name() string { return "streak" }

func (s *Streak) Reset() {
	s.streaks = make(map[string]int)
	s.lastKills = make(map[string]int)
	s.lastDeaths = make(map[string]int)
}

// StreakOf returns a player's current kill streak. Used by the power
// ratings pushed to the overlay.
func (s *Streak) StreakOf(name string) int { return s.streaks[name] }

func (s *Streak) Check(t *Tick, prev *CumulativeState) []Result {
	var out []Result
	for i := range t.Snap.Players {
		p := &t.Snap.Players[i]
		name := p.SummonerName
		before := s.streaks[name]

		if p.Scores.Deaths > s.lastDeaths[name] {
			s.streaks[name] = 0
		} else if delta := p.Scores.Kills - s.lastKills[name]; delta > 0 {
			s.streaks[name] = before + delta
		}
		s.lastKills[name] = p.Scores.Kills
		s.lastDeaths[name] = p.Scores.Deaths

		if name != t.You.SummonerName {
			continue
		}
		after := s.streaks[name]
		for _, m := range s.milestones {
			if before < m.at && after >= m.at {
				out = append(out, Result{Text: fmt.Sprintf("%s %s, %d kills without dying.", name, m.label, after)})
			}
		}
	}
	return out
}
