package trigger

import (
	"fmt"

	"github.com/riftcast/riftcast/internal/domain"
)

// Feats is the map-control achievement trigger. Three independent
// condition slots race between the teams:
//
//   - first team to reach the team-kill threshold
//   - first team to take a turret (the FirstBrick event)
//   - first team to reach the epic-objective count threshold
//     (dragons, heralds and void grubs all count)
//
// A slot, once satisfied, is locked to that team forever: a team that
// crosses the same raw threshold later can never claim it. The trigger
// fires once, the first tick any single team holds at least two of the
// three locked slots.
type Feats struct {
	killsNeeded      int
	objectivesNeeded int

	locked map[featSlot]domain.Team
	fired  bool
}

type featSlot int

const (
	slotKills featSlot = iota
	slotFirstBrick
	slotObjectives
)

func (s featSlot) String() string {
	switch s {
	case slotKills:
		return "kills"
	case slotFirstBrick:
		return "first brick"
	case slotObjectives:
		return "objectives"
	}
	return "unknown"
}

// NewFeats creates the feats trigger. Zero thresholds default to 3
// team kills and 3 epic objectives.
func NewFeats(killsNeeded, objectivesNeeded int) *Feats {
	if killsNeeded <= 0 {
		killsNeeded = 3
	}
	if objectivesNeeded <= 0 {
		objectivesNeeded = 3
	}
	return &Feats{
		killsNeeded:      killsNeeded,
		objectivesNeeded: objectivesNeeded,
		locked:           make(map[featSlot]domain.Team),
	}
}

func (f *Feats) Name() string { return "feats" }

func (f *Feats) Reset() {
	f.locked = make(map[featSlot]domain.Team)
	f.fired = false
}

// Winner returns the team that earned the achievement, if any. Read by
// the power ratings.
func (f *Feats) Winner() (domain.Team, bool) {
	if !f.fired {
		return "", false
	}
	return f.holder(), true
}

func (f *Feats) Check(t *Tick, prev *CumulativeState) []Result {
	if f.fired {
		return nil
	}

	// Claim any unlocked slots. Teams are evaluated in a stable order,
	// so a tick where both sides qualify resolves deterministically.
	if _, done := f.locked[slotKills]; !done {
		for _, team := range domain.Teams {
			if t.Snap.TeamKills(team) >= f.killsNeeded {
				f.locked[slotKills] = team
				break
			}
		}
	}
	if _, done := f.locked[slotFirstBrick]; !done {
		for i := range t.Snap.Events {
			ev := &t.Snap.Events[i]
			if ev.Name != domain.EventFirstBrick {
				continue
			}
			if team, ok := t.Snap.TeamOf(ev.KillerName); ok {
				f.locked[slotFirstBrick] = team
			}
			break
		}
	}
	if _, done := f.locked[slotObjectives]; !done {
		for _, team := range domain.Teams {
			if f.epicObjectives(t.Snap, team) >= f.objectivesNeeded {
				f.locked[slotObjectives] = team
				break
			}
		}
	}

	winner := f.holder()
	if winner == "" {
		return nil
	}
	f.fired = true

	side := "The enemy team"
	if winner == t.You.Team {
		side = "Your team"
	}
	return []Result{{
		Text:    fmt.Sprintf("%s completed the Feats of Strength! Upgraded boots on the way.", side),
		Salient: true,
	}}
}

// holder returns the team holding two or more locked slots, or "".
func (f *Feats) holder() domain.Team {
	counts := make(map[domain.Team]int)
	for _, team := range f.locked {
		counts[team]++
		if counts[team] >= 2 {
			return team
		}
	}
	return ""
}

// epicObjectives counts a team's dragon, herald and void grub
// takedowns from the snapshot's event list.
func (f *Feats) epicObjectives(snap *domain.Snapshot, team domain.Team) int {
	count := 0
	for i := range snap.Events {
		ev := &snap.Events[i]
		switch ev.Name {
		case domain.EventDragonKill, domain.EventHeraldKill, domain.EventHordeKill:
			if killerTeam, ok := snap.TeamOf(ev.KillerName); ok && killerTeam == team {
				count++
			}
		}
	}
	return count
}
