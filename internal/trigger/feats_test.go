package trigger

import (
	"strings"
	"testing"
	"time"

	"github.com/riftcast/riftcast/internal/domain"
)

func TestFeatsFiresOnceAtTwoSlots(t *testing.T) {
	tr := NewFeats(3, 3)

	// Enemy team locks the kills slot.
	enemyKills := makeTick(t, makeSnap(func(s *domain.Snapshot) {
		s.Players[2].Scores.Kills = 3
	}), t0)
	prev := seededState(t, enemyKills)
	if got := tr.Check(enemyKills, prev); got != nil {
		t.Fatalf("one slot is not enough, got %v", got)
	}

	// Enemy team also takes first brick: two slots, trigger fires.
	enemyBrick := makeTick(t, makeSnap(func(s *domain.Snapshot) {
		s.Players[2].Scores.Kills = 3
		s.Events = []domain.GameEvent{{ID: 1, Name: domain.EventFirstBrick, Time: 700, KillerName: "Foe"}}
	}), t0.Add(5*time.Second))
	got := tr.Check(enemyBrick, prev)
	if len(got) != 1 || !got[0].Salient {
		t.Fatalf("two slots should fire one salient result, got %v", got)
	}
	if !strings.Contains(got[0].Text, "enemy") {
		t.Errorf("enemy side line expected, got %q", got[0].Text)
	}
	if winner, ok := tr.Winner(); !ok || winner != domain.TeamChaos {
		t.Fatalf("Winner() = %v, %v; want CHAOS, true", winner, ok)
	}

	// Never fires again, whatever happens later.
	later := makeTick(t, makeSnap(func(s *domain.Snapshot) {
		s.Players[0].Scores.Kills = 10
	}), t0.Add(time.Minute))
	if got := tr.Check(later, prev); got != nil {
		t.Fatalf("feats must fire once per game, got %v", got)
	}
}

func TestFeatsSlotIsLockedForever(t *testing.T) {
	tr := NewFeats(3, 3)

	// Your team claims the kills slot first.
	ours := makeTick(t, makeSnap(func(s *domain.Snapshot) {
		s.Players[0].Scores.Kills = 3
	}), t0)
	prev := seededState(t, ours)
	tr.Check(ours, prev)

	// The enemy crossing the same threshold later must never take the
	// slot over, even with a higher count.
	theirs := makeTick(t, makeSnap(func(s *domain.Snapshot) {
		s.Players[0].Scores.Kills = 3
		s.Players[2].Scores.Kills = 8
	}), t0.Add(30*time.Second))
	tr.Check(theirs, prev)

	if team, ok := tr.locked[slotKills]; !ok || team != domain.TeamOrder {
		t.Fatalf("kills slot = %v, %v; want ORDER locked", team, ok)
	}
}

func TestFeatsObjectiveSlotCountsDragonsHeraldsGrubs(t *testing.T) {
	tr := NewFeats(3, 3)

	tick := makeTick(t, makeSnap(func(s *domain.Snapshot) {
		s.Players[0].Scores.Kills = 3
		s.Events = []domain.GameEvent{
			{ID: 1, Name: domain.EventDragonKill, Time: 400, KillerName: "Ally", DragonType: "Cloud"},
			{ID: 2, Name: domain.EventHordeKill, Time: 500, KillerName: "Zoro"},
			{ID: 3, Name: domain.EventHeraldKill, Time: 600, KillerName: "Ally"},
		}
	}), t0)
	prev := seededState(t, tick)

	got := tr.Check(tick, prev)
	if len(got) != 1 {
		t.Fatalf("kills plus mixed objectives should fire, got %v", got)
	}
	if !strings.Contains(got[0].Text, "Your team") {
		t.Errorf("expected our-side line, got %q", got[0].Text)
	}
}
