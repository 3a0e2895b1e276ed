package trigger

import (
	"strings"
	"testing"
	"time"

	"github.com/riftcast/riftcast/internal/domain"
)

func withEvents(events ...domain.GameEvent) func(*domain.Snapshot) {
	return func(s *domain.Snapshot) { s.Events = append(s.Events, events...) }
}

func TestObjectiveDedupAcrossTicks(t *testing.T) {
	tr := NewBaron()
	ev := domain.GameEvent{ID: 7, Name: domain.EventBaronKill, Time: 1200, KillerName: "Ally"}

	tick := makeTick(t, makeSnap(withEvents(ev)), t0)
	prev := seededState(t, tick)

	if got := tr.Check(tick, prev); len(got) != 1 {
		t.Fatalf("fresh baron event should fire, got %v", got)
	}
	// The event list is cumulative; the same id keeps reappearing.
	for i := 0; i < 5; i++ {
		again := makeTick(t, makeSnap(withEvents(ev)), t0.Add(time.Duration(i+1)*5*time.Second))
		if got := tr.Check(again, prev); got != nil {
			t.Fatalf("tick %d: already-seen event must be silent, got %v", i, got)
		}
	}
}

func TestObjectiveBacklogAbsorption(t *testing.T) {
	tr := NewHerald()
	backlog := makeTick(t, makeSnap(withEvents(
		domain.GameEvent{ID: 3, Name: domain.EventHeraldKill, Time: 480, KillerName: "Ally"},
		domain.GameEvent{ID: 9, Name: domain.EventHeraldKill, Time: 900, KillerName: "Rival"},
	)), t0)
	prev := seededState(t, backlog)

	// Two unseen events in one tick: only the newest is narrated, the
	// older one is swallowed by the watermark.
	got := tr.Check(backlog, prev)
	if len(got) != 1 {
		t.Fatalf("backlog should produce exactly one message, got %v", got)
	}
	if !strings.Contains(got[0].Text, "enemy") {
		t.Errorf("should narrate the newest event (enemy herald), got %q", got[0].Text)
	}

	next := makeTick(t, makeSnap(withEvents(
		domain.GameEvent{ID: 3, Name: domain.EventHeraldKill, Time: 480, KillerName: "Ally"},
		domain.GameEvent{ID: 9, Name: domain.EventHeraldKill, Time: 900, KillerName: "Rival"},
	)), t0.Add(5*time.Second))
	if got := tr.Check(next, prev); got != nil {
		t.Fatalf("absorbed backlog must stay silent, got %v", got)
	}
}

func TestDragonBranches(t *testing.T) {
	tests := []struct {
		name        string
		events      []domain.GameEvent
		wantText    string
		wantSalient bool
	}{
		{
			"ally infernal",
			[]domain.GameEvent{{ID: 1, Name: domain.EventDragonKill, Time: 600, KillerName: "Ally", DragonType: "Infernal"}},
			"Your team took the Infernal dragon.",
			false,
		},
		{
			"self secure",
			[]domain.GameEvent{{ID: 1, Name: domain.EventDragonKill, Time: 600, KillerName: "Zoro", DragonType: "Ocean"}},
			"You secured the Ocean dragon yourself!",
			false,
		},
		{
			"stolen is salient",
			[]domain.GameEvent{{ID: 1, Name: domain.EventDragonKill, Time: 600, KillerName: "Rival", DragonType: "Cloud", Stolen: true}},
			"STOLE",
			true,
		},
		{
			"elder is salient",
			[]domain.GameEvent{{ID: 1, Name: domain.EventDragonKill, Time: 2100, KillerName: "Ally", DragonType: "Elder"}},
			"Elder dragon",
			true,
		},
		{
			"third dragon is soul point",
			[]domain.GameEvent{
				{ID: 1, Name: domain.EventDragonKill, Time: 600, KillerName: "Ally", DragonType: "Infernal"},
				{ID: 2, Name: domain.EventDragonKill, Time: 900, KillerName: "Ally", DragonType: "Infernal"},
				{ID: 3, Name: domain.EventDragonKill, Time: 1200, KillerName: "Ally", DragonType: "Infernal"},
			},
			"soul point",
			true,
		},
		{
			"fourth dragon is soul",
			[]domain.GameEvent{
				{ID: 1, Name: domain.EventDragonKill, Time: 600, KillerName: "Ally", DragonType: "Infernal"},
				{ID: 2, Name: domain.EventDragonKill, Time: 900, KillerName: "Ally", DragonType: "Infernal"},
				{ID: 3, Name: domain.EventDragonKill, Time: 1200, KillerName: "Ally", DragonType: "Infernal"},
				{ID: 4, Name: domain.EventDragonKill, Time: 1500, KillerName: "Ally", DragonType: "Infernal"},
			},
			"dragon soul",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewDragon()
			tick := makeTick(t, makeSnap(withEvents(tt.events...)), t0)
			prev := seededState(t, tick)

			got := tr.Check(tick, prev)
			if len(got) != 1 {
				t.Fatalf("expected one result, got %v", got)
			}
			if !strings.Contains(got[0].Text, tt.wantText) {
				t.Errorf("text = %q, want substring %q", got[0].Text, tt.wantText)
			}
			if got[0].Salient != tt.wantSalient {
				t.Errorf("salient = %v, want %v", got[0].Salient, tt.wantSalient)
			}
		})
	}
}

func TestDragonSkipsUnknownKiller(t *testing.T) {
	tr := NewDragon()
	tick := makeTick(t, makeSnap(withEvents(
		domain.GameEvent{ID: 1, Name: domain.EventDragonKill, Time: 600, KillerName: "Minion", DragonType: "Cloud"},
	)), t0)
	prev := seededState(t, tick)

	if got := tr.Check(tick, prev); got != nil {
		t.Fatalf("unknown killer must be skipped, got %v", got)
	}
}

func TestAceBranches(t *testing.T) {
	tr := NewAce()
	ours := makeTick(t, makeSnap(withEvents(
		domain.GameEvent{ID: 1, Name: domain.EventAce, Time: 700, Acer: "Ally", AcingTeam: domain.TeamOrder},
	)), t0)
	prev := seededState(t, ours)

	got := tr.Check(ours, prev)
	if len(got) != 1 || !got[0].Salient {
		t.Fatalf("ace should be one salient result, got %v", got)
	}
	if !strings.Contains(got[0].Text, "Ally") {
		t.Errorf("our ace should name the acer, got %q", got[0].Text)
	}

	tr.Reset()
	theirs := makeTick(t, makeSnap(withEvents(
		domain.GameEvent{ID: 2, Name: domain.EventAce, Time: 800, Acer: "Rival", AcingTeam: domain.TeamChaos},
	)), t0.Add(5*time.Second))
	got = tr.Check(theirs, prev)
	if len(got) != 1 || !got[0].Salient {
		t.Fatalf("enemy ace should be one salient result, got %v", got)
	}
	if !strings.Contains(got[0].Text, "enemy") {
		t.Errorf("enemy ace branch, got %q", got[0].Text)
	}
}

func TestMultikillLabels(t *testing.T) {
	tests := []struct {
		streak int
		want   string
	}{
		{2, "double kill"},
		{3, "TRIPLE kill"},
		{4, "QUADRA kill"},
		{5, "PENTAKILL"},
	}
	for _, tt := range tests {
		tr := NewMultikill()
		tick := makeTick(t, makeSnap(withEvents(
			domain.GameEvent{ID: 1, Name: domain.EventMultikill, Time: 600, KillerName: "Zoro", KillStreak: tt.streak},
		)), t0)
		prev := seededState(t, tick)

		got := tr.Check(tick, prev)
		if len(got) != 1 || !strings.Contains(got[0].Text, tt.want) {
			t.Errorf("streak %d: got %v, want substring %q", tt.streak, got, tt.want)
		}
	}
}

func TestWatermarkReset(t *testing.T) {
	tr := NewBaron()
	ev := domain.GameEvent{ID: 7, Name: domain.EventBaronKill, Time: 1200, KillerName: "Ally"}
	tick := makeTick(t, makeSnap(withEvents(ev)), t0)
	prev := seededState(t, tick)

	if got := tr.Check(tick, prev); len(got) != 1 {
		t.Fatalf("first sighting should fire, got %v", got)
	}

	// A new game reuses low event ids; Reset must forget the watermark.
	tr.Reset()
	fresh := makeTick(t, makeSnap(withEvents(
		domain.GameEvent{ID: 2, Name: domain.EventBaronKill, Time: 1100, KillerName: "Ally"},
	)), t0.Add(time.Hour))
	if got := tr.Check(fresh, prev); len(got) != 1 {
		t.Fatalf("post-reset event should fire, got %v", got)
	}
}
