package trigger

import (
	"testing"
	"time"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

var t0 = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

// makeSnap builds a four-player snapshot with the viewer on ORDER.
// Derived aggregates are computed the same way the ingestion boundary
// does it.
func makeSnap(mut func(*domain.Snapshot)) *domain.Snapshot {
	snap := &domain.Snapshot{
		GameTime:      600,
		ActiveRiotID:  "Zoro#EUW",
		CurrentHP:     1000,
		MaxHP:         1800,
		CurrentGold:   500,
		HasChampStats: true,
		Players: []domain.Player{
			{RiotID: "Zoro#EUW", SummonerName: "Zoro", Team: domain.TeamOrder, Position: "MIDDLE"},
			{RiotID: "Ally#EUW", SummonerName: "Ally", Team: domain.TeamOrder, Position: "TOP"},
			{RiotID: "Rival#EUW", SummonerName: "Rival", Team: domain.TeamChaos, Position: "MIDDLE"},
			{RiotID: "Foe#EUW", SummonerName: "Foe", Team: domain.TeamChaos, Position: "TOP"},
		},
	}
	if mut != nil {
		mut(snap)
	}

	snap.TotalKills = 0
	snap.TeamGold = map[domain.Team]int{}
	snap.DragonKills = map[domain.Team]int{domain.TeamOrder: 0, domain.TeamChaos: 0}
	for i := range snap.Players {
		p := &snap.Players[i]
		snap.TotalKills += p.Scores.Kills
		snap.TeamGold[p.Team] += p.ItemGold()
	}
	for _, ev := range snap.Events {
		if ev.Name == domain.EventDragonKill {
			if team, ok := snap.TeamOf(ev.KillerName); ok {
				snap.DragonKills[team]++
			}
		}
	}
	return snap
}

// makeTick wraps a snapshot into the per-poll trigger view.
func makeTick(t *testing.T, snap *domain.Snapshot, now time.Time) *Tick {
	t.Helper()
	you := snap.ActivePlayer()
	if you == nil {
		t.Fatal("snapshot has no active player")
	}
	return &Tick{
		Snap:     snap,
		You:      you,
		GoldDiff: snap.TeamGold[you.Team] - snap.TeamGold[you.Team.Opponent()],
		Now:      now,
	}
}

// seededState returns an initialized cumulative state matching a tick.
func seededState(t *testing.T, tick *Tick) *CumulativeState {
	t.Helper()
	state := &CumulativeState{}
	state.Seed(tick)
	return state
}

func quietLogger() *logger.Logger {
	return logger.New(logger.LevelOff, nil)
}
