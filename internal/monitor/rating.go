package monitor

import (
	"context"
	"math"
	"sort"

	"github.com/riftcast/riftcast/internal/domain"
)

// Rating is one player's current power score, pushed to the overlay
// every tick so the sidebar bars track the game live.
type Rating struct {
	Name     string  `json:"name"`
	Champion string  `json:"champion"`
	Team     string  `json:"team"`
	Score    float64 `json:"score"`
	Streak   int     `json:"streak"`
}

// pushRatings computes and broadcasts per-player power ratings. The
// score blends KDA, farm rate, share of the team's gold and the
// current kill streak, clamped to 0..10.
func (m *Monitor) pushRatings(ctx context.Context, snap *domain.Snapshot) {
	minutes := snap.GameTime / 60
	if minutes < 1 {
		minutes = 1
	}

	ratings := make([]Rating, 0, len(snap.Players))
	for i := range snap.Players {
		p := &snap.Players[i]

		kda := float64(p.Scores.Kills) + 0.7*float64(p.Scores.Assists)
		kda /= math.Max(1, float64(p.Scores.Deaths))
		csRate := float64(p.Scores.CreepScore) / minutes

		goldShare := 0.0
		if team := snap.TeamGold[p.Team]; team > 0 {
			goldShare = float64(p.ItemGold()) / float64(team)
		}

		streak := m.bank.Streak.StreakOf(p.SummonerName)
		score := 1.2*kda + 0.35*csRate + 8*goldShare + 0.5*float64(streak)
		score = math.Min(10, math.Round(score*10)/10)

		ratings = append(ratings, Rating{
			Name:     p.SummonerName,
			Champion: p.ChampionName,
			Team:     string(p.Team),
			Score:    score,
			Streak:   streak,
		})
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].Score > ratings[j].Score })

	m.overlay.Push(ctx, "ratings", ratings)
}
