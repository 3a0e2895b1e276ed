package commentary

import (
	"fmt"
	"strings"

	"github.com/riftcast/riftcast/internal/domain"
)

// BuildRecap renders the compact game-state block appended to every
// generation prompt, so the model reacts to events with the scoreboard
// in view instead of narrating them in a vacuum.
func BuildRecap(snap *domain.Snapshot, you *domain.Player, goldDiff int) string {
	var b strings.Builder

	minutes := int(snap.GameTime) / 60
	seconds := int(snap.GameTime) % 60
	fmt.Fprintf(&b, "Game time: %d:%02d", minutes, seconds)
	if snap.GameMode != "" {
		fmt.Fprintf(&b, " (%s)", snap.GameMode)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "You (%s, %s): %d/%d/%d, %d CS",
		you.ChampionName, you.Position,
		you.Scores.Kills, you.Scores.Deaths, you.Scores.Assists,
		you.Scores.CreepScore)
	if snap.GameTime >= 30 {
		fmt.Fprintf(&b, " (%.1f cs/min)", float64(you.Scores.CreepScore)/(snap.GameTime/60))
	}
	b.WriteByte('\n')

	enemy := you.Team.Opponent()
	fmt.Fprintf(&b, "Team kills: yours %d, enemy %d\n",
		snap.TeamKills(you.Team), snap.TeamKills(enemy))
	fmt.Fprintf(&b, "Dragons: yours %d, enemy %d\n",
		snap.DragonKills[you.Team], snap.DragonKills[enemy])

	switch {
	case goldDiff > 0:
		fmt.Fprintf(&b, "Gold: your team is ahead by %d", goldDiff)
	case goldDiff < 0:
		fmt.Fprintf(&b, "Gold: your team is behind by %d", -goldDiff)
	default:
		b.WriteString("Gold: dead even")
	}
	return b.String()
}
