package trigger

import (
	"fmt"

	"github.com/riftcast/riftcast/internal/domain"
)

// watermark is the dedup state shared by all event-sourced triggers:
// the highest event id and timestamp already processed. The snapshot's
// event list is cumulative, so the same event keeps reappearing tick
// after tick; anything at or below the watermark is skipped.
type watermark struct {
	lastID   int64
	lastTime float64
}

func (w *watermark) seen(ev *domain.GameEvent) bool {
	return ev.ID <= w.lastID || ev.Time <= w.lastTime
}

func (w *watermark) advance(ev *domain.GameEvent) {
	if ev.ID > w.lastID {
		w.lastID = ev.ID
	}
	if ev.Time > w.lastTime {
		w.lastTime = ev.Time
	}
}

func (w *watermark) reset() { *w = watermark{} }

// latestUnseen scans the event list in reverse-chronological order and
// returns the most recent unseen event matching the predicate,
// advancing the watermark past it. Older unseen events are absorbed
// silently: replaying a backlog after a reconnect would be a message
// storm, so only the newest one gets narrated.
func (w *watermark) latestUnseen(events []domain.GameEvent, match func(*domain.GameEvent) bool) *domain.GameEvent {
	for i := len(events) - 1; i >= 0; i-- {
		ev := &events[i]
		if !match(ev) || w.seen(ev) {
			continue
		}
		w.advance(ev)
		return ev
	}
	return nil
}

// relation classifies an event's killer against the viewed player.
type relation int

const (
	relUnknown relation = iota
	relSelf
	relAlly
	relEnemy
)

func relate(t *Tick, killerName string) relation {
	if killerName == t.You.SummonerName {
		return relSelf
	}
	killer := t.Snap.PlayerByName(killerName)
	if killer == nil {
		// Missing player lookups are skipped, never fatal; jungle camps
		// and turrets show up as killers too.
		return relUnknown
	}
	if killer.Team == t.You.Team {
		return relAlly
	}
	return relEnemy
}

// Dragon narrates dragon takedowns: ally/self/enemy branches, steals,
// elder dragons, and the soul-point (3rd) and soul (4th) special cases
// which precede the generic line.
type Dragon struct {
	mark watermark
}

// NewDragon creates the dragon trigger.
func NewDragon() *Dragon { return &Dragon{} }

func (d *Dragon) Name() string { return "dragon" }

func (d *Dragon) Reset() { d.mark.reset() }

func (d *Dragon) Check(t *Tick, prev *CumulativeState) []Result {
	ev := d.mark.latestUnseen(t.Snap.Events, func(ev *domain.GameEvent) bool {
		return ev.Name == domain.EventDragonKill
	})
	if ev == nil {
		return nil
	}
	rel := relate(t, ev.KillerName)
	if rel == relUnknown {
		return nil
	}
	team, _ := t.Snap.TeamOf(ev.KillerName)
	count := t.Snap.DragonKills[team]
	ours := team == t.You.Team

	side := "The enemy team"
	if ours {
		side = "Your team"
	}

	switch {
	case bool(ev.Stolen):
		return []Result{{Text: fmt.Sprintf("%s STOLE the %s dragon! What a smite!", side, ev.DragonType), Salient: true}}
	case ev.DragonType == "Elder":
		return []Result{{Text: fmt.Sprintf("%s has slain the Elder dragon. Execute threat everywhere!", side), Salient: true}}
	case count == 3:
		return []Result{{Text: fmt.Sprintf("%s takes a third dragon and sits at soul point.", side), Salient: true}}
	case count >= 4:
		return []Result{{Text: fmt.Sprintf("%s has claimed the dragon soul!", side), Salient: true}}
	case rel == relSelf:
		return []Result{{Text: fmt.Sprintf("You secured the %s dragon yourself!", ev.DragonType)}}
	default:
		return []Result{{Text: fmt.Sprintf("%s took the %s dragon.", side, ev.DragonType)}}
	}
}

// Baron narrates Baron Nashor takedowns.
type Baron struct {
	mark watermark
}

// NewBaron creates the baron trigger.
func NewBaron() *Baron { return &Baron{} }

func (b *Baron) Name() string { return "baron" }

func (b *Baron) Reset() { b.mark.reset() }

func (b *Baron) Check(t *Tick, prev *CumulativeState) []Result {
	ev := b.mark.latestUnseen(t.Snap.Events, func(ev *domain.GameEvent) bool {
		return ev.Name == domain.EventBaronKill
	})
	if ev == nil {
		return nil
	}
	switch relate(t, ev.KillerName) {
	case relSelf:
		if ev.Stolen {
			return []Result{{Text: "You just STOLE Baron Nashor! Unbelievable smite!", Salient: true}}
		}
		return []Result{{Text: "You landed the killing blow on Baron Nashor. Purple buff incoming."}}
	case relAlly:
		if ev.Stolen {
			return []Result{{Text: "Your team STOLE the Baron from right under them!", Salient: true}}
		}
		return []Result{{Text: "Your team has taken Baron Nashor."}}
	case relEnemy:
		if ev.Stolen {
			return []Result{{Text: "The enemy stole Baron away. Disaster at the pit.", Salient: true}}
		}
		return []Result{{Text: "The enemy team has secured Baron. Play safe for the next few minutes."}}
	}
	return nil
}

// Herald narrates Rift Herald takedowns.
type Herald struct {
	mark watermark
}

// NewHerald creates the herald trigger.
func NewHerald() *Herald { return &Herald{} }

func (h *Herald) Name() string { return "herald" }

func (h *Herald) Reset() { h.mark.reset() }

func (h *Herald) Check(t *Tick, prev *CumulativeState) []Result {
	ev := h.mark.latestUnseen(t.Snap.Events, func(ev *domain.GameEvent) bool {
		return ev.Name == domain.EventHeraldKill
	})
	if ev == nil {
		return nil
	}
	switch relate(t, ev.KillerName) {
	case relSelf:
		return []Result{{Text: "You secured the Rift Herald. Eye of the Herald is yours."}}
	case relAlly:
		return []Result{{Text: "Your team picked up the Rift Herald."}}
	case relEnemy:
		return []Result{{Text: "The enemy has the Rift Herald. Watch your turret plates."}}
	}
	return nil
}

// Atakhan narrates Atakhan takedowns.
type Atakhan struct {
	mark watermark
}

// NewAtakhan creates the atakhan trigger.
func NewAtakhan() *Atakhan { return &Atakhan{} }

func (a *Atakhan) Name() string { return "atakhan" }

func (a *Atakhan) Reset() { a.mark.reset() }

func (a *Atakhan) Check(t *Tick, prev *CumulativeState) []Result {
	ev := a.mark.latestUnseen(t.Snap.Events, func(ev *domain.GameEvent) bool {
		return ev.Name == domain.EventAtakhanKill
	})
	if ev == nil {
		return nil
	}
	switch relate(t, ev.KillerName) {
	case relSelf:
		return []Result{{Text: "You brought down Atakhan! Massive buff secured."}}
	case relAlly:
		return []Result{{Text: "Your team has slain Atakhan."}}
	case relEnemy:
		return []Result{{Text: "Atakhan falls to the enemy team. Careful in the river."}}
	}
	return nil
}

// Ace narrates team aces.
type Ace struct {
	mark watermark
}

// NewAce creates the ace trigger.
func NewAce() *Ace { return &Ace{} }

func (a *Ace) Name() string { return "ace" }

func (a *Ace) Reset() { a.mark.reset() }

func (a *Ace) Check(t *Tick, prev *CumulativeState) []Result {
	ev := a.mark.latestUnseen(t.Snap.Events, func(ev *domain.GameEvent) bool {
		return ev.Name == domain.EventAce
	})
	if ev == nil {
		return nil
	}
	if ev.AcingTeam == t.You.Team {
		return []Result{{Text: fmt.Sprintf("ACE! %s wipes the entire enemy team!", ev.Acer), Salient: true}}
	}
	return []Result{{Text: "Your whole team is down. That's an ace for the enemy.", Salient: true}}
}

// Multikill narrates double through penta kills.
type Multikill struct {
	mark watermark
}

// NewMultikill creates the multikill trigger.
func NewMultikill() *Multikill { return &Multikill{} }

func (m *Multikill) Name() string { return "multikill" }

func (m *Multikill) Reset() { m.mark.reset() }

var multikillNames = map[int]string{
	2: "double kill",
	3: "TRIPLE kill",
	4: "QUADRA kill",
	5: "PENTAKILL",
}

func (m *Multikill) Check(t *Tick, prev *CumulativeState) []Result {
	ev := m.mark.latestUnseen(t.Snap.Events, func(ev *domain.GameEvent) bool {
		return ev.Name == domain.EventMultikill
	})
	if ev == nil {
		return nil
	}
	label, ok := multikillNames[ev.KillStreak]
	if !ok {
		label = fmt.Sprintf("%d-kill streak", ev.KillStreak)
	}
	switch relate(t, ev.KillerName) {
	case relSelf:
		return []Result{{Text: fmt.Sprintf("A %s for you! The crowd goes wild!", label)}}
	case relAlly:
		return []Result{{Text: fmt.Sprintf("%s just got a %s for your team!", ev.KillerName, label)}}
	case relEnemy:
		return []Result{{Text: fmt.Sprintf("%s on the enemy side picked up a %s. They're heating up.", ev.KillerName, label)}}
	}
	return nil
}
