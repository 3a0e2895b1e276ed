// Package monitor owns the poll loop and the game lifecycle: it is the
// single writer of the cumulative state, decides when a game starts,
// ends or restarts, and feeds each tick through the trigger bank.
package monitor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riftcast/riftcast/internal/commentary"
	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
	"github.com/riftcast/riftcast/internal/trigger"
)

// Tracker assigns an identifier to each new game. Implemented by the
// memory game tracker; nil falls back to timestamp ids.
type Tracker interface {
	StartGame(ctx context.Context) (string, error)
}

// Submitter receives each tick's trigger results. Implemented by the
// commentary scheduler.
type Submitter interface {
	Submit(results []trigger.Result, recap string)
	SetGameID(id string)
	Reset()
}

// A fresh client reports near-zero game time; seeing that after a
// mature timestamp means a new game started behind our back.
const (
	restartYoungerThan = 10.0
	restartOlderThan   = 30.0
)

// Monitor drives the snapshot source on a fixed interval and manages
// game lifecycle transitions.
type Monitor struct {
	source  domain.SnapshotSource
	bank    *trigger.Bank
	sched   Submitter
	overlay domain.OverlaySink
	tracker Tracker
	log     *logger.Logger

	pollInterval time.Duration
	grace        time.Duration

	state       trigger.CumulativeState
	gameID      string
	endedAt     time.Time
	featsPushed bool
	fallbackSeq int

	// Mirrors of the lifecycle flags for readers outside the poll
	// goroutine (the askai path).
	active atomic.Bool
	ended  atomic.Bool
}

// New creates a monitor. grace is how long trigger and cumulative
// state outlive the end of a game, so end-of-game narration still has
// context to draw on.
func New(source domain.SnapshotSource, bank *trigger.Bank, sched Submitter,
	overlay domain.OverlaySink, tracker Tracker,
	pollInterval, grace time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{
		source:       source,
		bank:         bank,
		sched:        sched,
		overlay:      overlay,
		tracker:      tracker,
		log:          log,
		pollInterval: pollInterval,
		grace:        grace,
	}
}

// GameEnded reports whether the last observed game is over. Read by
// the askai path to answer "is a game running" truthfully after
// teardown.
func (m *Monitor) GameEnded() bool { return m.ended.Load() }

// GameActive reports whether a game is currently being tracked.
func (m *Monitor) GameActive() bool { return m.active.Load() }

// Run polls until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()
	m.log.Info("monitor started (poll=%s)", m.pollInterval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.step(ctx, now)
		}
	}
}

// step processes one poll tick. All lifecycle decisions happen here,
// on a single goroutine; nothing else writes the cumulative state.
func (m *Monitor) step(ctx context.Context, now time.Time) {
	snap, err := m.source.Fetch(ctx)
	if err != nil {
		// Transient: the client drops requests during loading screens
		// and hiccups. State holds; the next tick retries.
		m.log.Debug("snapshot fetch failed, retrying next tick: %v", err)
		return
	}
	if !snap.Alive() {
		if m.state.Initialized && !m.state.GameEnded {
			m.log.Info("live client reports no active game, ending game %s", m.gameID)
			m.state.GameEnded = true
			m.ended.Store(true)
			m.endedAt = now
		}
		if m.state.GameEnded && !m.endedAt.IsZero() && now.Sub(m.endedAt) >= m.grace {
			m.teardown()
		}
		return
	}

	you := snap.ActivePlayer()
	if you == nil {
		m.log.Debug("active player %q not in roster", snap.ActiveRiotID)
		return
	}

	tick := &trigger.Tick{
		Snap:     snap,
		You:      you,
		GoldDiff: snap.TeamGold[you.Team] - snap.TeamGold[you.Team.Opponent()],
		Now:      now,
	}

	if m.state.Initialized && snap.GameTime < restartYoungerThan && m.state.LastGameTime > restartOlderThan {
		m.log.Info("game timer regressed (%.0fs -> %.0fs), restarting lifecycle",
			m.state.LastGameTime, snap.GameTime)
		// Clearing drops Initialized, so startGame runs below and
		// performs the one engine reset for the new game.
		m.state.Clear(false)
	}

	if !m.state.Initialized {
		m.startGame(ctx, tick)
		return
	}

	// Teardown grace expired while the client kept serving the
	// post-game lobby.
	if m.state.GameEnded && !m.endedAt.IsZero() && now.Sub(m.endedAt) >= m.grace {
		m.teardown()
		return
	}

	results := m.bank.Engine.Check(tick, &m.state)
	if m.sawGameEnd(snap) && !m.state.GameEnded {
		m.state.GameEnded = true
		m.ended.Store(true)
		m.endedAt = now
		m.log.Info("game %s ended, holding state for %s", m.gameID, m.grace)
	}
	if len(results) > 0 {
		m.sched.Submit(results, commentary.BuildRecap(snap, you, tick.GoldDiff))
	}

	m.state.Update(tick)
	m.pushRatings(ctx, snap)

	if winner, ok := m.bank.Feats.Winner(); ok && !m.featsPushed {
		m.featsPushed = true
		m.overlay.Push(ctx, "feats", map[string]string{"winner": string(winner)})
	}
}

// startGame seeds the cumulative state from the tick's absolute
// values. The seed tick never narrates; deltas need a baseline.
func (m *Monitor) startGame(ctx context.Context, tick *trigger.Tick) {
	m.bank.Engine.Reset()
	m.state.Seed(tick)
	m.active.Store(true)
	m.ended.Store(false)
	m.endedAt = time.Time{}
	m.featsPushed = false
	m.sched.Reset()

	// Prime every detector's baseline off the seed tick and throw the
	// output away: score and events that predate us are not deltas.
	m.bank.Engine.Check(tick, &m.state)

	m.gameID = m.newGameID(ctx)
	m.sched.SetGameID(m.gameID)
	m.log.Info("game %s started: %s as %s (%s), t=%.0fs",
		m.gameID, tick.You.SummonerName, tick.You.ChampionName, tick.You.Team, tick.Snap.GameTime)
	m.overlay.Push(ctx, "mood", map[string]string{"state": "in-game"})
}

func (m *Monitor) teardown() {
	m.bank.Engine.Reset()
	m.state.Clear(true)
	m.active.Store(false)
	m.endedAt = time.Time{}
	m.gameID = ""
}

func (m *Monitor) newGameID(ctx context.Context) string {
	if m.tracker != nil {
		if id, err := m.tracker.StartGame(ctx); err == nil {
			return id
		} else {
			m.log.Warn("game tracker failed, using timestamp id: %v", err)
		}
	}
	// The sequence keeps ids distinct when two games start within the
	// same second (a remake followed by an instant requeue).
	m.fallbackSeq++
	return fmt.Sprintf("game_%d_%d", time.Now().Unix(), m.fallbackSeq)
}

// sawGameEnd scans the event list for the nexus falling. The trigger
// bank narrates it; the monitor only flips the lifecycle flag.
func (m *Monitor) sawGameEnd(snap *domain.Snapshot) bool {
	for i := len(snap.Events) - 1; i >= 0; i-- {
		if snap.Events[i].Name == domain.EventGameEnd {
			return true
		}
	}
	return false
}
