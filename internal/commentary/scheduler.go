package commentary

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
	"github.com/riftcast/riftcast/internal/trigger"
)

// Pusher accepts a narration request for delivery. Implemented by the
// output queue.
type Pusher interface {
	Push(domain.NarrationRequest) error
}

// IdleReporter reports whether the delivery pipeline is idle.
// Implemented by the output consumer.
type IdleReporter interface {
	Idle() bool
}

// Scheduler buffers trigger results between flushes and turns each
// window's worth of events into a single generated caster line. Events
// arriving while a window waits out the cooldown are coalesced into
// the same prompt; they are never narrated one by one.
type Scheduler struct {
	gen    domain.Generator
	queue  Pusher
	idle   IdleReporter
	memory domain.MemoryStore // nil disables prompt enrichment
	log    *logger.Logger
	rng    *rand.Rand

	flushInterval time.Duration
	cooldown      time.Duration

	paused atomic.Bool

	mu        sync.Mutex
	mode      string
	gameID    string
	buffer    []string
	recap     string
	lastFlush time.Time
}

// NewScheduler creates a scheduler. flushInterval is how often the
// flush conditions are re-checked; cooldown is the minimum spacing
// between generated commentary lines.
func NewScheduler(gen domain.Generator, queue Pusher, idle IdleReporter, memory domain.MemoryStore,
	mode string, flushInterval, cooldown time.Duration, rng *rand.Rand, log *logger.Logger) *Scheduler {
	if !KnownMode(mode) {
		log.Warn("unknown commentary mode %q, using default persona", mode)
	}
	return &Scheduler{
		gen:           gen,
		queue:         queue,
		idle:          idle,
		memory:        memory,
		log:           log,
		rng:           rng,
		flushInterval: flushInterval,
		cooldown:      cooldown,
		mode:          mode,
	}
}

// Submit buffers a batch of trigger results together with the current
// game recap. A salient result expires the cooldown so the next flush
// check can fire immediately. While paused, results are dropped.
func (s *Scheduler) Submit(results []trigger.Result, recap string) {
	if len(results) == 0 {
		return
	}
	if s.paused.Load() {
		s.log.Debug("paused, dropping %d trigger results", len(results))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range results {
		s.buffer = append(s.buffer, r.Text)
		if r.Salient {
			s.lastFlush = time.Time{}
		}
	}
	s.recap = recap
	s.log.Debug("buffered %d results, window now holds %d", len(results), len(s.buffer))
}

// Pause stops new results from entering the buffer. Already-buffered
// results still flush.
func (s *Scheduler) Pause() { s.paused.Store(true) }

// Resume lifts a pause.
func (s *Scheduler) Resume() { s.paused.Store(false) }

// Paused reports the pause state.
func (s *Scheduler) Paused() bool { return s.paused.Load() }

// SetMode switches the commentary persona for subsequent flushes.
func (s *Scheduler) SetMode(mode string) {
	if !KnownMode(mode) {
		s.log.Warn("unknown commentary mode %q, using default persona", mode)
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// Mode returns the active commentary mode.
func (s *Scheduler) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetIdle installs the pipeline idleness gate. Must be called before
// Run; the consumer is built after the scheduler, so it cannot be a
// constructor argument.
func (s *Scheduler) SetIdle(idle IdleReporter) {
	s.mu.Lock()
	s.idle = idle
	s.mu.Unlock()
}

// SetGameID tags subsequent memory writes and queries with a game.
func (s *Scheduler) SetGameID(id string) {
	s.mu.Lock()
	s.gameID = id
	s.mu.Unlock()
}

// Reset drops any buffered window and rearms the cooldown so a new
// game's first window can flush without waiting.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	s.buffer = nil
	s.recap = ""
	s.lastFlush = time.Time{}
	s.mu.Unlock()
}

// Run re-checks the flush conditions on a fixed interval until the
// context is cancelled. The interval is deliberately shorter than the
// snapshot poll so a ready window never waits a full poll cycle.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()
	s.log.Info("commentary scheduler started (mode=%s, cooldown=%s)", s.Mode(), s.cooldown)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.maybeFlush(ctx, now)
		}
	}
}

// maybeFlush flushes the window when all three conditions hold: the
// buffer is non-empty, the pipeline is idle, and the cooldown has
// elapsed. The buffer is cleared at the moment of the attempt; a
// failed generation drops the window rather than replaying stale
// events later.
func (s *Scheduler) maybeFlush(ctx context.Context, now time.Time) {
	s.mu.Lock()
	if s.idle == nil || len(s.buffer) == 0 || !s.idle.Idle() ||
		(!s.lastFlush.IsZero() && now.Sub(s.lastFlush) < s.cooldown) {
		s.mu.Unlock()
		return
	}
	events := s.buffer
	recap, mode, gameID := s.recap, s.mode, s.gameID
	s.buffer = nil
	s.lastFlush = now
	s.mu.Unlock()

	prompt := s.buildPrompt(ctx, events, recap, mode, gameID)
	text, err := s.gen.Generate(ctx, prompt, Persona(mode))
	if err != nil {
		s.log.Warn("generation failed, dropping window of %d events: %v", len(events), err)
		return
	}

	if err := s.queue.Push(domain.NarrationRequest{
		Class:    domain.ClassGame,
		Text:     strings.TrimSpace(text),
		QueuedAt: now,
	}); err != nil {
		s.log.Warn("queue rejected commentary: %v", err)
		return
	}
	s.remember(ctx, events, text, gameID)
}

func (s *Scheduler) buildPrompt(ctx context.Context, events []string, recap, mode, gameID string) string {
	var b strings.Builder
	b.WriteString(opener(mode, s.rng))
	b.WriteString("\n\nRecent events:\n")
	for _, e := range events {
		b.WriteString("- ")
		b.WriteString(e)
		b.WriteByte('\n')
	}
	if recap != "" {
		b.WriteString("\nGame state:\n")
		b.WriteString(recap)
		b.WriteByte('\n')
	}

	if s.memory != nil {
		snippets, err := s.memory.Query(ctx, strings.Join(events, " "),
			domain.MemoryFilter{GameID: gameID}, 3)
		if err != nil {
			s.log.Debug("memory query failed: %v", err)
		} else if len(snippets) > 0 {
			b.WriteString("\nEarlier this game you said:\n")
			for _, sn := range snippets {
				b.WriteString("- ")
				b.WriteString(sn.Content)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// remember records both sides of the exchange. Memory failures are
// logged and swallowed; narration never depends on the store.
func (s *Scheduler) remember(ctx context.Context, events []string, text, gameID string) {
	if s.memory == nil {
		return
	}
	if err := s.memory.Add(ctx, strings.Join(events, "; "), "events", gameID); err != nil {
		s.log.Debug("memory add failed: %v", err)
	}
	if err := s.memory.Add(ctx, text, "commentary", gameID); err != nil {
		s.log.Debug("memory add failed: %v", err)
	}
}
