package bridge

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

var t0 = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

type fakePub struct {
	mu   sync.Mutex
	sent []string
}

func (p *fakePub) Publish(subject string, data []byte) error {
	p.mu.Lock()
	p.sent = append(p.sent, subject+": "+string(data))
	p.mu.Unlock()
	return nil
}

func (p *fakePub) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sent...)
}

type fakeGen struct{ reply string }

func (g *fakeGen) Generate(ctx context.Context, prompt, persona string) (string, error) {
	return g.reply, nil
}

type fakeQueue struct {
	mu    sync.Mutex
	items []domain.NarrationRequest
	full  bool
}

func (q *fakeQueue) Push(req domain.NarrationRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return domain.ErrReservedFull
	}
	q.items = append(q.items, req)
	return nil
}

func (q *fakeQueue) pushed() []domain.NarrationRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.NarrationRequest(nil), q.items...)
}

type fakeCtrl struct {
	paused bool
	mode   string
}

func (c *fakeCtrl) Pause()            { c.paused = true }
func (c *fakeCtrl) Resume()           { c.paused = false }
func (c *fakeCtrl) SetMode(m string)  { c.mode = m }
func (c *fakeCtrl) Mode() string      { return c.mode }

type fakeStatus struct{ active, ended bool }

func (s *fakeStatus) GameActive() bool { return s.active }
func (s *fakeStatus) GameEnded() bool  { return s.ended }

func testBridge(pub publisher, gen domain.Generator, queue Pusher, ctrl Controls, status GameStatus) *Bridge {
	b := newBridge(pub, gen, queue, ctrl, status, 7, 10*time.Second, 10*time.Second,
		logger.New(logger.LevelOff, nil))
	b.now = func() time.Time { return t0 }
	b.sleep = func(ctx context.Context, d time.Duration) {}
	return b
}

func TestHandleCommand(t *testing.T) {
	ctrl := &fakeCtrl{mode: "hype"}
	b := testBridge(&fakePub{}, &fakeGen{}, &fakeQueue{}, ctrl, &fakeStatus{})

	b.handleCommand("pause")
	if !ctrl.paused {
		t.Error("pause command should pause")
	}
	b.handleCommand("resume")
	if ctrl.paused {
		t.Error("resume command should resume")
	}
	b.handleCommand("mode coach")
	if ctrl.mode != "coach" {
		t.Errorf("mode = %q, want coach", ctrl.mode)
	}
	// Garbage is ignored, not fatal.
	b.handleCommand("dance")
	b.handleCommand("mode")
}

func TestAskAnswerReachesQueue(t *testing.T) {
	queue := &fakeQueue{}
	b := testBridge(&fakePub{}, &fakeGen{reply: "the dragon wins games"}, queue,
		&fakeCtrl{mode: "hype"}, &fakeStatus{active: true})

	b.answer(context.Background(), askRequest{User: "viewer1", Text: "is dragon worth it?"})

	items := queue.pushed()
	if len(items) != 1 {
		t.Fatalf("pushed %d items, want 1", len(items))
	}
	if items[0].Class != domain.ClassAskAI || items[0].User != "viewer1" {
		t.Errorf("item = %+v", items[0])
	}
	if items[0].Text != "the dragon wins games" {
		t.Errorf("text = %q", items[0].Text)
	}
}

func TestAskWithoutGame(t *testing.T) {
	t.Run("never started", func(t *testing.T) {
		queue := &fakeQueue{}
		b := testBridge(&fakePub{}, &fakeGen{}, queue, &fakeCtrl{}, &fakeStatus{})
		b.answer(context.Background(), askRequest{User: "v", Text: "who's winning?"})

		items := queue.pushed()
		if len(items) != 1 || !strings.Contains(items[0].Text, "no game") {
			t.Fatalf("items = %+v", items)
		}
	})

	t.Run("after game end", func(t *testing.T) {
		queue := &fakeQueue{}
		b := testBridge(&fakePub{}, &fakeGen{}, queue, &fakeCtrl{}, &fakeStatus{ended: true})
		b.answer(context.Background(), askRequest{User: "v", Text: "who won?"})

		items := queue.pushed()
		if len(items) != 1 || !strings.Contains(items[0].Text, "over") {
			t.Fatalf("items = %+v", items)
		}
	})
}

func TestAskCooldownPerUser(t *testing.T) {
	pub := &fakePub{}
	b := testBridge(pub, &fakeGen{}, &fakeQueue{}, &fakeCtrl{}, &fakeStatus{active: true})

	b.enqueueAsk(askRequest{User: "spammer", Text: "q1"})
	b.enqueueAsk(askRequest{User: "spammer", Text: "q2"})
	b.enqueueAsk(askRequest{User: "other", Text: "q3"})

	if len(b.asks) != 2 {
		t.Fatalf("queued %d asks, want 2 (spammer's second refused)", len(b.asks))
	}
	msgs := pub.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "@spammer") {
		t.Fatalf("chat refusals = %v", msgs)
	}

	// Cooldown elapsed: the same user may ask again.
	b.now = func() time.Time { return t0.Add(11 * time.Second) }
	b.enqueueAsk(askRequest{User: "spammer", Text: "q4"})
	if len(b.asks) != 3 {
		t.Fatalf("queued %d asks after cooldown, want 3", len(b.asks))
	}
}

func TestAskBacklogBound(t *testing.T) {
	pub := &fakePub{}
	b := testBridge(pub, &fakeGen{}, &fakeQueue{}, &fakeCtrl{}, &fakeStatus{active: true})

	// Distinct users so cooldown never interferes.
	for i := 0; i < 9; i++ {
		b.enqueueAsk(askRequest{User: string(rune('a' + i)), Text: "q"})
	}
	if len(b.asks) != 7 {
		t.Fatalf("backlog = %d, want the configured bound of 7", len(b.asks))
	}
	refused := 0
	for _, m := range pub.messages() {
		if strings.Contains(m, "queue is full") {
			refused++
		}
	}
	if refused != 2 {
		t.Fatalf("refusals = %d, want 2", refused)
	}
}

func TestRejectedAnswerFallsBackToChat(t *testing.T) {
	pub := &fakePub{}
	queue := &fakeQueue{full: true}
	b := testBridge(pub, &fakeGen{reply: "answer"}, queue, &fakeCtrl{}, &fakeStatus{active: true})

	b.answer(context.Background(), askRequest{User: "v", Text: "q"})

	msgs := pub.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "@v") {
		t.Fatalf("expected a chat fallback, got %v", msgs)
	}
}
