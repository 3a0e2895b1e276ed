package output

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

// Consumer drains the queue one item at a time: fan out text to chat
// and overlay, render speech to completion, signal the overlay to hide,
// pause briefly, repeat. Exactly one consumer runs per process; the
// busy flag it maintains is how the scheduler knows the pipeline is
// idle.
type Consumer struct {
	queue   *Queue
	speech  domain.SpeechRenderer
	chat    domain.ChatSink
	overlay domain.OverlaySink
	delay   time.Duration
	log     *logger.Logger

	busy atomic.Bool
}

// NewConsumer wires a consumer over the queue and the delivery sinks.
func NewConsumer(queue *Queue, speech domain.SpeechRenderer, chat domain.ChatSink, overlay domain.OverlaySink, delay time.Duration, log *logger.Logger) *Consumer {
	return &Consumer{
		queue:   queue,
		speech:  speech,
		chat:    chat,
		overlay: overlay,
		delay:   delay,
		log:     log,
	}
}

// Idle reports whether the pipeline has nothing in flight and nothing
// queued. The scheduler gates flushes on this.
func (c *Consumer) Idle() bool {
	return !c.busy.Load() && c.queue.Len() == 0
}

// Run drains the queue until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("output consumer started")
	for {
		// busy goes up before Pop: the moment an item leaves the queue
		// it is in flight, and Idle must already say so.
		c.busy.Store(true)
		req, ok := c.queue.Pop()
		if !ok {
			c.busy.Store(false)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.queue.Wait():
				continue
			}
		}

		c.deliver(ctx, req)
		c.busy.Store(false)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}
	}
}

// deliver pushes one utterance through every sink. Chat and overlay are
// fire-and-forget; only speech is awaited, because overlapping audio is
// the one failure the queue exists to prevent.
func (c *Consumer) deliver(ctx context.Context, req domain.NarrationRequest) {
	waited := time.Since(req.QueuedAt).Round(time.Millisecond)
	c.log.Debug("delivering %s item (waited %s): %s", req.Class, waited, req.Text)

	line := req.Text
	if req.Class == domain.ClassAskAI && req.User != "" {
		line = fmt.Sprintf("@%s %s", req.User, req.Text)
	}

	go func() {
		if err := c.chat.Send(ctx, line); err != nil {
			c.log.Warn("chat send failed: %v", err)
		}
	}()
	c.overlay.Push(ctx, req.Class.String(), map[string]string{
		"text": req.Text,
		"user": req.User,
	})

	if err := c.speech.Render(ctx, req.Text); err != nil {
		c.log.Warn("speech render failed: %v", err)
	}
	c.overlay.Push(ctx, "hide", nil)
}
