// Package bridge connects riftcast to the stream chat over NATS:
// narration lines go out, viewer commands and questions come in.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/riftcast/riftcast/internal/commentary"
	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

// Subjects the bridge speaks on. The chat-bot side mirrors these.
const (
	SubjectChatOut = "riftcast.chat.out"
	SubjectCommand = "riftcast.cmd"
	SubjectAsk     = "riftcast.ask"
)

// Controls is the slice of the scheduler the command surface drives.
type Controls interface {
	Pause()
	Resume()
	SetMode(mode string)
	Mode() string
}

// GameStatus answers "is a game running". Implemented by the monitor.
type GameStatus interface {
	GameActive() bool
	GameEnded() bool
}

// Pusher accepts narration requests. Implemented by the output queue.
type Pusher interface {
	Push(domain.NarrationRequest) error
}

// publisher is the outbound slice of a NATS connection.
type publisher interface {
	Publish(subject string, data []byte) error
}

// askRequest is an inbound viewer question.
type askRequest struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Bridge owns the NATS connection, the command surface, and the askai
// worker that answers viewer questions one at a time.
type Bridge struct {
	nc     *nats.Conn
	pub    publisher
	gen    domain.Generator
	queue  Pusher
	ctrl   Controls
	status GameStatus
	log    *logger.Logger

	askDelay    time.Duration
	askCooldown time.Duration
	asks        chan askRequest

	mu       sync.Mutex
	lastAsk  map[string]time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration)
}

// Connect dials NATS and builds the bridge. askLimit bounds the
// question backlog; questions beyond it are refused in chat instead
// of queueing forever.
func Connect(url string, gen domain.Generator, queue Pusher, ctrl Controls, status GameStatus,
	askLimit int, askDelay, askCooldown time.Duration, log *logger.Logger) (*Bridge, error) {
	nc, err := nats.Connect(url, nats.Name("riftcast"))
	if err != nil {
		return nil, fmt.Errorf("bridge: nats connect: %w", err)
	}
	log.Info("nats connected: %s", url)

	b := newBridge(nc, gen, queue, ctrl, status, askLimit, askDelay, askCooldown, log)
	b.nc = nc
	return b, nil
}

func newBridge(pub publisher, gen domain.Generator, queue Pusher, ctrl Controls, status GameStatus,
	askLimit int, askDelay, askCooldown time.Duration, log *logger.Logger) *Bridge {
	return &Bridge{
		pub:         pub,
		gen:         gen,
		queue:       queue,
		ctrl:        ctrl,
		status:      status,
		log:         log,
		askDelay:    askDelay,
		askCooldown: askCooldown,
		asks:        make(chan askRequest, askLimit),
		lastAsk:     make(map[string]time.Time),
		now:         time.Now,
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
	}
}

var _ domain.ChatSink = (*Bridge)(nil)

// Send implements domain.ChatSink by publishing to the outbound chat
// subject.
func (b *Bridge) Send(ctx context.Context, message string) error {
	if err := b.pub.Publish(SubjectChatOut, []byte(message)); err != nil {
		return fmt.Errorf("bridge: publish chat: %w", err)
	}
	return nil
}

// Run subscribes to the inbound subjects and serves viewer questions
// until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	cmdSub, err := b.nc.Subscribe(SubjectCommand, func(msg *nats.Msg) {
		b.handleCommand(string(msg.Data))
	})
	if err != nil {
		return fmt.Errorf("bridge: subscribe %s: %w", SubjectCommand, err)
	}
	defer cmdSub.Unsubscribe()

	askSub, err := b.nc.Subscribe(SubjectAsk, func(msg *nats.Msg) {
		var req askRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			b.log.Warn("bad ask payload: %v", err)
			return
		}
		b.enqueueAsk(req)
	})
	if err != nil {
		return fmt.Errorf("bridge: subscribe %s: %w", SubjectAsk, err)
	}
	defer askSub.Unsubscribe()

	b.log.Info("bridge listening (%s, %s)", SubjectCommand, SubjectAsk)
	return b.serveAsks(ctx)
}

// Close drains and closes the NATS connection.
func (b *Bridge) Close() {
	if b.nc != nil {
		b.nc.Drain()
	}
}

// handleCommand applies one chat command. Unknown commands are logged
// and ignored; the chat side validates syntax.
func (b *Bridge) handleCommand(cmd string) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	switch verb {
	case "pause":
		b.ctrl.Pause()
		b.log.Info("commentary paused by chat")
	case "resume":
		b.ctrl.Resume()
		b.log.Info("commentary resumed by chat")
	case "mode":
		if arg == "" {
			b.log.Warn("mode command without argument")
			return
		}
		b.ctrl.SetMode(arg)
		b.log.Info("commentary mode set to %s by chat", arg)
	default:
		b.log.Warn("unknown command %q", verb)
	}
}

// enqueueAsk admits a question into the worker queue, refusing in chat
// when the asker is on cooldown or the backlog is full.
func (b *Bridge) enqueueAsk(req askRequest) {
	if req.User == "" || strings.TrimSpace(req.Text) == "" {
		return
	}

	b.mu.Lock()
	last, seen := b.lastAsk[req.User]
	now := b.now()
	if seen && now.Sub(last) < b.askCooldown {
		b.mu.Unlock()
		b.chat(fmt.Sprintf("@%s easy there, one question every %d seconds.", req.User, int(b.askCooldown.Seconds())))
		return
	}
	b.lastAsk[req.User] = now
	b.mu.Unlock()

	select {
	case b.asks <- req:
		b.log.Debug("ask from %s queued (%d waiting)", req.User, len(b.asks))
	default:
		b.chat(fmt.Sprintf("@%s the question queue is full, try again in a bit.", req.User))
	}
}

// serveAsks answers queued questions one at a time with a fixed pause
// between answers, so askai never floods the narration queue.
func (b *Bridge) serveAsks(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-b.asks:
			b.answer(ctx, req)
			b.sleep(ctx, b.askDelay)
		}
	}
}

func (b *Bridge) answer(ctx context.Context, req askRequest) {
	if !b.status.GameActive() {
		text := "There's no game running right now, ask me once we're on the Rift."
		if b.status.GameEnded() {
			text = "The game is over! Ask me again when the next one starts."
		}
		b.pushAnswer(req.User, text)
		return
	}

	prompt := fmt.Sprintf("A viewer called %s asks: %s\nAnswer them directly, in character, in one or two sentences.",
		req.User, req.Text)
	text, err := b.gen.Generate(ctx, prompt, commentary.Persona(b.ctrl.Mode()))
	if err != nil {
		b.log.Warn("ask generation failed for %s: %v", req.User, err)
		b.chat(fmt.Sprintf("@%s I choked on that one, ask again.", req.User))
		return
	}
	b.pushAnswer(req.User, strings.TrimSpace(text))
}

func (b *Bridge) pushAnswer(user, text string) {
	err := b.queue.Push(domain.NarrationRequest{
		Class:    domain.ClassAskAI,
		User:     user,
		Text:     text,
		QueuedAt: b.now(),
	})
	if err != nil {
		b.log.Warn("queue rejected ask answer: %v", err)
		b.chat(fmt.Sprintf("@%s the caster is swamped, answer dropped.", user))
	}
}

func (b *Bridge) chat(message string) {
	if err := b.pub.Publish(SubjectChatOut, []byte(message)); err != nil {
		b.log.Warn("chat publish failed: %v", err)
	}
}
