// Package overlay serves the stream overlay over a local websocket and
// broadcasts typed messages to every connected page.
package overlay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

// Message is the envelope every overlay client receives.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// conn wraps a single overlay connection.
type conn struct {
	ws     *websocket.Conn
	cancel context.CancelFunc
}

// Hub accepts overlay connections and fans broadcasts out to them. A
// slow or dead client is dropped; it never delays the others.
type Hub struct {
	log  *logger.Logger
	mood string

	mu    sync.RWMutex
	conns map[*conn]struct{}
}

var _ domain.OverlaySink = (*Hub)(nil)

// NewHub creates an overlay hub. mood is the state pushed to every
// client right after it connects, so a freshly opened overlay renders
// something before the first live broadcast.
func NewHub(mood string, log *logger.Logger) *Hub {
	return &Hub{
		log:   log,
		mood:  mood,
		conns: make(map[*conn]struct{}),
	}
}

// Handler returns the websocket upgrade handler to mount on the
// overlay server.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// The overlay is a local browser source; origin checks
			// would only reject OBS.
			InsecureSkipVerify: true,
		})
		if err != nil {
			h.log.Warn("overlay accept failed: %v", err)
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		c := &conn{ws: ws, cancel: cancel}

		h.mu.Lock()
		h.conns[c] = struct{}{}
		total := len(h.conns)
		h.mu.Unlock()
		h.log.Info("overlay client connected (%d active)", total)

		h.send(ctx, c, Message{Type: "mood", Payload: map[string]string{"state": h.mood}})

		// Read loop to notice disconnects and drain pings.
		go func() {
			defer func() {
				h.remove(c)
				ws.Close(websocket.StatusNormalClosure, "")
			}()
			for {
				if _, _, err := ws.Read(ctx); err != nil {
					return
				}
			}
		}()
	})
}

// Push implements domain.OverlaySink.
func (h *Hub) Push(ctx context.Context, msgType string, payload any) {
	h.Broadcast(ctx, Message{Type: msgType, Payload: payload})
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(ctx context.Context, msg Message) {
	h.mu.RLock()
	conns := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		h.send(ctx, c, msg)
	}
}

func (h *Hub) send(ctx context.Context, c *conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("overlay marshal failed: %v", err)
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.ws.Write(writeCtx, websocket.MessageText, data); err != nil {
		h.log.Debug("overlay write failed, dropping client: %v", err)
		h.remove(c)
	}
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	if _, ok := h.conns[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c)
	total := len(h.conns)
	h.mu.Unlock()

	c.cancel()
	h.log.Info("overlay client disconnected (%d active)", total)
}

// ConnectionCount returns the number of connected overlay clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Shutdown tells clients the backend is going away, then closes every
// connection. Called synchronously before process exit so the overlay
// shows a disconnect notice instead of freezing mid-game.
func (h *Hub) Shutdown(ctx context.Context) {
	h.Broadcast(ctx, Message{Type: "system", Payload: map[string]string{"state": "disconnected"}})

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		c.cancel()
		c.ws.Close(websocket.StatusGoingAway, "shutting down")
		delete(h.conns, c)
	}
	h.log.Info("overlay hub shut down")
}
