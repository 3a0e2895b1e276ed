package overlay

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/riftcast/riftcast/internal/logger"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := ws.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return msg
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for h.ConnectionCount() != n {
		select {
		case <-deadline:
			t.Fatalf("never reached %d clients (at %d)", n, h.ConnectionCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHubGreetsAndBroadcasts(t *testing.T) {
	h := NewHub("idle", logger.New(logger.LevelOff, nil))
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	a := dial(t, url)
	defer a.Close(websocket.StatusNormalClosure, "")
	b := dial(t, url)
	defer b.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, h, 2)

	// Every client is greeted with the current mood.
	for _, ws := range []*websocket.Conn{a, b} {
		if msg := readMessage(t, ws); msg.Type != "mood" {
			t.Fatalf("greeting type = %q, want mood", msg.Type)
		}
	}

	h.Push(context.Background(), "commentary", map[string]string{"text": "what a play"})
	for _, ws := range []*websocket.Conn{a, b} {
		msg := readMessage(t, ws)
		if msg.Type != "commentary" {
			t.Fatalf("broadcast type = %q", msg.Type)
		}
	}
}

func TestHubDropsDeadClients(t *testing.T) {
	h := NewHub("idle", logger.New(logger.LevelOff, nil))
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ws := dial(t, url)
	waitForClients(t, h, 1)
	ws.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, h, 0)

	// Broadcasting into the void must not panic.
	h.Push(context.Background(), "event", nil)
}

func TestHubShutdownNotifiesClients(t *testing.T) {
	h := NewHub("idle", logger.New(logger.LevelOff, nil))
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ws := dial(t, url)
	defer ws.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, h, 1)
	readMessage(t, ws) // greeting

	h.Shutdown(context.Background())

	msg := readMessage(t, ws)
	if msg.Type != "system" {
		t.Fatalf("shutdown message type = %q, want system", msg.Type)
	}
	if h.ConnectionCount() != 0 {
		t.Errorf("connections after shutdown = %d", h.ConnectionCount())
	}
}
