package domain

import "context"

// SnapshotSource supplies one fresh game snapshot per call.
// Implementations poll the Live Client Data API; a transient failure is
// returned as an error and means "try again next tick".
type SnapshotSource interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Generator turns a prompt into narration text. Implementations call an
// external chat-completions service.
type Generator interface {
	Generate(ctx context.Context, prompt, persona string) (string, error)
}

// SpeechRenderer synthesizes and plays one utterance, blocking until
// playback finishes. The no-op implementation is used when audio or
// credentials are unavailable.
type SpeechRenderer interface {
	Render(ctx context.Context, text string) error
}

// ChatSink pushes a line to the stream chat. Fire-and-forget; failures
// must never affect the delivery pipeline.
type ChatSink interface {
	Send(ctx context.Context, message string) error
}

// OverlaySink pushes typed messages to connected overlay clients.
// Delivery failure to one client must not affect others.
type OverlaySink interface {
	Push(ctx context.Context, msgType string, payload any)
}

// Snippet is one ranked memory result.
type Snippet struct {
	Content string
	Kind    string
	GameID  string
}

// MemoryFilter narrows a memory query. Zero values mean "any".
type MemoryFilter struct {
	GameID string
	Kind   string
}

// MemoryStore records narration history and serves ranked snippets used
// to enrich generation prompts. It is never on the emission critical
// path: empty results degrade to "no extra context".
type MemoryStore interface {
	Add(ctx context.Context, content, kind, gameID string) error
	Query(ctx context.Context, text string, filter MemoryFilter, limit int) ([]Snippet, error)
}
