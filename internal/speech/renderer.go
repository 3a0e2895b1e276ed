package speech

import (
	"context"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

// Playback plays WAV bytes to completion. Satisfied by Player.
type Playback interface {
	Play(ctx context.Context, wav []byte) error
}

// Compile-time interface checks.
var (
	_ domain.SpeechRenderer = (*Renderer)(nil)
	_ domain.SpeechRenderer = (*NoOp)(nil)
)

// Renderer is the full speech path: cache lookup, synthesis on miss,
// playback. Render blocks until the audio finishes, which is what
// keeps commentary lines from talking over each other.
type Renderer struct {
	synth  Synthesizer
	cache  *AudioCache
	player Playback
	log    *logger.Logger
}

// NewRenderer wires synthesis, cache and playback into a renderer.
// cache may be nil to synthesize every time.
func NewRenderer(synth Synthesizer, cache *AudioCache, player Playback, log *logger.Logger) *Renderer {
	return &Renderer{synth: synth, cache: cache, player: player, log: log}
}

// Render speaks one utterance.
func (r *Renderer) Render(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	var wav []byte
	if r.cache != nil {
		if cached, ok := r.cache.Get(text); ok {
			wav = cached
		}
	}
	if wav == nil {
		synthesized, err := r.synth.Synthesize(ctx, text)
		if err != nil {
			return err
		}
		wav = synthesized
		if r.cache != nil {
			r.cache.Put(text, wav)
		}
	}
	return r.player.Play(ctx, wav)
}

// NoOp is the renderer used when audio or credentials are missing:
// narration still flows to chat and overlay, nothing is spoken.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op renderer.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Render logs the line instead of speaking it.
func (n *NoOp) Render(ctx context.Context, text string) error {
	n.log.Debug("speech no-op: would say %q", text)
	return nil
}
