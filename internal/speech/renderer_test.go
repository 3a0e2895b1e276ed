package speech

import (
	"context"
	"testing"

	"github.com/riftcast/riftcast/internal/logger"
)

type fakeSynth struct {
	calls int
	wav   []byte
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls++
	return f.wav, nil
}

type fakePlayback struct {
	played [][]byte
}

func (f *fakePlayback) Play(ctx context.Context, wav []byte) error {
	f.played = append(f.played, wav)
	return nil
}

func quiet() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestRendererCachesSynthesis(t *testing.T) {
	cache, err := NewAudioCache("test-voice", t.TempDir(), quiet())
	if err != nil {
		t.Fatalf("NewAudioCache: %v", err)
	}
	defer cache.Close()

	synth := &fakeSynth{wav: []byte("fake-wav")}
	play := &fakePlayback{}
	r := NewRenderer(synth, cache, play, quiet())

	for i := 0; i < 3; i++ {
		if err := r.Render(context.Background(), "welcome to the rift"); err != nil {
			t.Fatalf("Render %d: %v", i, err)
		}
	}

	if synth.calls != 1 {
		t.Errorf("synthesized %d times, want 1 (cache should serve repeats)", synth.calls)
	}
	if len(play.played) != 3 {
		t.Errorf("played %d times, want 3", len(play.played))
	}
}

func TestRendererSkipsEmptyText(t *testing.T) {
	synth := &fakeSynth{wav: []byte("x")}
	play := &fakePlayback{}
	r := NewRenderer(synth, nil, play, quiet())

	if err := r.Render(context.Background(), ""); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if synth.calls != 0 || len(play.played) != 0 {
		t.Error("empty text must not synthesize or play")
	}
}

func TestCacheIsVoiceScoped(t *testing.T) {
	dir := t.TempDir()
	a, err := NewAudioCache("voice-a", dir, quiet())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := NewAudioCache("voice-b", dir, quiet())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	a.Put("hello", []byte("audio-a"))
	if _, ok := b.Get("hello"); ok {
		t.Error("different voice must not share cache entries")
	}
	if got, ok := a.Get("hello"); !ok || string(got) != "audio-a" {
		t.Errorf("same voice should hit: %q, %v", got, ok)
	}
}

func TestCacheDiskTierSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	first, err := NewAudioCache("v", dir, quiet())
	if err != nil {
		t.Fatal(err)
	}
	first.Put("gg", []byte("wav-bytes"))
	first.Close()

	second, err := NewAudioCache("v", dir, quiet())
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	if got, ok := second.Get("gg"); !ok || string(got) != "wav-bytes" {
		t.Errorf("disk tier should warm-start a new cache: %q, %v", got, ok)
	}
}

func TestExtractPCM(t *testing.T) {
	// Minimal RIFF container: header, a junk chunk, then data.
	wav := []byte("RIFF\x00\x00\x00\x00WAVE")
	wav = append(wav, []byte("junk\x04\x00\x00\x00abcd")...)
	wav = append(wav, []byte("data\x03\x00\x00\x00pcm")...)
	// Pad to the minimum length.
	for len(wav) < 44 {
		wav = append(wav, 0)
	}

	pcm, err := extractPCM(wav)
	if err != nil {
		t.Fatalf("extractPCM: %v", err)
	}
	if string(pcm) != "pcm" {
		t.Errorf("pcm = %q, want %q", pcm, "pcm")
	}

	if _, err := extractPCM([]byte("too short")); err == nil {
		t.Error("short input should error")
	}
}
