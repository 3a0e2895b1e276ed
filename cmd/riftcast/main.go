// riftcast is a live game-state narration pipeline for League streams.
//
// Usage:
//
//	riftcast [-verbose] [-quiet] [-no-speech] [-no-bridge]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/riftcast/riftcast/internal/bridge"
	"github.com/riftcast/riftcast/internal/commentary"
	"github.com/riftcast/riftcast/internal/config"
	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/gen"
	"github.com/riftcast/riftcast/internal/liveclient"
	"github.com/riftcast/riftcast/internal/logger"
	"github.com/riftcast/riftcast/internal/memory"
	"github.com/riftcast/riftcast/internal/monitor"
	"github.com/riftcast/riftcast/internal/output"
	"github.com/riftcast/riftcast/internal/overlay"
	"github.com/riftcast/riftcast/internal/speech"
	"github.com/riftcast/riftcast/internal/trigger"
)

// How long trigger state survives the end of a game.
const endGrace = 30 * time.Second

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (default: stderr)")
	noSpeech := flag.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	noBridge := flag.Bool("no-bridge", false, "run without the NATS chat bridge")
	noMemory := flag.Bool("no-memory", false, "run without the SQLite memory store")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *noSpeech, *noBridge, *noMemory); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("riftcast exited: %v", err)
		os.Exit(1)
	}
	log.Info("riftcast stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, noSpeech, noBridge, noMemory bool) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Overlay hub first: everything downstream pushes to it.
	hub := overlay.NewHub("idle", log)
	overlaySrv := &http.Server{Addr: cfg.OverlayAddr, Handler: hub.Handler()}

	// Speech path, degrading to the no-op renderer when credentials or
	// the audio device are missing.
	var renderer domain.SpeechRenderer = speech.NewNoOp(log)
	if cfg.SpeechKey != "" && cfg.SpeechRegion != "" && !noSpeech {
		player, err := speech.NewPlayer(log)
		if err != nil {
			log.Error("audio player init failed, speech disabled: %v", err)
		} else {
			cache, err := speech.NewAudioCache(cfg.Voice, cfg.CacheDir, log)
			if err != nil {
				return fmt.Errorf("audio cache: %w", err)
			}
			defer cache.Close()
			synth := speech.NewAzureClient(cfg.SpeechKey, cfg.SpeechRegion, cfg.Voice, log)
			renderer = speech.NewRenderer(synth, cache, player, log)
			log.Info("TTS enabled (voice=%s, region=%s)", cfg.Voice, cfg.SpeechRegion)
		}
	} else if !noSpeech {
		log.Info("TTS disabled: set AZURE_SPEECH_KEY and AZURE_SPEECH_REGION to enable")
	}

	// Memory store and game tracker.
	var store domain.MemoryStore
	var tracker monitor.Tracker
	if !noMemory {
		s, err := memory.Open(cfg.MemoryPath, log)
		if err != nil {
			return fmt.Errorf("memory store: %w", err)
		}
		defer s.Close()
		store = s
		tracker = s
	}

	generator := gen.NewClient(cfg.GenEndpoint, cfg.GenAPIKey, log, gen.WithModel(cfg.GenModel))

	// The chat sink comes from the bridge when it is up; otherwise
	// narration only reaches speech and overlay.
	var chat domain.ChatSink = noopChat{}

	queue := output.NewQueue(cfg.QueueMax, cfg.QueueReserved, log)
	sched := commentary.NewScheduler(generator, queue, nil, store,
		cfg.Mode, cfg.FlushInterval, cfg.GameCooldown, rng, log)

	source := liveclient.New(cfg.LiveClientURL, log)
	bank := trigger.NewDefaultBank(log, rng)
	mon := monitor.New(source, bank, sched, hub, tracker, cfg.PollInterval, endGrace, log)

	var br *bridge.Bridge
	if !noBridge {
		b, err := bridge.Connect(cfg.NATSURL, generator, queue, sched, mon,
			cfg.AskLimit, cfg.AskDelay, cfg.AskCooldown, log)
		if err != nil {
			log.Warn("chat bridge unavailable, continuing without it: %v", err)
		} else {
			br = b
			chat = b
			defer b.Close()
		}
	}

	consumer := output.NewConsumer(queue, renderer, chat, hub, cfg.ItemDelay, log)
	sched.SetIdle(consumer)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mon.Run(ctx) })
	g.Go(func() error { return sched.Run(ctx) })
	g.Go(func() error { return consumer.Run(ctx) })
	if br != nil {
		g.Go(func() error { return br.Run(ctx) })
	}
	g.Go(func() error {
		log.Info("overlay listening on %s", cfg.OverlayAddr)
		if err := overlaySrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("overlay server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		// Tell overlay clients we're going before the server dies.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		hub.Shutdown(shutdownCtx)
		overlaySrv.Shutdown(shutdownCtx)
		return ctx.Err()
	})

	return g.Wait()
}

// noopChat is the chat sink used when the bridge is down.
type noopChat struct{}

func (noopChat) Send(ctx context.Context, message string) error { return nil }
