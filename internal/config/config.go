// Package config loads riftcast configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration. Values come from the
// environment (a .env file is loaded by main before parsing).
type Config struct {
	// Snapshot polling.
	LiveClientURL string        `env:"RIFTCAST_LIVE_CLIENT_URL" envDefault:"https://127.0.0.1:2999/liveclientdata/allgamedata"`
	PollInterval  time.Duration `env:"RIFTCAST_POLL_INTERVAL" envDefault:"5s"`

	// Commentary cadence.
	FlushInterval time.Duration `env:"RIFTCAST_FLUSH_INTERVAL" envDefault:"2s"`
	GameCooldown  time.Duration `env:"RIFTCAST_GAME_COOLDOWN" envDefault:"45s"`
	Mode          string        `env:"RIFTCAST_MODE" envDefault:"hype"`

	// Output queue.
	QueueMax      int           `env:"RIFTCAST_QUEUE_MAX" envDefault:"10"`
	QueueReserved int           `env:"RIFTCAST_QUEUE_RESERVED" envDefault:"7"`
	ItemDelay     time.Duration `env:"RIFTCAST_ITEM_DELAY" envDefault:"2s"`

	// Generation service (OpenAI-compatible chat completions).
	GenEndpoint string `env:"RIFTCAST_GEN_ENDPOINT" envDefault:"https://api.openai.com/v1/chat/completions"`
	GenAPIKey   string `env:"OPENAI_API_KEY"`
	GenModel    string `env:"RIFTCAST_GEN_MODEL" envDefault:"gpt-4o-mini"`

	// Speech rendering.
	SpeechKey    string `env:"AZURE_SPEECH_KEY"`
	SpeechRegion string `env:"AZURE_SPEECH_REGION"`
	Voice        string `env:"RIFTCAST_VOICE" envDefault:"en-US-AndrewNeural"`
	CacheDir     string `env:"RIFTCAST_CACHE_DIR" envDefault:".riftcast-cache"`

	// Overlay websocket server.
	OverlayAddr string `env:"RIFTCAST_OVERLAY_ADDR" envDefault:"localhost:8765"`

	// Chat/command bridge.
	NATSURL     string        `env:"RIFTCAST_NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	AskLimit    int           `env:"RIFTCAST_ASK_LIMIT" envDefault:"7"`
	AskDelay    time.Duration `env:"RIFTCAST_ASK_DELAY" envDefault:"10s"`
	AskCooldown time.Duration `env:"RIFTCAST_ASK_COOLDOWN" envDefault:"10s"`

	// Memory store.
	MemoryPath string `env:"RIFTCAST_MEMORY_PATH" envDefault:"riftcast.db"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.QueueReserved >= c.QueueMax {
		return fmt.Errorf("config: queue reserved limit %d must be below max %d", c.QueueReserved, c.QueueMax)
	}
	if c.PollInterval <= 0 || c.FlushInterval <= 0 {
		return fmt.Errorf("config: poll and flush intervals must be positive")
	}
	if c.FlushInterval >= c.PollInterval {
		return fmt.Errorf("config: flush interval %s must be shorter than poll interval %s", c.FlushInterval, c.PollInterval)
	}
	return nil
}
