package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/riftcast/riftcast/internal/logger"
)

// In-memory cache budget. Commentary lines are unique so the hot set
// is small; the cache mostly serves repeated system notices and askai
// boilerplate.
const memCacheBytes = 64 << 20

// AudioCache is a two-tier cache for synthesized audio: a
// cost-bounded in-memory tier in front of an optional on-disk tier.
// The key is sha256(voice + ":" + text), so switching voices causes
// misses instead of serving the wrong speaker.
type AudioCache struct {
	mem   *ristretto.Cache[string, []byte]
	voice string
	dir   string // empty disables the disk tier
	log   *logger.Logger
}

// NewAudioCache creates an audio cache. An empty dir disables the
// disk tier; otherwise it is created on first use and consulted on
// memory misses, giving a warm start across runs.
func NewAudioCache(voice, dir string, log *logger.Logger) (*AudioCache, error) {
	mem, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e5,
		MaxCost:     memCacheBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("cache: create dir %s: %v", dir, err)
			dir = ""
		}
	}
	return &AudioCache{mem: mem, voice: voice, dir: dir, log: log}, nil
}

// Get returns cached audio for the text, consulting memory then disk.
// A disk hit is promoted into memory.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.hashKey(text)

	if data, ok := c.mem.Get(key); ok {
		c.log.Debug("cache hit (mem): %d bytes", len(data))
		return data, true
	}
	if c.dir == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.diskPath(key))
	if err != nil {
		return nil, false
	}
	c.mem.Set(key, data, int64(len(data)))
	c.log.Debug("cache hit (disk): %d bytes", len(data))
	return data, true
}

// Put stores audio in both tiers.
func (c *AudioCache) Put(text string, audio []byte) {
	key := c.hashKey(text)
	c.mem.Set(key, audio, int64(len(audio)))
	// Set is async; Wait makes the entry visible to an immediate replay
	// of the same line.
	c.mem.Wait()
	if c.dir != "" {
		if err := os.WriteFile(c.diskPath(key), audio, 0o644); err != nil {
			c.log.Error("cache: disk write failed: %v", err)
		}
	}
}

// Close releases the in-memory tier.
func (c *AudioCache) Close() { c.mem.Close() }

func (c *AudioCache) hashKey(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) diskPath(key string) string {
	return filepath.Join(c.dir, key+".wav")
}
