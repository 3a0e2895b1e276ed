// Package liveclient polls the League Live Client Data API and turns
// its allgamedata payload into validated domain snapshots.
package liveclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

// wire mirrors the slice of the allgamedata payload we consume.
type wire struct {
	ActivePlayer struct {
		RiotID        string  `json:"riotId"`
		CurrentGold   float64 `json:"currentGold"`
		ChampionStats *struct {
			CurrentHealth float64 `json:"currentHealth"`
			MaxHealth     float64 `json:"maxHealth"`
		} `json:"championStats"`
	} `json:"activePlayer"`
	AllPlayers []domain.Player `json:"allPlayers"`
	Events     struct {
		Events []domain.GameEvent `json:"Events"`
	} `json:"events"`
	GameData struct {
		GameMode string  `json:"gameMode"`
		GameTime float64 `json:"gameTime"`
	} `json:"gameData"`
}

// Client fetches snapshots over HTTPS from the local game client.
type Client struct {
	url  string
	http *http.Client
	log  *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a live client source for the given allgamedata URL. The
// game client serves a self-signed certificate, so verification is
// disabled for this one loopback connection.
func New(url string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		url: url,
		http: &http.Client{
			Timeout: 3 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ domain.SnapshotSource = (*Client)(nil)

// Fetch retrieves and validates one snapshot. Any failure, transport or
// payload, comes back as an error meaning "no game data this tick".
func (c *Client) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("liveclient: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("liveclient: %w", domain.ErrNoGame)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("liveclient: status %d: %w", resp.StatusCode, domain.ErrNoGame)
	}

	var w wire
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("liveclient: decode payload: %w", err)
	}
	return c.build(&w)
}

// build converts the wire payload into a domain snapshot, computing the
// derived aggregates exactly once so downstream readers never re-derive
// them differently.
func (c *Client) build(w *wire) (*domain.Snapshot, error) {
	if len(w.AllPlayers) == 0 {
		return nil, fmt.Errorf("liveclient: empty roster: %w", domain.ErrNoGame)
	}

	snap := &domain.Snapshot{
		GameTime:     w.GameData.GameTime,
		GameMode:     w.GameData.GameMode,
		ActiveRiotID: w.ActivePlayer.RiotID,
		CurrentGold:  w.ActivePlayer.CurrentGold,
		Players:      w.AllPlayers,
		Events:       w.Events.Events,
		TeamGold:     make(map[domain.Team]int),
		DragonKills:  map[domain.Team]int{domain.TeamOrder: 0, domain.TeamChaos: 0},
	}
	if stats := w.ActivePlayer.ChampionStats; stats != nil {
		snap.HasChampStats = true
		snap.CurrentHP = stats.CurrentHealth
		snap.MaxHP = stats.MaxHealth
	}

	for i := range snap.Players {
		p := &snap.Players[i]
		snap.TotalKills += p.Scores.Kills
		snap.TeamGold[p.Team] += p.ItemGold()
	}
	for i := range snap.Events {
		ev := &snap.Events[i]
		if ev.Name != domain.EventDragonKill {
			continue
		}
		if team, ok := snap.TeamOf(ev.KillerName); ok {
			snap.DragonKills[team]++
		}
	}

	c.log.Debug("snapshot: t=%.0fs players=%d events=%d kills=%d",
		snap.GameTime, len(snap.Players), len(snap.Events), snap.TotalKills)
	return snap, nil
}
