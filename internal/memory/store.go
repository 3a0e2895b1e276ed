// Package memory persists narration history in SQLite and serves the
// ranked snippets that give the generator a sense of continuity.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

// Compile-time interface check.
var _ domain.MemoryStore = (*Store)(nil)

// Store is the SQLite-backed memory store. Safe for concurrent use;
// database/sql serializes access to the single connection.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	game_id    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_game ON memories(game_id, created_at);

CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	stream_day TEXT NOT NULL,
	number     INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL
);
`

// Open opens (and initializes) the store at path.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("memory: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("memory: init schema: %w", err)
	}
	log.Info("memory store open: %s", path)
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Add records one memory.
func (s *Store) Add(ctx context.Context, content, kind, gameID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (id, content, kind, game_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), content, kind, gameID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("memory: add: %w", err)
	}
	return nil
}

// Query returns up to limit snippets relevant to the text, most
// relevant first. Relevance is keyword overlap with a recency
// tiebreak; crude, but the snippets only season a prompt.
func (s *Store) Query(ctx context.Context, text string, filter domain.MemoryFilter, limit int) ([]domain.Snippet, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.GameID != "" {
		where = append(where, "game_id = ?")
		args = append(args, filter.GameID)
	}
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, filter.Kind)
	}

	// Pull a recency-bounded candidate set, then rank in memory.
	rows, err := s.db.QueryContext(ctx,
		`SELECT content, kind, game_id FROM memories WHERE `+strings.Join(where, " AND ")+
			` ORDER BY created_at DESC LIMIT 200`, args...)
	if err != nil {
		return nil, fmt.Errorf("memory: query: %w", err)
	}
	defer rows.Close()

	type scored struct {
		snippet domain.Snippet
		score   int
		age     int // candidate index, lower is fresher
	}
	keywords := tokenize(text)

	var candidates []scored
	for i := 0; rows.Next(); i++ {
		var sn domain.Snippet
		if err := rows.Scan(&sn.Content, &sn.Kind, &sn.GameID); err != nil {
			return nil, fmt.Errorf("memory: scan: %w", err)
		}
		candidates = append(candidates, scored{snippet: sn, score: overlap(keywords, sn.Content), age: i})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("memory: rows: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].age < candidates[j].age
	})

	out := make([]domain.Snippet, 0, limit)
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		if c.score == 0 && len(out) > 0 {
			break
		}
		out = append(out, c.snippet)
	}
	return out, nil
}

// tokenize lowercases and splits text into keywords, dropping short
// filler words.
func tokenize(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?:;\"'")
		if len(w) >= 4 {
			out[w] = struct{}{}
		}
	}
	return out
}

func overlap(keywords map[string]struct{}, content string) int {
	score := 0
	for _, w := range strings.Fields(strings.ToLower(content)) {
		w = strings.Trim(w, ".,!?:;\"'")
		if _, ok := keywords[w]; ok {
			score++
		}
	}
	return score
}
