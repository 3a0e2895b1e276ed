package memory

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StartGame registers a new game and returns its identifier, shaped
// game_YYYYMMDD_N where N counts games within the same stream day.
func (s *Store) StartGame(ctx context.Context) (string, error) {
	day := time.Now().UTC().Format("20060102")

	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(number) FROM games WHERE stream_day = ?`, day).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("memory: next game number: %w", err)
	}

	number := int(last.Int64) + 1
	id := fmt.Sprintf("game_%s_%d", day, number)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id, stream_day, number, started_at) VALUES (?, ?, ?, ?)`,
		id, day, number, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("memory: register game: %w", err)
	}

	s.log.Info("tracking game %s", id)
	return id, nil
}
