package storage

import (
	"context"
	"fmt"
)

// MarkArchiveProcessed records that an edition archive was fully handled
// for the given publication day. Repeat calls are no-ops.
func (s *SQLiteStore) MarkArchiveProcessed(ctx context.Context, day, url string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_archives (day, url) VALUES (?, ?)`, day, url)
	if err != nil {
		return fmt.Errorf("failed to mark archive processed: %w", err)
	}
	return nil
}

// ArchiveProcessed reports whether an edition archive was already handled.
func (s *SQLiteStore) ArchiveProcessed(ctx context.Context, day, url string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM processed_archives WHERE day = ? AND url = ?`, day, url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query processed archives: %w", err)
	}
	return count > 0, nil
}
