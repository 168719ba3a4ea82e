package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Entry describes the source a thumbnail was last rendered from.
type Entry struct {
	DestRoot    string
	RelPath     string
	SourceHash  string
	Width       int
	Quality     int
	Method      int
	GeneratedAt time.Time
}

// Matches reports whether the entry was rendered from the same source content
// with the same settings.
func (e Entry) Matches(hash string, width, quality, method int) bool {
	return e.SourceHash == hash && e.Width == width && e.Quality == quality && e.Method == method
}

// Lookup returns the entry for relPath under destRoot.
func (s *Store) Lookup(ctx context.Context, destRoot, relPath string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT source_hash, width, quality, method, generated_at
           FROM thumbnails WHERE dest_root = ? AND rel_path = ?`,
		destRoot, relPath,
	)
	entry := Entry{DestRoot: destRoot, RelPath: relPath}
	var generatedAt string
	if err := row.Scan(&entry.SourceHash, &entry.Width, &entry.Quality, &entry.Method, &generatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("lookup %s: %w", relPath, err)
	}
	entry.GeneratedAt = parseTime(generatedAt)
	return entry, true, nil
}

// Record inserts or replaces the entry for its destination file.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.GeneratedAt.IsZero() {
		entry.GeneratedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO thumbnails (dest_root, rel_path, source_hash, width, quality, method, generated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(dest_root, rel_path) DO UPDATE SET
            source_hash = excluded.source_hash,
            width = excluded.width,
            quality = excluded.quality,
            method = excluded.method,
            generated_at = excluded.generated_at`,
		entry.DestRoot, entry.RelPath, entry.SourceHash, entry.Width, entry.Quality, entry.Method, formatTime(entry.GeneratedAt),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", entry.RelPath, err)
	}
	return nil
}

// Count returns the number of entries recorded for destRoot.
func (s *Store) Count(ctx context.Context, destRoot string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM thumbnails WHERE dest_root = ?", destRoot).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}
