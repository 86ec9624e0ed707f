package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ItemStats is the persisted engagement data of one item
type ItemStats struct {
	Counter int
	Rating  *int
}

// Store persists counters and ratings in SQLite
type Store struct {
	db   *sql.DB
	path string
}

const (
	memoryDatabase = ":memory:"

	// lookupBatchSize keeps each lookup under SQLite's bound-parameter limit
	lookupBatchSize = 500

	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `CREATE TABLE IF NOT EXISTS item_stats (
	id         TEXT PRIMARY KEY,
	counter    INTEGER NOT NULL DEFAULT 0,
	rating     INTEGER,
	updated_at TEXT NOT NULL
)`

// ErrInvalidRating is returned for ratings outside 0-100
var ErrInvalidRating = errors.New("rating must be between 0 and 100")

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// OpenStore opens or creates the stats database at path
func OpenStore(path string) (*Store, error) {
	if path != memoryDatabase {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == memoryDatabase {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	debugLog("Opened stats database %s", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) updateCounter(ctx context.Context, id string, initial int, update string) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	query := `INSERT INTO item_stats (id, counter, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET ` + update + `, updated_at = excluded.updated_at
		RETURNING counter`

	var counter int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, id, initial, now).Scan(&counter)
	})
	if err != nil {
		return 0, fmt.Errorf("update counter for %s: %w", id, err)
	}
	return counter, nil
}

// IncrementCounter adds one to the item's counter and returns the new value
func (s *Store) IncrementCounter(ctx context.Context, id string) (int, error) {
	return s.updateCounter(ctx, id, 1, "counter = counter + 1")
}

// DecrementCounter subtracts one from the item's counter, stopping at zero
func (s *Store) DecrementCounter(ctx context.Context, id string) (int, error) {
	return s.updateCounter(ctx, id, 0, "counter = MAX(counter - 1, 0)")
}

// ResetCounter sets the item's counter to zero
func (s *Store) ResetCounter(ctx context.Context, id string) (int, error) {
	return s.updateCounter(ctx, id, 0, "counter = 0")
}

// SetRating stores a 0-100 rating; nil clears it
func (s *Store) SetRating(ctx context.Context, id string, rating *int) error {
	var value any
	if rating != nil {
		if *rating < 0 || *rating > 100 {
			return ErrInvalidRating
		}
		value = *rating
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO item_stats (id, rating, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at`,
			id, value, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("set rating for %s: %w", id, err)
	}
	return nil
}

// Lookup returns stored stats for the given ids. Unknown ids are absent.
func (s *Store) Lookup(ctx context.Context, ids []string) (map[string]ItemStats, error) {
	stats := make(map[string]ItemStats, len(ids))
	for start := 0; start < len(ids); start += lookupBatchSize {
		end := min(start+lookupBatchSize, len(ids))
		if err := s.lookupBatch(ctx, ids[start:end], stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// lookupBatch reads one batch of ids into stats, staying under the SQLite
// bound-parameter limit
func (s *Store) lookupBatch(ctx context.Context, ids []string, stats map[string]ItemStats) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, counter, rating FROM item_stats WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("lookup stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      string
			counter int
			rating  sql.NullInt64
		)
		if err := rows.Scan(&id, &counter, &rating); err != nil {
			return fmt.Errorf("scan stats: %w", err)
		}
		entry := ItemStats{Counter: counter}
		if rating.Valid {
			r := int(rating.Int64)
			entry.Rating = &r
		}
		stats[id] = entry
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate stats: %w", err)
	}
	return nil
}
