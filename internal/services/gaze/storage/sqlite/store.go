// Package sqlite provides a SQLite-backed session ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/wit/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/wit/internal/services/gaze/storage"
	"github.com/louisbranch/wit/internal/services/gaze/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// Store persists session summaries in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite ledger at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	return OpenContext(context.Background(), path)
}

// OpenContext is Open with a context bounding the migration run.
func OpenContext(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordSession inserts one closed session summary.
func (s *Store) RecordSession(ctx context.Context, record storage.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if record.SamplesAccepted < 0 || record.SamplesRejected < 0 || record.Fixations < 0 {
		return fmt.Errorf("session counters must not be negative")
	}
	startedAt := record.StartedAt.UTC()
	endedAt := record.EndedAt.UTC()
	if endedAt.IsZero() {
		endedAt = time.Now().UTC()
	}
	if startedAt.IsZero() {
		startedAt = endedAt
	}
	if endedAt.Before(startedAt) {
		return fmt.Errorf("session end precedes start")
	}
	intensity := strings.TrimSpace(record.Intensity)
	if intensity == "" {
		intensity = "medium"
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO gaze_sessions (
		   id,
		   started_at,
		   ended_at,
		   samples_accepted,
		   samples_rejected,
		   fixations,
		   intensity
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		toMillis(startedAt),
		toMillis(endedAt),
		record.SamplesAccepted,
		record.SamplesRejected,
		record.Fixations,
		intensity,
	)
	if err != nil {
		if isSessionUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert gaze session: %w", err)
	}
	return nil
}

// GetSession returns one session summary by id.
func (s *Store) GetSession(ctx context.Context, id string) (storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SessionRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.SessionRecord{}, fmt.Errorf("session id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, selectSessionColumns+` WHERE id = ?`, id)
	record, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SessionRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SessionRecord{}, fmt.Errorf("get gaze session: %w", err)
	}
	return record, nil
}

// ListRecentSessions returns up to limit summaries, most recently ended
// first. A non-positive limit uses the default page size.
func (s *Store) ListRecentSessions(ctx context.Context, limit int) ([]storage.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	rows, err := s.sqlDB.QueryContext(ctx, selectSessionColumns+` ORDER BY ended_at DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list gaze sessions: %w", err)
	}
	defer rows.Close()

	records := make([]storage.SessionRecord, 0, limit)
	for rows.Next() {
		record, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gaze session: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gaze sessions: %w", err)
	}
	return records, nil
}

const selectSessionColumns = `SELECT id, started_at, ended_at, samples_accepted, samples_rejected, fixations, intensity FROM gaze_sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (storage.SessionRecord, error) {
	var (
		record    storage.SessionRecord
		startedAt int64
		endedAt   int64
	)
	if err := row.Scan(
		&record.ID,
		&startedAt,
		&endedAt,
		&record.SamplesAccepted,
		&record.SamplesRejected,
		&record.Fixations,
		&record.Intensity,
	); err != nil {
		return storage.SessionRecord{}, err
	}
	record.StartedAt = fromMillis(startedAt)
	record.EndedAt = fromMillis(endedAt)
	return record, nil
}

func isSessionUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "gaze_sessions.id")
}

var _ storage.SessionStore = (*Store)(nil)
