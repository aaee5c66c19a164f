// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/internal/logger"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/migrations"
	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// ActivityStore is the per-device daily activity log, a local sqlite
// database. Writes are best-effort: the orchestrator swallows failures.
type ActivityStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewActivityStore opens (creating if needed) the activity database at
// dbPath and applies pending migrations.
func NewActivityStore(ctx context.Context, dbPath string, log *logger.Logger) (*ActivityStore, error) {
	if err := createLocalDBFileIfNotExists(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open activity database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping activity database: %w", err)
	}

	if err = migrations.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &ActivityStore{db: conn, log: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if err := os.MkdirAll(filepath.Dir(dbFile), 0o755); err != nil {
		return fmt.Errorf("create activity db dir: %w", err)
	}

	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("create activity db file: %w", err)
		}
		f.Close()
	}

	return nil
}

// RecordSession appends one session entry.
func (s *ActivityStore) RecordSession(ctx context.Context, entry models.SessionActivity) error {
	query, args, err := sq.Insert("session_activity").
		Columns("id", "day", "device", "duration_seconds", "files_changed", "pushed", "queued", "created_at").
		Values(entry.ID, entry.Day, entry.Device, entry.DurationSeconds,
			entry.FilesChanged, entry.Pushed, entry.Queued, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build activity insert: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session activity: %w", err)
	}

	return nil
}

// SessionsForDay returns the entries recorded for one day (YYYY-MM-DD),
// oldest first.
func (s *ActivityStore) SessionsForDay(ctx context.Context, day string) ([]models.SessionActivity, error) {
	query, args, err := sq.Select("id", "day", "device", "duration_seconds", "files_changed", "pushed", "queued").
		From("session_activity").
		Where(sq.Eq{"day": day}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build activity select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session activity: %w", err)
	}
	defer rows.Close()

	var entries []models.SessionActivity
	for rows.Next() {
		var e models.SessionActivity
		if err = rows.Scan(&e.ID, &e.Day, &e.Device, &e.DurationSeconds,
			&e.FilesChanged, &e.Pushed, &e.Queued); err != nil {
			return nil, fmt.Errorf("scan session activity: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close releases the underlying database handle.
func (s *ActivityStore) Close() error {
	return s.db.Close()
}
