package recordings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/graag/mythcommflag-silence/internal/config"
)

// Store manages recording persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the recordings database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Paths.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: cfg.Paths.DBPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) applyMigrations(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS recordings (
            chanid INTEGER NOT NULL,
            starttime TEXT NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            subtitle TEXT NOT NULL DEFAULT '',
            callsign TEXT NOT NULL DEFAULT '',
            basename TEXT NOT NULL DEFAULT '',
            commflagged INTEGER NOT NULL DEFAULT 0,
            updated_at TEXT NOT NULL,
            PRIMARY KEY (chanid, starttime)
        )`,
		`CREATE TABLE IF NOT EXISTS recording_marks (
            chanid INTEGER NOT NULL,
            starttime TEXT NOT NULL,
            mark INTEGER NOT NULL,
            type INTEGER NOT NULL,
            created_at TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_recording_marks_program
            ON recording_marks (chanid, starttime, mark)`,
		`CREATE TABLE IF NOT EXISTS jobs (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            chanid INTEGER NOT NULL,
            starttime TEXT NOT NULL,
            status INTEGER NOT NULL DEFAULT 1,
            comment TEXT NOT NULL DEFAULT '',
            inserted_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )`,
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// GetRecording fetches a recording by its composite key. Returns nil
// when no such recording exists.
func (s *Store) GetRecording(ctx context.Context, chanID int64, startTime string) (*Recording, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chanid, starttime, title, subtitle, callsign, basename, commflagged
         FROM recordings WHERE chanid = ? AND starttime = ?`,
		chanID, startTime)

	var rec Recording
	var flagged int
	err := row.Scan(&rec.ChanID, &rec.StartTime, &rec.Title, &rec.Subtitle,
		&rec.Callsign, &rec.Basename, &flagged)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}
	rec.CommFlagged = FlagState(flagged)
	return &rec, nil
}

// InsertRecording adds a recording row. Used by ingest tooling and tests.
func (s *Store) InsertRecording(ctx context.Context, rec *Recording) error {
	if rec == nil {
		return errors.New("recording is nil")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recordings (chanid, starttime, title, subtitle, callsign, basename, commflagged, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ChanID, rec.StartTime, rec.Title, rec.Subtitle, rec.Callsign,
		rec.Basename, int(rec.CommFlagged), timestamp())
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}
	return nil
}

// SetFlagState updates the commflagged state for a recording.
func (s *Store) SetFlagState(ctx context.Context, chanID int64, startTime string, state FlagState) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE recordings SET commflagged = ?, updated_at = ? WHERE chanid = ? AND starttime = ?`,
		int(state), timestamp(), chanID, startTime)
	if err != nil {
		return fmt.Errorf("set flag state: %w", err)
	}
	return nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
