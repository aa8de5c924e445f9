// Package moodlog keeps a history of emotion readings in SQLite.
package moodlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Reading is one emotion detection result
type Reading struct {
	ID      int64
	At      time.Time
	Label   string
	Score   *float64 // nil when the detector gave no numeric score
	Nonce   string
	Alerted bool
}

// Store wraps the SQLite database holding readings
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates state/system/mood.db
func Open(statePath string) (*Store, error) {
	dbPath := filepath.Join(statePath, "system", "mood.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return openPath(dbPath)
}

func openPath(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// The monitor and the arbiter both touch the store; one connection keeps
	// SQLite writers serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	s := &Store{db: db, path: dsn}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at INTEGER NOT NULL,
		label TEXT NOT NULL,
		score REAL,
		nonce TEXT,
		alerted INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_readings_at ON readings(at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores r and returns its row id. A zero At is stamped with now.
func (s *Store) Record(ctx context.Context, r Reading) (int64, error) {
	if r.At.IsZero() {
		r.At = time.Now()
	}
	var score sql.NullFloat64
	if r.Score != nil {
		score = sql.NullFloat64{Float64: *r.Score, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO readings (at, label, score, nonce, alerted) VALUES (?, ?, ?, ?, ?)`,
		r.At.UnixMilli(), r.Label, score, r.Nonce, boolInt(r.Alerted))
	if err != nil {
		return 0, fmt.Errorf("record reading: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to n readings, newest first
func (s *Store) Recent(ctx context.Context, n int) ([]Reading, error) {
	return s.query(ctx,
		`SELECT id, at, label, score, nonce, alerted FROM readings ORDER BY at DESC, id DESC LIMIT ?`, n)
}

// RecentAlerts returns up to n readings that raised an alert, newest first
func (s *Store) RecentAlerts(ctx context.Context, n int) ([]Reading, error) {
	return s.query(ctx,
		`SELECT id, at, label, score, nonce, alerted FROM readings WHERE alerted = 1 ORDER BY at DESC, id DESC LIMIT ?`, n)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Reading, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var out []Reading
	for rows.Next() {
		var (
			r       Reading
			at      int64
			score   sql.NullFloat64
			nonce   sql.NullString
			alerted int
		)
		if err := rows.Scan(&r.ID, &at, &r.Label, &score, &nonce, &alerted); err != nil {
			return nil, err
		}
		r.At = time.UnixMilli(at)
		if score.Valid {
			v := score.Float64
			r.Score = &v
		}
		r.Nonce = nonce.String
		r.Alerted = alerted != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
