// Package sqlite persists session records to a SQLite file so history
// survives restarts. Outcomes are stored as JSON blobs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sleuth/internal/session"
)

// Store is a SQLite implementation of session.Store.
type Store struct {
	db *sql.DB
}

var _ session.Store = (*Store)(nil)

// New opens (or creates) the session database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			request TEXT NOT NULL,
			outcome TEXT,
			created_at TIMESTAMP NOT NULL,
			duration_ns INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Put(ctx context.Context, rec session.Record) error {
	outcome, err := json.Marshal(rec.Outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, kind, request, outcome, created_at, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.Request, string(outcome), rec.CreatedAt, int64(rec.Duration))
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (session.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, request, outcome, created_at, duration_ns
		 FROM sessions WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Record{}, session.ErrNotFound
	}
	return rec, err
}

func (s *Store) List(ctx context.Context) ([]session.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, request, outcome, created_at, duration_ns
		 FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	result := []session.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions")
	if err != nil {
		return 0, fmt.Errorf("failed to clear sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(...any) error) (session.Record, error) {
	var rec session.Record
	var kind, outcome string
	var durationNS int64

	if err := scan(&rec.ID, &kind, &rec.Request, &outcome, &rec.CreatedAt, &durationNS); err != nil {
		return session.Record{}, err
	}

	rec.Kind = session.Kind(kind)
	rec.Duration = time.Duration(durationNS)
	if outcome != "" && outcome != "null" {
		if err := json.Unmarshal([]byte(outcome), &rec.Outcome); err != nil {
			return session.Record{}, fmt.Errorf("failed to unmarshal outcome: %w", err)
		}
	}
	return rec, nil
}
