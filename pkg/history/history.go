// Package history keeps a record of finished sessions in a SQLite database
// so earlier picks can be listed with `tooey --history`.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/davidRoussov/json-to-terminal/pkg/debug"
	"github.com/davidRoussov/json-to-terminal/pkg/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	source    TEXT    NOT NULL DEFAULT '',
	title     TEXT    NOT NULL DEFAULT '',
	depth     INTEGER NOT NULL,
	ancestors TEXT    NOT NULL DEFAULT '[]',
	node_id   TEXT    NOT NULL DEFAULT '',
	value     TEXT    NOT NULL DEFAULT '',
	url       TEXT    NOT NULL DEFAULT '',
	chosen    INTEGER NOT NULL DEFAULT 0,
	ended_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_ended_at ON sessions(ended_at);
`

// endedAtLayout has a fixed width so ended_at sorts as text.
const endedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// Entry is one recorded session.
type Entry struct {
	ID int64 `json:"id"`
	session.Result
}

// Store is a session history database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history: no database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: creating directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: cannot open database: %w", err)
	}
	// A single connection keeps writes serialized without lock retries.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("history: %s: %v", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: creating schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record appends a finished session.
func (s *Store) Record(ctx context.Context, r session.Result) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}
	ancestors, err := json.Marshal(r.Ancestors)
	if err != nil {
		return 0, fmt.Errorf("history: encoding ancestors: %w", err)
	}
	if r.Ancestors == nil {
		ancestors = []byte("[]")
	}
	ended := r.EndedAt
	if ended.IsZero() {
		ended = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (source, title, depth, ancestors, node_id, value, url, chosen, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Source, r.Title, r.Depth, string(ancestors), r.NodeID, r.Value, r.URL, r.Chosen,
		ended.UTC().Format(endedAtLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("history: recording session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: reading session id: %w", err)
	}
	debug.Log("history: recorded session %d (%s)", id, r.Source)
	return id, nil
}

// Recent returns up to n sessions, newest first. n <= 0 returns nothing.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, title, depth, ancestors, node_id, value, url, chosen, ended_at
		 FROM sessions ORDER BY ended_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: querying sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ancestors, ended string
		if err := rows.Scan(&e.ID, &e.Source, &e.Title, &e.Depth, &ancestors,
			&e.NodeID, &e.Value, &e.URL, &e.Chosen, &ended); err != nil {
			return nil, fmt.Errorf("history: scanning session: %w", err)
		}
		if err := json.Unmarshal([]byte(ancestors), &e.Ancestors); err != nil {
			debug.Log("history: session %d: bad ancestors %q: %v", e.ID, ancestors, err)
		}
		if len(e.Ancestors) == 0 {
			e.Ancestors = nil
		}
		if t, err := time.Parse(endedAtLayout, ended); err == nil {
			e.EndedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded sessions.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("history: counting sessions: %w", err)
	}
	return n, nil
}

// Prune deletes all but the newest keep sessions and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id NOT IN (
			SELECT id FROM sessions ORDER BY ended_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("history: pruning sessions: %w", err)
	}
	return res.RowsAffected()
}
