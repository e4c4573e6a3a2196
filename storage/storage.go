// Package storage persists chain runs and per-puzzle solves in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/go-npuzzle/chain"
)

// Store handles SQLite database operations for run logging.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		base_url TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		ended_at DATETIME,
		puzzles INTEGER NOT NULL DEFAULT 0,
		total_moves INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS solves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		url TEXT NOT NULL,
		board TEXT NOT NULL,
		moves TEXT NOT NULL,
		length INTEGER NOT NULL,
		expanded INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		solved INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_solves_session ON solves(session_id);
	CREATE INDEX IF NOT EXISTS idx_solves_session_seq ON solves(session_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// RecordSolve implements chain.Recorder. The session row is upserted so a
// store can be attached to a runner without separate session bookkeeping.
// The upsert, insert and totals update commit as one transaction, so a
// failure cannot leave session totals out of step with the solves table.
func (s *Store) RecordSolve(rec chain.SolveRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		rec.Session, rec.When,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO solves (session_id, seq, url, board, moves, length, expanded, duration_ms, solved, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Session, rec.Seq, rec.URL, rec.Board, rec.Moves,
		rec.Length, rec.Expanded, rec.Duration.Milliseconds(), rec.Solved, rec.When,
	)
	if err != nil {
		return fmt.Errorf("insert solve: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE sessions SET puzzles = puzzles + 1, total_moves = total_moves + ?, ended_at = ?
		 WHERE id = ?`,
		rec.Length, rec.When, rec.Session,
	)
	if err != nil {
		return fmt.Errorf("update session totals: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SessionStats aggregates one session's solves.
type SessionStats struct {
	ID          string
	StartedAt   time.Time
	Puzzles     int
	TotalMoves  int
	AvgMoves    float64
	AvgExpanded float64
	TotalMs     int64
}

// Sessions returns aggregate stats for every recorded session, most recent
// first.
func (s *Store) Sessions() ([]SessionStats, error) {
	rows, err := s.db.Query(`
		SELECT se.id, se.started_at, se.puzzles, se.total_moves,
		       COALESCE(AVG(so.length), 0),
		       COALESCE(AVG(so.expanded), 0),
		       COALESCE(SUM(so.duration_ms), 0)
		FROM sessions se
		LEFT JOIN solves so ON so.session_id = se.id
		GROUP BY se.id
		ORDER BY se.started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionStats
	for rows.Next() {
		var st SessionStats
		if err := rows.Scan(&st.ID, &st.StartedAt, &st.Puzzles, &st.TotalMoves,
			&st.AvgMoves, &st.AvgExpanded, &st.TotalMs); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Solves returns a session's solve records in chain order.
func (s *Store) Solves(sessionID string) ([]chain.SolveRecord, error) {
	rows, err := s.db.Query(`
		SELECT session_id, seq, url, board, moves, length, expanded, duration_ms, solved, created_at
		FROM solves WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query solves: %w", err)
	}
	defer rows.Close()

	var out []chain.SolveRecord
	for rows.Next() {
		var rec chain.SolveRecord
		var ms int64
		if err := rows.Scan(&rec.Session, &rec.Seq, &rec.URL, &rec.Board, &rec.Moves,
			&rec.Length, &rec.Expanded, &ms, &rec.Solved, &rec.When); err != nil {
			return nil, fmt.Errorf("scan solve: %w", err)
		}
		rec.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
