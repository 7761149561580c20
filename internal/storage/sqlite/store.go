package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps a history of completed pipeline runs.
type Store struct {
	db *sql.DB
}

// RunRecord is one completed run's terminal decision plus loop sizes.
type RunRecord struct {
	RunID        string
	Symbol       string
	AsOf         string
	Action       string
	Confidence   float64
	Rationale    string
	DebateRounds int
	RiskRounds   int
	CreatedAt    string
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	symbol        TEXT NOT NULL,
	as_of         TEXT NOT NULL,
	action        TEXT NOT NULL,
	confidence    REAL NOT NULL,
	rationale     TEXT NOT NULL,
	debate_rounds INTEGER NOT NULL,
	risk_rounds   INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol, as_of);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate runs table: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRun inserts one completed run.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (run_id, symbol, as_of, action, confidence, rationale, debate_rounds, risk_rounds, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Symbol, rec.AsOf, rec.Action, rec.Confidence, rec.Rationale,
		rec.DebateRounds, rec.RiskRounds, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save run %s: %w", rec.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, symbol, as_of, action, confidence, rationale, debate_rounds, risk_rounds, created_at
FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.RunID, &rec.Symbol, &rec.AsOf, &rec.Action, &rec.Confidence,
			&rec.Rationale, &rec.DebateRounds, &rec.RiskRounds, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
