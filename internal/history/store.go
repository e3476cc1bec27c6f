// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records localize runs and their per-URL outcomes in a
// SQLite database so failed downloads can be listed and retried later.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/md-assets/pkg/types"
)

// ErrNoRuns is returned by Latest when nothing has been recorded.
var ErrNoRuns = errors.New("no runs recorded")

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// defaultListLimit caps List when the caller passes a non-positive limit.
const defaultListLimit = 20

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at path, creating the parent
// directory and schema as needed.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			markdown_path TEXT NOT NULL,
			started_at    TEXT NOT NULL,
			finished_at   TEXT NOT NULL,
			found         INTEGER NOT NULL DEFAULT 0,
			downloaded    INTEGER NOT NULL DEFAULT 0,
			existed       INTEGER NOT NULL DEFAULT 0,
			failed        INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq      INTEGER NOT NULL,
			url      TEXT NOT NULL,
			stem     TEXT NOT NULL,
			status   TEXT NOT NULL,
			rel_path TEXT NOT NULL DEFAULT '',
			kind     TEXT NOT NULL DEFAULT '',
			reason   TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(run_id, status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run and its outcomes in one transaction. Recording the
// same run ID again replaces the earlier rows.
func (s *Store) Record(ctx context.Context, run types.Run, outcomes []types.Outcome) error {
	if run.ID == "" {
		return errors.New("run has no ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("clearing run %s: %w", run.ID, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, markdown_path, started_at, finished_at, found, downloaded, existed, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.MarkdownPath, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Found, run.Downloaded, run.Existed, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, seq, url, stem, status, rel_path, kind, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range outcomes {
		_, err := stmt.ExecContext(ctx,
			run.ID, i, o.Record.URL, o.Record.Stem, string(o.Status),
			o.RelPath, string(o.Kind), o.Reason,
		)
		if err != nil {
			return fmt.Errorf("inserting outcome %s: %w", o.Record.URL, err)
		}
	}

	return tx.Commit()
}

// List returns up to limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, markdown_path, started_at, finished_at, found, downloaded, existed, failed
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Latest returns the most recently started run.
func (s *Store) Latest(ctx context.Context) (types.Run, error) {
	runs, err := s.List(ctx, 1)
	if err != nil {
		return types.Run{}, err
	}
	if len(runs) == 0 {
		return types.Run{}, ErrNoRuns
	}
	return runs[0], nil
}

// Get returns the run with the given ID. It accepts a unique prefix so the
// short IDs printed by the CLI can be passed back in. The prefix is compared
// literally; "_" and "%" are not wildcards.
func (s *Store) Get(ctx context.Context, id string) (types.Run, error) {
	if id == "" {
		return types.Run{}, errors.New("empty run ID")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, markdown_path, started_at, finished_at, found, downloaded, existed, failed
		 FROM runs WHERE substr(id, 1, length(?1)) = ?1 LIMIT 2`, id)
	if err != nil {
		return types.Run{}, fmt.Errorf("querying run %s: %w", id, err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return types.Run{}, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return types.Run{}, err
	}
	switch len(runs) {
	case 0:
		return types.Run{}, fmt.Errorf("run %s: %w", id, sql.ErrNoRows)
	case 1:
		return runs[0], nil
	default:
		return types.Run{}, fmt.Errorf("run ID prefix %s is ambiguous", id)
	}
}

// Outcomes returns the outcomes of a run in the order they were recorded.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]types.Outcome, error) {
	return s.queryOutcomes(ctx,
		`SELECT url, stem, status, rel_path, kind, reason FROM outcomes
		 WHERE run_id = ? ORDER BY seq`, runID)
}

// FailedURLs returns the URLs that failed in a run, in recorded order.
func (s *Store) FailedURLs(ctx context.Context, runID string) ([]string, error) {
	failed, err := s.queryOutcomes(ctx,
		`SELECT url, stem, status, rel_path, kind, reason FROM outcomes
		 WHERE run_id = ? AND status = ? ORDER BY seq`, runID, string(types.StatusFailed))
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(failed))
	for i, o := range failed {
		urls[i] = o.Record.URL
	}
	return urls, nil
}

func (s *Store) queryOutcomes(ctx context.Context, query string, args ...any) ([]types.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var out []types.Outcome
	for rows.Next() {
		var (
			o            types.Outcome
			status, kind string
		)
		if err := rows.Scan(&o.Record.URL, &o.Record.Stem, &status, &o.RelPath, &kind, &o.Reason); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Status = types.OutcomeStatus(status)
		o.Kind = types.FailureKind(kind)
		out = append(out, o)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (types.Run, error) {
	var (
		r                 types.Run
		started, finished string
	)
	if err := row.Scan(&r.ID, &r.MarkdownPath, &started, &finished,
		&r.Found, &r.Downloaded, &r.Existed, &r.Failed); err != nil {
		return types.Run{}, fmt.Errorf("scanning run: %w", err)
	}
	r.StartedAt = parseTime(started)
	r.FinishedAt = parseTime(finished)
	return r, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
