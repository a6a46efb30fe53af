// Package ledger persists completed analysis runs to Postgres. The ledger is
// optional: without a configured database URL the pipeline simply skips it.
package ledger

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	interrors "ledgerscope/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id            TEXT PRIMARY KEY,
	file          TEXT NOT NULL,
	target_column TEXT NOT NULL,
	total_values  INTEGER NOT NULL,
	chi_square    DOUBLE PRECISION NOT NULL,
	p_value       DOUBLE PRECISION NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
)`

// Run is one recorded analysis invocation.
type Run struct {
	ID          string    `db:"id" json:"id"`
	File        string    `db:"file" json:"file"`
	Column      string    `db:"target_column" json:"column"`
	TotalValues int       `db:"total_values" json:"total_values"`
	ChiSquare   float64   `db:"chi_square" json:"chi_square"`
	PValue      float64   `db:"p_value" json:"p_value"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Ledger stores runs through a sqlx connection.
type Ledger struct {
	db *sqlx.DB
}

// Open connects to Postgres and bootstraps the schema.
func Open(databaseURL string) (*Ledger, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, interrors.Wrap(err, "failed to connect to run ledger database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, interrors.Wrap(err, "failed to create analysis_runs table")
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying connection pool.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun inserts one completed run.
func (l *Ledger) RecordRun(ctx context.Context, run Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO analysis_runs (id, file, target_column, total_values, chi_square, p_value, created_at)
		VALUES (:id, :file, :target_column, :total_values, :chi_square, :p_value, :created_at)`, run)
	return interrors.Wrap(err, "failed to record analysis run")
}

// RecentRuns returns the latest runs, newest first.
func (l *Ledger) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	err := l.db.SelectContext(ctx, &runs, `
		SELECT id, file, target_column, total_values, chi_square, p_value, created_at
		FROM analysis_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, interrors.Wrap(err, "failed to list analysis runs")
	}
	return runs, nil
}
