// Package postgres implements the archive ports against PostgreSQL.
package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"audival/domain/core"
	"audival/ports"
)

// RunRepositoryImpl implements RunArchive for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run archive
func NewRunRepository(db *sqlx.DB) ports.RunArchive {
	return &RunRepositoryImpl{db: db}
}

// Connect opens and pings the archive database.
func Connect(url string) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", url)
}

// Create inserts one completed run record
func (r *RunRepositoryImpl) Create(ctx context.Context, run *core.Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, kind, source, rows_in, rows_kept, parameters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.Kind, run.Source, run.RowsIn, run.RowsKept, run.Parameters, run.CreatedAt)
	return err
}

// GetByID retrieves one run record
func (r *RunRepositoryImpl) GetByID(ctx context.Context, id core.RunID) (*core.Run, error) {
	var run core.Run
	err := r.db.GetContext(ctx, &run, `
		SELECT id, kind, source, rows_in, rows_kept, parameters, created_at
		FROM analysis_runs
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns recent runs, optionally filtered by pipeline kind
func (r *RunRepositoryImpl) List(ctx context.Context, kind core.RunKind, limit int) ([]*core.Run, error) {
	query := `
		SELECT id, kind, source, rows_in, rows_kept, parameters, created_at
		FROM analysis_runs
	`
	args := []interface{}{}
	if kind != "" {
		query += " WHERE kind = $1"
		args = append(args, kind)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		if kind != "" {
			query += " LIMIT $2"
		} else {
			query += " LIMIT $1"
		}
	}

	var runs []*core.Run
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, err
	}
	return runs, nil
}
