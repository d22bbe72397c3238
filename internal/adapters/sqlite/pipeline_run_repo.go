package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/ports/secondary"
)

// PipelineRunRepository implements secondary.PipelineRunRepository with SQLite.
type PipelineRunRepository struct {
	db *sql.DB
}

// NewPipelineRunRepository creates a new SQLite pipeline run repository.
func NewPipelineRunRepository(db *sql.DB) *PipelineRunRepository {
	return &PipelineRunRepository{db: db}
}

const pipelineRunColumns = "id, tenant_id, stage_label, query_text, inputs, outputs, status, error, started_at, completed_at"

// Create persists a new run.
func (r *PipelineRunRepository) Create(ctx context.Context, run *secondary.PipelineRunRecord) error {
	inputs := run.Inputs
	if inputs == "" {
		inputs = "{}"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO pipeline_runs ("+pipelineRunColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.TenantID, run.StageLabel, nullString(run.QueryText), inputs, nullString(run.Outputs),
		run.Status, nullString(run.Error), formatTimestamp(run.StartedAt), nullTimestamp(run.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline run: %w", err)
	}

	return nil
}

// Complete moves a running run to its terminal status.
func (r *PipelineRunRepository) Complete(ctx context.Context, update *secondary.PipelineRunCompletion) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE pipeline_runs SET status = ?, outputs = ?, error = ?, completed_at = ? WHERE id = ? AND status = 'running'",
		update.Status, nullString(update.Outputs), nullString(update.Error), formatTimestamp(update.CompletedAt), update.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete pipeline run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pipeline run %s is not running", update.ID)
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *PipelineRunRepository) GetByID(ctx context.Context, id string) (*secondary.PipelineRunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+pipelineRunColumns+" FROM pipeline_runs WHERE id = ?",
		id,
	)

	run, err := scanPipelineRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pipeline run %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pipeline run: %w", err)
	}

	return run, nil
}

// List retrieves runs matching the filters, newest first.
func (r *PipelineRunRepository) List(ctx context.Context, filters secondary.PipelineRunFilters) ([]*secondary.PipelineRunRecord, error) {
	query := "SELECT " + pipelineRunColumns + " FROM pipeline_runs WHERE 1=1"
	args := []any{}

	if filters.TenantID != "" {
		query += " AND tenant_id = ?"
		args = append(args, filters.TenantID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY started_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.PipelineRunRecord
	for rows.Next() {
		run, err := scanPipelineRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pipeline run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pipeline runs: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPipelineRun(row rowScanner) (*secondary.PipelineRunRecord, error) {
	var (
		queryText   sql.NullString
		outputs     sql.NullString
		errText     sql.NullString
		completedAt sql.NullTime
	)

	run := &secondary.PipelineRunRecord{}
	if err := row.Scan(&run.ID, &run.TenantID, &run.StageLabel, &queryText, &run.Inputs, &outputs, &run.Status, &errText, &run.StartedAt, &completedAt); err != nil {
		return nil, err
	}

	run.QueryText = queryText.String
	run.Outputs = outputs.String
	run.Error = errText.String
	run.StartedAt = run.StartedAt.UTC()
	run.CompletedAt = timePtr(completedAt)

	return run, nil
}

// Ensure PipelineRunRepository implements the interface
var _ secondary.PipelineRunRepository = (*PipelineRunRepository)(nil)
