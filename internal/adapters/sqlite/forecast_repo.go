package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/finsight/internal/ports/secondary"
)

// ForecastRepository implements secondary.ForecastRepository with SQLite.
type ForecastRepository struct {
	db *sql.DB
}

// NewForecastRepository creates a new SQLite forecast repository.
func NewForecastRepository(db *sql.DB) *ForecastRepository {
	return &ForecastRepository{db: db}
}

// CreateBatch persists the points of one run in a single SQL transaction.
func (r *ForecastRepository) CreateBatch(ctx context.Context, points []*secondary.ForecastPointRecord) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin forecast batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO forecast_points (id, tenant_id, batch_id, forecast_date, predicted_amount, lower_bound, upper_bound, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare forecast insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		_, err := stmt.ExecContext(ctx,
			p.ID, p.TenantID, p.BatchID, formatDate(p.ForecastDate), p.Predicted, p.Lower, p.Upper, formatTimestamp(p.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to create forecast point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit forecast batch: %w", err)
	}
	return nil
}

// LatestByTenant returns the points of the most recently created batch.
func (r *ForecastRepository) LatestByTenant(ctx context.Context, tenantID string) ([]*secondary.ForecastPointRecord, error) {
	var batchID string
	err := r.db.QueryRowContext(ctx,
		"SELECT batch_id FROM forecast_points WHERE tenant_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1",
		tenantID,
	).Scan(&batchID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest forecast: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, tenant_id, batch_id, forecast_date, predicted_amount, lower_bound, upper_bound, created_at FROM forecast_points WHERE batch_id = ? ORDER BY forecast_date ASC",
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list forecast points: %w", err)
	}
	defer rows.Close()

	var points []*secondary.ForecastPointRecord
	for rows.Next() {
		p := &secondary.ForecastPointRecord{}
		if err := rows.Scan(&p.ID, &p.TenantID, &p.BatchID, &p.ForecastDate, &p.Predicted, &p.Lower, &p.Upper, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan forecast point: %w", err)
		}
		p.ForecastDate = p.ForecastDate.UTC()
		p.CreatedAt = p.CreatedAt.UTC()
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list forecast points: %w", err)
	}

	return points, nil
}

// Ensure ForecastRepository implements the interface
var _ secondary.ForecastRepository = (*ForecastRepository)(nil)
