package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/finsight/internal/ports/secondary"
)

// HealthSnapshotRepository implements secondary.HealthSnapshotRepository with SQLite.
type HealthSnapshotRepository struct {
	db *sql.DB
}

// NewHealthSnapshotRepository creates a new SQLite health snapshot repository.
func NewHealthSnapshotRepository(db *sql.DB) *HealthSnapshotRepository {
	return &HealthSnapshotRepository{db: db}
}

// Create persists a new snapshot.
func (r *HealthSnapshotRepository) Create(ctx context.Context, snapshot *secondary.HealthSnapshotRecord) error {
	metrics := snapshot.Metrics
	if metrics == "" {
		metrics = "{}"
	}
	flags := snapshot.RiskFlags
	if flags == "" {
		flags = "[]"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO health_snapshots (id, tenant_id, score, metrics, risk_flags, calculated_at) VALUES (?, ?, ?, ?, ?, ?)",
		snapshot.ID, snapshot.TenantID, snapshot.Score, metrics, flags, formatTimestamp(snapshot.CalculatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create health snapshot: %w", err)
	}

	return nil
}

// LatestByTenant returns the most recent snapshot, or nil when none exists.
func (r *HealthSnapshotRepository) LatestByTenant(ctx context.Context, tenantID string) (*secondary.HealthSnapshotRecord, error) {
	record := &secondary.HealthSnapshotRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, tenant_id, score, metrics, risk_flags, calculated_at FROM health_snapshots WHERE tenant_id = ? ORDER BY calculated_at DESC, rowid DESC LIMIT 1",
		tenantID,
	).Scan(&record.ID, &record.TenantID, &record.Score, &record.Metrics, &record.RiskFlags, &record.CalculatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest health snapshot: %w", err)
	}
	record.CalculatedAt = record.CalculatedAt.UTC()

	return record, nil
}

// Ensure HealthSnapshotRepository implements the interface
var _ secondary.HealthSnapshotRepository = (*HealthSnapshotRepository)(nil)
