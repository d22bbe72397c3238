package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/ports/secondary"
)

// RiskAlertRepository implements secondary.RiskAlertRepository with SQLite.
type RiskAlertRepository struct {
	db *sql.DB
}

// NewRiskAlertRepository creates a new SQLite risk alert repository.
func NewRiskAlertRepository(db *sql.DB) *RiskAlertRepository {
	return &RiskAlertRepository{db: db}
}

// Create persists a new alert.
func (r *RiskAlertRepository) Create(ctx context.Context, alert *secondary.RiskAlertRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO risk_alerts (id, tenant_id, alert_type, severity, message, metadata, detected_at, resolved, resolved_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		alert.ID, alert.TenantID, alert.AlertType, alert.Severity, alert.Message,
		nullString(alert.Metadata), formatTimestamp(alert.DetectedAt), alert.Resolved, nullTimestamp(alert.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create risk alert: %w", err)
	}

	return nil
}

// List retrieves alerts matching the filters, newest first.
func (r *RiskAlertRepository) List(ctx context.Context, filters secondary.RiskAlertFilters) ([]*secondary.RiskAlertRecord, error) {
	query := "SELECT id, tenant_id, alert_type, severity, message, metadata, detected_at, resolved, resolved_at FROM risk_alerts WHERE 1=1"
	args := []any{}

	if filters.TenantID != "" {
		query += " AND tenant_id = ?"
		args = append(args, filters.TenantID)
	}

	if filters.Severity != "" {
		query += " AND severity = ?"
		args = append(args, filters.Severity)
	}

	if filters.UnresolvedOnly {
		query += " AND resolved = 0"
	}

	query += " ORDER BY detected_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*secondary.RiskAlertRecord
	for rows.Next() {
		var (
			metadata   sql.NullString
			resolvedAt sql.NullTime
		)
		alert := &secondary.RiskAlertRecord{}
		if err := rows.Scan(&alert.ID, &alert.TenantID, &alert.AlertType, &alert.Severity, &alert.Message, &metadata, &alert.DetectedAt, &alert.Resolved, &resolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan risk alert: %w", err)
		}
		alert.Metadata = metadata.String
		alert.DetectedAt = alert.DetectedAt.UTC()
		alert.ResolvedAt = timePtr(resolvedAt)
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list risk alerts: %w", err)
	}

	return alerts, nil
}

// Resolve marks an alert resolved. Resolving twice keeps the first timestamp.
func (r *RiskAlertRepository) Resolve(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE risk_alerts SET resolved = 1, resolved_at = COALESCE(resolved_at, ?) WHERE id = ?",
		formatTimestamp(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve risk alert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("risk alert %s: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

// Ensure RiskAlertRepository implements the interface
var _ secondary.RiskAlertRepository = (*RiskAlertRepository)(nil)
