package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/finsight/internal/ports/secondary"
)

// TransactionRepository implements secondary.TransactionRepository with SQLite.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new SQLite transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateBatch persists records in a single SQL transaction.
func (r *TransactionRepository) CreateBatch(ctx context.Context, records []*secondary.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO transactions (id, tenant_id, transaction_date, amount, kind, category, description, source, raw_data, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.Amount.IsNegative() {
			return fmt.Errorf("failed to create transaction %s: negative amount %s", rec.ID, rec.Amount)
		}
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.TenantID, formatTimestamp(rec.Date), rec.Amount.String(), rec.Kind, rec.Category,
			nullString(rec.Description), rec.Source, nullString(rec.RawData), formatTimestamp(rec.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction batch: %w", err)
	}
	return nil
}

// ListByTenantSince returns a tenant's transactions dated at or after since.
func (r *TransactionRepository) ListByTenantSince(ctx context.Context, tenantID string, since time.Time) ([]*secondary.TransactionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, tenant_id, transaction_date, amount, kind, category, description, source, raw_data, created_at FROM transactions WHERE tenant_id = ? AND transaction_date >= ? ORDER BY transaction_date ASC, rowid ASC",
		tenantID, formatTimestamp(since),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var records []*secondary.TransactionRecord
	for rows.Next() {
		var (
			description sql.NullString
			rawData     sql.NullString
		)
		rec := &secondary.TransactionRecord{}
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.Date, &rec.Amount, &rec.Kind, &rec.Category, &description, &rec.Source, &rawData, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		rec.Date = rec.Date.UTC()
		rec.CreatedAt = rec.CreatedAt.UTC()
		rec.Description = description.String
		rec.RawData = rawData.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return records, nil
}

// Ensure TransactionRepository implements the interface
var _ secondary.TransactionRepository = (*TransactionRepository)(nil)
