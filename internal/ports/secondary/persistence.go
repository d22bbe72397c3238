// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRepository defines the secondary port for canonical transactions.
// Transactions are append-only.
type TransactionRepository interface {
	// CreateBatch persists all records atomically.
	CreateBatch(ctx context.Context, records []*TransactionRecord) error

	// ListByTenantSince returns a tenant's transactions dated at or after since, oldest first.
	ListByTenantSince(ctx context.Context, tenantID string, since time.Time) ([]*TransactionRecord, error)
}

// TransactionRecord represents a transaction as stored in persistence.
type TransactionRecord struct {
	ID          string
	TenantID    string
	Date        time.Time
	Amount      decimal.Decimal // non-negative magnitude
	Kind        string          // "income" or "expense"
	Category    string
	Description string
	Source      string
	RawData     string // JSON of the source row or document
	CreatedAt   time.Time
}

// HealthSnapshotRepository defines the secondary port for health snapshots.
type HealthSnapshotRepository interface {
	// Create persists a new snapshot. Earlier snapshots are kept.
	Create(ctx context.Context, snapshot *HealthSnapshotRecord) error

	// LatestByTenant returns the most recent snapshot, or nil when none exists.
	LatestByTenant(ctx context.Context, tenantID string) (*HealthSnapshotRecord, error)
}

// HealthSnapshotRecord represents one monitoring result.
type HealthSnapshotRecord struct {
	ID           string
	TenantID     string
	Score        float64
	Metrics      string // JSON object
	RiskFlags    string // JSON array
	CalculatedAt time.Time
}

// RiskAlertRepository defines the secondary port for risk alerts.
type RiskAlertRepository interface {
	// Create persists a new alert.
	Create(ctx context.Context, alert *RiskAlertRecord) error

	// List retrieves alerts matching the filters, newest first.
	List(ctx context.Context, filters RiskAlertFilters) ([]*RiskAlertRecord, error)

	// Resolve marks an alert resolved.
	Resolve(ctx context.Context, id string, at time.Time) error
}

// RiskAlertRecord represents an alert as stored in persistence.
type RiskAlertRecord struct {
	ID         string
	TenantID   string
	AlertType  string
	Severity   string
	Message    string
	Metadata   string // JSON of the originating flag
	DetectedAt time.Time
	Resolved   bool
	ResolvedAt *time.Time
}

// RiskAlertFilters contains filter options for querying alerts.
type RiskAlertFilters struct {
	TenantID       string
	Severity       string
	UnresolvedOnly bool
	Limit          int
}

// ForecastRepository defines the secondary port for forecast points.
// Every forecasting run appends a new batch; nothing is replaced.
type ForecastRepository interface {
	// CreateBatch persists the points of one run atomically.
	CreateBatch(ctx context.Context, points []*ForecastPointRecord) error

	// LatestByTenant returns the points of the most recently created batch,
	// ordered by forecast date. Empty when the tenant has no forecast.
	LatestByTenant(ctx context.Context, tenantID string) ([]*ForecastPointRecord, error)
}

// ForecastPointRecord represents one forecast day.
type ForecastPointRecord struct {
	ID           string
	TenantID     string
	BatchID      string
	ForecastDate time.Time
	Predicted    float64
	Lower        float64
	Upper        float64
	CreatedAt    time.Time
}

// PipelineRunRepository defines the secondary port for the run audit trail.
type PipelineRunRepository interface {
	// Create persists a new run.
	Create(ctx context.Context, run *PipelineRunRecord) error

	// Complete moves a running run to its terminal status. It fails when the
	// run is not currently running.
	Complete(ctx context.Context, update *PipelineRunCompletion) error

	// GetByID retrieves a run by its ID.
	GetByID(ctx context.Context, id string) (*PipelineRunRecord, error)

	// List retrieves runs matching the filters, newest first.
	List(ctx context.Context, filters PipelineRunFilters) ([]*PipelineRunRecord, error)
}

// PipelineRunRecord represents a run as stored in persistence.
type PipelineRunRecord struct {
	ID          string
	TenantID    string
	StageLabel  string
	QueryText   string // empty for direct stage calls
	Inputs      string // JSON object
	Outputs     string // JSON object, empty until completed
	Status      string
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// PipelineRunCompletion is the single terminal mutation of a run.
type PipelineRunCompletion struct {
	ID          string
	Status      string
	Outputs     string
	Error       string
	CompletedAt time.Time
}

// PipelineRunFilters contains filter options for querying runs.
type PipelineRunFilters struct {
	TenantID string
	Status   string
	Limit    int
}
