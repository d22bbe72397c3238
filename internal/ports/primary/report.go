package primary

import "context"

// ReportService defines the primary port for reading analytic results.
type ReportService interface {
	// LatestHealth returns the newest health snapshot for a tenant.
	LatestHealth(ctx context.Context, tenantID string) (*HealthReport, error)

	// ListAlerts lists risk alerts, newest first.
	ListAlerts(ctx context.Context, filters AlertFilters) ([]*Alert, error)

	// ResolveAlert marks an alert resolved.
	ResolveAlert(ctx context.Context, alertID string) error

	// LatestForecast returns the points of the newest forecasting run.
	LatestForecast(ctx context.Context, tenantID string) (*ForecastReport, error)

	// ListRuns lists pipeline runs, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]*Run, error)

	// GetRun retrieves one pipeline run.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// StrengthScore computes the Financial Strength Score for a tenant.
	StrengthScore(ctx context.Context, tenantID string) (*StrengthReport, error)
}

// RiskFlag is one detected risk.
type RiskFlag struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// HealthReport is a stored health snapshot.
type HealthReport struct {
	ID           string
	TenantID     string
	Score        float64
	Metrics      map[string]any
	RiskFlags    []RiskFlag
	CalculatedAt string
}

// Alert is a stored risk alert.
type Alert struct {
	ID         string
	TenantID   string
	Type       string
	Severity   string
	Message    string
	DetectedAt string
	Resolved   bool
	ResolvedAt string
}

// AlertFilters contains filter options for listing alerts.
type AlertFilters struct {
	TenantID       string
	Severity       string
	UnresolvedOnly bool
	Limit          int
}

// ForecastPoint is one forecast day.
type ForecastPoint struct {
	Date      string
	Predicted float64
	Lower     float64
	Upper     float64
}

// ForecastReport is the newest forecast batch of a tenant.
type ForecastReport struct {
	TenantID  string
	BatchID   string
	CreatedAt string
	Points    []ForecastPoint
	Net       float64
}

// Run is a stored pipeline run.
type Run struct {
	ID          string
	TenantID    string
	StageLabel  string
	QueryText   string
	Inputs      string
	Outputs     string
	Status      string
	Error       string
	StartedAt   string
	CompletedAt string
}

// RunFilters contains filter options for listing runs.
type RunFilters struct {
	TenantID string
	Status   string
	Limit    int
}

// StrengthReport is a computed Financial Strength Score.
type StrengthReport struct {
	TenantID     string
	Score        float64
	Features     map[string]any
	CalculatedAt string
}
