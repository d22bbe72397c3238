package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/ports/secondary"
)

var fixedNow = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// ============================================================================
// Mock Implementations
// ============================================================================

// mockTransactionRepository implements secondary.TransactionRepository for testing.
type mockTransactionRepository struct {
	records   []*secondary.TransactionRecord
	batches   int
	createErr error
	listErr   error
}

func newMockTransactionRepository() *mockTransactionRepository {
	return &mockTransactionRepository{}
}

func (m *mockTransactionRepository) CreateBatch(ctx context.Context, records []*secondary.TransactionRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.batches++
	m.records = append(m.records, records...)
	return nil
}

func (m *mockTransactionRepository) ListByTenantSince(ctx context.Context, tenantID string, since time.Time) ([]*secondary.TransactionRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.TransactionRecord
	for _, r := range m.records {
		if r.TenantID == tenantID && !r.Date.Before(since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// mockHealthSnapshotRepository implements secondary.HealthSnapshotRepository for testing.
type mockHealthSnapshotRepository struct {
	snapshots []*secondary.HealthSnapshotRecord
	createErr error
}

func newMockHealthSnapshotRepository() *mockHealthSnapshotRepository {
	return &mockHealthSnapshotRepository{}
}

func (m *mockHealthSnapshotRepository) Create(ctx context.Context, snapshot *secondary.HealthSnapshotRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

func (m *mockHealthSnapshotRepository) LatestByTenant(ctx context.Context, tenantID string) (*secondary.HealthSnapshotRecord, error) {
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		if m.snapshots[i].TenantID == tenantID {
			return m.snapshots[i], nil
		}
	}
	return nil, nil
}

// mockRiskAlertRepository implements secondary.RiskAlertRepository for testing.
type mockRiskAlertRepository struct {
	alerts      []*secondary.RiskAlertRecord
	lastFilters secondary.RiskAlertFilters
}

func newMockRiskAlertRepository() *mockRiskAlertRepository {
	return &mockRiskAlertRepository{}
}

func (m *mockRiskAlertRepository) Create(ctx context.Context, alert *secondary.RiskAlertRecord) error {
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *mockRiskAlertRepository) List(ctx context.Context, filters secondary.RiskAlertFilters) ([]*secondary.RiskAlertRecord, error) {
	m.lastFilters = filters
	var out []*secondary.RiskAlertRecord
	for i := len(m.alerts) - 1; i >= 0; i-- {
		a := m.alerts[i]
		if filters.TenantID != "" && a.TenantID != filters.TenantID {
			continue
		}
		if filters.UnresolvedOnly && a.Resolved {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockRiskAlertRepository) Resolve(ctx context.Context, id string, at time.Time) error {
	for _, a := range m.alerts {
		if a.ID == id {
			a.Resolved = true
			a.ResolvedAt = &at
			return nil
		}
	}
	return fmt.Errorf("risk alert %s: %w", id, apperrors.ErrNotFound)
}

// mockForecastRepository implements secondary.ForecastRepository for testing.
type mockForecastRepository struct {
	points []*secondary.ForecastPointRecord
}

func newMockForecastRepository() *mockForecastRepository {
	return &mockForecastRepository{}
}

func (m *mockForecastRepository) CreateBatch(ctx context.Context, points []*secondary.ForecastPointRecord) error {
	m.points = append(m.points, points...)
	return nil
}

func (m *mockForecastRepository) LatestByTenant(ctx context.Context, tenantID string) ([]*secondary.ForecastPointRecord, error) {
	latest := ""
	for _, p := range m.points {
		if p.TenantID == tenantID {
			latest = p.BatchID
		}
	}
	var out []*secondary.ForecastPointRecord
	for _, p := range m.points {
		if p.BatchID == latest && latest != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// mockPipelineRunRepository implements secondary.PipelineRunRepository for testing.
type mockPipelineRunRepository struct {
	runs        map[string]*secondary.PipelineRunRecord
	order       []string
	createErr   error
	completeErr error
}

func newMockPipelineRunRepository() *mockPipelineRunRepository {
	return &mockPipelineRunRepository{runs: make(map[string]*secondary.PipelineRunRecord)}
}

func (m *mockPipelineRunRepository) Create(ctx context.Context, run *secondary.PipelineRunRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.runs[run.ID] = run
	m.order = append(m.order, run.ID)
	return nil
}

func (m *mockPipelineRunRepository) Complete(ctx context.Context, update *secondary.PipelineRunCompletion) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	run, ok := m.runs[update.ID]
	if !ok || run.Status != "running" {
		return fmt.Errorf("pipeline run %s is not running", update.ID)
	}
	run.Status = update.Status
	run.Outputs = update.Outputs
	run.Error = update.Error
	completed := update.CompletedAt
	run.CompletedAt = &completed
	return nil
}

func (m *mockPipelineRunRepository) GetByID(ctx context.Context, id string) (*secondary.PipelineRunRecord, error) {
	if run, ok := m.runs[id]; ok {
		return run, nil
	}
	return nil, fmt.Errorf("pipeline run %s: %w", id, apperrors.ErrNotFound)
}

func (m *mockPipelineRunRepository) List(ctx context.Context, filters secondary.PipelineRunFilters) ([]*secondary.PipelineRunRecord, error) {
	var out []*secondary.PipelineRunRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		run := m.runs[m.order[i]]
		if filters.TenantID != "" && run.TenantID != filters.TenantID {
			continue
		}
		out = append(out, run)
	}
	return out, nil
}

// recordingStage implements Stage and records every input it sees.
type recordingStage struct {
	output map[string]any
	err    error
	inputs []map[string]any
}

func (s *recordingStage) Execute(ctx context.Context, tenantID string, inputs map[string]any) (map[string]any, error) {
	s.inputs = append(s.inputs, inputs)
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}
