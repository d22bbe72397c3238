package app

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/core/pipeline"
	"github.com/example/finsight/internal/ports/primary"
)

func newTestPipelineService(stages StageRegistry) (*PipelineServiceImpl, *mockPipelineRunRepository) {
	runs := newMockPipelineRunRepository()
	return NewPipelineService(stages, runs, hclog.NewNullLogger(), fixedClock), runs
}

func TestRunQuery_InvalidQueryCreatesNoRun(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown stage", "QUERY x\nEXECUTE extraction -> unknownstage"},
		{"missing query", "EXECUTE monitoring"},
		{"missing execute", "QUERY x\nRETURN fhi_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extraction := &recordingStage{output: map[string]any{}}
			service, runs := newTestPipelineService(StageRegistry{pipeline.StageExtraction: extraction})

			_, err := service.RunQuery(context.Background(), primary.RunQueryRequest{Query: tt.query, TenantID: "t1"})

			if !errors.Is(err, apperrors.ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
			if len(runs.runs) != 0 {
				t.Errorf("expected no pipeline run, got %d", len(runs.runs))
			}
			if len(extraction.inputs) != 0 {
				t.Error("expected no stage to execute")
			}
		})
	}
}

func TestRunQuery_AccumulatesStageInputs(t *testing.T) {
	extraction := &recordingStage{output: map[string]any{"status": "success", "transactions_extracted": 3}}
	monitoring := &recordingStage{output: map[string]any{"status": "success", "fhi_score": 72.5}}
	service, runs := newTestPipelineService(StageRegistry{
		pipeline.StageExtraction: extraction,
		pipeline.StageMonitoring: monitoring,
	})

	resp, err := service.RunQuery(context.Background(), primary.RunQueryRequest{
		Query:    "QUERY health\nEXECUTE Extraction -> MONITORING",
		TenantID: "t1",
		Inputs:   map[string]any{"days_back": 30},
	})
	if err != nil {
		t.Fatalf("RunQuery failed: %v", err)
	}

	if got := extraction.inputs[0]; len(got) != 1 || got["days_back"] != 30 {
		t.Errorf("extraction should see only the original inputs, got %v", got)
	}
	seen := monitoring.inputs[0]
	if seen["days_back"] != 30 || seen["transactions_extracted"] != 3 {
		t.Errorf("monitoring should see original and flattened prior output, got %v", seen)
	}
	if nested, ok := seen["extraction"].(map[string]any); !ok || nested["status"] != "success" {
		t.Errorf("monitoring should see prior output under its stage name, got %v", seen["extraction"])
	}

	if _, ok := resp.Output["extraction_result"]; !ok {
		t.Error("expected extraction_result in unfiltered output")
	}
	if _, ok := resp.Output["monitoring_result"]; !ok {
		t.Error("expected monitoring_result in unfiltered output")
	}

	run := runs.runs[resp.RunID]
	if run.Status != "completed" || run.StageLabel != "orchestration" || run.CompletedAt == nil {
		t.Errorf("expected completed orchestration run, got %+v", run)
	}
	if !strings.Contains(run.Inputs, `"days_back":30`) {
		t.Errorf("expected inputs snapshot, got %s", run.Inputs)
	}
}

func TestRunQuery_FiltersOutputs(t *testing.T) {
	service, runs := newTestPipelineService(StageRegistry{
		pipeline.StageMonitoring:  &recordingStage{output: map[string]any{"status": "success", "fhi_score": 72.5}},
		pipeline.StageForecasting: &recordingStage{output: map[string]any{"status": "success", "liquidity_risk_score": 15.0}},
	})

	resp, err := service.RunQuery(context.Background(), primary.RunQueryRequest{
		Query:    "QUERY q\nEXECUTE monitoring -> forecasting\nRETURN fhi_score, liquidity_risk_score, forecasting_result, missing",
		TenantID: "t1",
	})
	if err != nil {
		t.Fatalf("RunQuery failed: %v", err)
	}

	if len(resp.Output) != 3 {
		t.Errorf("expected 3 filtered fields, got %v", resp.Output)
	}
	if resp.Output["fhi_score"] != 72.5 || resp.Output["liquidity_risk_score"] != 15.0 {
		t.Errorf("unexpected filtered output %v", resp.Output)
	}
	if _, ok := resp.Output["forecasting_result"].(map[string]any); !ok {
		t.Error("expected exact top-level match for forecasting_result")
	}

	stored := runs.runs[resp.RunID].Outputs
	if strings.Contains(stored, "monitoring_result") || !strings.Contains(stored, "fhi_score") {
		t.Errorf("expected filtered output snapshot, got %s", stored)
	}
}

func TestRunQuery_StageFailureMarksRunFailed(t *testing.T) {
	boom := errors.New("disk full")
	forecasting := &recordingStage{output: map[string]any{}}
	service, runs := newTestPipelineService(StageRegistry{
		pipeline.StageMonitoring:  &recordingStage{err: boom},
		pipeline.StageForecasting: forecasting,
	})

	resp, err := service.RunQuery(context.Background(), primary.RunQueryRequest{
		Query:    "QUERY q\nEXECUTE monitoring -> forecasting",
		TenantID: "t1",
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected original stage error, got %v", err)
	}
	if resp != nil {
		t.Error("expected no partial output")
	}
	if len(forecasting.inputs) != 0 {
		t.Error("expected later stages to be skipped")
	}
	if len(runs.runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs.runs))
	}
	for _, run := range runs.runs {
		if run.Status != "failed" || run.Error != "disk full" || run.Outputs != "" {
			t.Errorf("expected failed run with error text, got %+v", run)
		}
	}
}

func TestRunQuery_UnregisteredStage(t *testing.T) {
	service, runs := newTestPipelineService(StageRegistry{})

	_, err := service.RunQuery(context.Background(), primary.RunQueryRequest{
		Query:    "QUERY q\nEXECUTE forecasting",
		TenantID: "t1",
	})

	if !errors.Is(err, apperrors.ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
	for _, run := range runs.runs {
		if run.Status != "failed" {
			t.Errorf("expected failed run, got %s", run.Status)
		}
	}
}

func TestRunQuery_RunCreateFails(t *testing.T) {
	stage := &recordingStage{output: map[string]any{}}
	service, runs := newTestPipelineService(StageRegistry{pipeline.StageMonitoring: stage})
	runs.createErr = errors.New("locked")

	_, err := service.RunQuery(context.Background(), primary.RunQueryRequest{Query: "QUERY q\nEXECUTE monitoring", TenantID: "t1"})

	if err == nil {
		t.Fatal("expected error")
	}
	if len(stage.inputs) != 0 {
		t.Error("expected no stage to run without an audit record")
	}
}

func TestRunStage(t *testing.T) {
	monitoring := &recordingStage{output: map[string]any{"fhi_score": 90.0}}
	service, runs := newTestPipelineService(StageRegistry{pipeline.StageMonitoring: monitoring})

	out, err := service.RunStage(context.Background(), primary.RunStageRequest{Stage: " Monitoring ", TenantID: "t1", Inputs: map[string]any{"days_back": 7}})
	if err != nil {
		t.Fatalf("RunStage failed: %v", err)
	}
	if out["fhi_score"] != 90.0 {
		t.Errorf("expected stage output, got %v", out)
	}
	if monitoring.inputs[0]["days_back"] != 7 {
		t.Errorf("expected inputs passed through, got %v", monitoring.inputs[0])
	}
	if len(runs.runs) != 0 {
		t.Error("expected no pipeline run for a direct stage call")
	}

	_, err = service.RunStage(context.Background(), primary.RunStageRequest{Stage: "sentiment", TenantID: "t1"})
	if !errors.Is(err, apperrors.ErrUnknownAgent) {
		t.Errorf("expected ErrUnknownAgent, got %v", err)
	}
}

func TestCheckQuery(t *testing.T) {
	service, _ := newTestPipelineService(StageRegistry{})

	summary, err := service.CheckQuery("query Health\nusing bank, bank\nexecute extraction->monitoring\nreturn fhi_score")
	if err != nil {
		t.Fatalf("CheckQuery failed: %v", err)
	}
	if summary.StageType != "health" || len(summary.DataSources) != 2 || len(summary.StageSequence) != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}

	if _, err := service.CheckQuery("QUERY x\nEXECUTE extraction -> unknownstage"); !errors.Is(err, apperrors.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

// ============================================================================
// End to end over the real stages
// ============================================================================

func TestRunQuery_EndToEnd(t *testing.T) {
	txRepo := newMockTransactionRepository()
	snapshots := newMockHealthSnapshotRepository()
	alerts := newMockRiskAlertRepository()
	forecasts := newMockForecastRepository()
	logger := hclog.NewNullLogger()

	service, runs := newTestPipelineService(StageRegistry{
		pipeline.StageExtraction:  NewExtractionStage(txRepo, logger, fixedClock),
		pipeline.StageMonitoring:  NewMonitoringStage(txRepo, snapshots, alerts, logger, fixedClock, 90),
		pipeline.StageForecasting: NewForecastingStage(txRepo, forecasts, logger, fixedClock, 90, 30),
	})

	resp, err := service.RunQuery(context.Background(), primary.RunQueryRequest{
		Query:    "QUERY full_assessment\nUSING bank_csv\nEXECUTE extraction -> monitoring -> forecasting\nRETURN transactions_extracted, fhi_score, liquidity_risk_score",
		TenantID: "t1",
		Inputs: map[string]any{
			InputDataSources:  []any{bankSource(threeDayCSV)},
			InputForecastDays: 5,
		},
	})
	if err != nil {
		t.Fatalf("RunQuery failed: %v", err)
	}

	if resp.Output["transactions_extracted"] != 3 {
		t.Errorf("expected 3 extracted, got %v", resp.Output["transactions_extracted"])
	}
	wantFHI := 100 - 15 + (1-400.0/600.0)*10
	if fhi := resp.Output["fhi_score"].(float64); math.Abs(fhi-wantFHI) > 1e-9 {
		t.Errorf("expected FHI %.4f, got %.4f", wantFHI, fhi)
	}
	if _, ok := resp.Output["liquidity_risk_score"]; !ok {
		t.Error("expected liquidity_risk_score")
	}

	if len(snapshots.snapshots) != 1 || len(forecasts.points) != 5 {
		t.Errorf("expected 1 snapshot and 5 forecast points, got %d and %d", len(snapshots.snapshots), len(forecasts.points))
	}
	if runs.runs[resp.RunID].Status != "completed" {
		t.Errorf("expected completed run, got %s", runs.runs[resp.RunID].Status)
	}
}
