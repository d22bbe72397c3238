package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/example/finsight/internal/apperrors"
	"github.com/example/finsight/internal/core/agentql"
	"github.com/example/finsight/internal/core/pipeline"
	"github.com/example/finsight/internal/ctxutil"
	"github.com/example/finsight/internal/ports/primary"
	"github.com/example/finsight/internal/ports/secondary"
)

// PipelineServiceImpl implements the PipelineService interface.
// It is the orchestrator: it runs AgentQL stage sequences and keeps the
// pipeline run audit trail.
type PipelineServiceImpl struct {
	stages  StageRegistry
	runRepo secondary.PipelineRunRepository
	logger  hclog.Logger
	clock   Clock
}

// NewPipelineService creates a new PipelineService with injected dependencies.
func NewPipelineService(stages StageRegistry, runRepo secondary.PipelineRunRepository, logger hclog.Logger, clock Clock) *PipelineServiceImpl {
	return &PipelineServiceImpl{
		stages:  stages,
		runRepo: runRepo,
		logger:  logger,
		clock:   clock,
	}
}

// RunQuery validates the query before any write, then executes its stages in
// order. A failing stage marks the run failed and its error is returned
// unchanged. Writes made by earlier stages are not undone.
func (s *PipelineServiceImpl) RunQuery(ctx context.Context, req primary.RunQueryRequest) (*primary.RunQueryResponse, error) {
	query, err := agentql.ParseAndValidate(req.Query)
	if err != nil {
		return nil, err
	}

	original := pipeline.NewAccumulator(req.Inputs)
	inputsJSON, err := toJSON(original.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to encode run inputs: %w", err)
	}

	run := &secondary.PipelineRunRecord{
		ID:         uuid.NewString(),
		TenantID:   req.TenantID,
		StageLabel: pipeline.OrchestrationLabel,
		QueryText:  req.Query,
		Inputs:     inputsJSON,
		Status:     string(pipeline.InitialRunStatus()),
		StartedAt:  s.clock.now(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create pipeline run: %w", err)
	}

	ctx = ctxutil.WithTenantID(ctxutil.WithRunID(ctx, run.ID), req.TenantID)
	logger := s.logger.With("run", run.ID, "tenant", req.TenantID)
	logger.Info("pipeline run started", "query", query.StageType(), "stages", query.StageSequence())

	results, err := s.executeSequence(ctx, logger, req.TenantID, query.StageSequence(), original)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		s.finishRun(ctx, logger, run.ID, pipeline.RunFailed, "", err.Error())
		return nil, err
	}

	filtered := pipeline.FilterOutputs(results, query.OutputFields())
	outputsJSON, err := toJSON(filtered)
	if err != nil {
		err = fmt.Errorf("failed to encode run outputs: %w", err)
		s.finishRun(ctx, logger, run.ID, pipeline.RunFailed, "", err.Error())
		return nil, err
	}

	if err := s.finishRun(ctx, logger, run.ID, pipeline.RunCompleted, outputsJSON, ""); err != nil {
		return nil, err
	}

	logger.Info("pipeline run completed")
	return &primary.RunQueryResponse{
		RunID:  run.ID,
		Output: filtered,
	}, nil
}

func (s *PipelineServiceImpl) executeSequence(ctx context.Context, logger hclog.Logger, tenantID string, sequence []string, original pipeline.Accumulator) (pipeline.Accumulator, error) {
	var (
		results pipeline.Accumulator
		prior   []pipeline.StageOutput
	)

	for _, name := range sequence {
		id, known := pipeline.ParseStageID(name)
		stage, registered := s.stages[id]
		if !known || !registered {
			return pipeline.Accumulator{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownStage, name)
		}

		input := pipeline.BuildStageInput(original, prior)
		started := time.Now()
		output, err := stage.Execute(ctx, tenantID, input.Map())
		if err != nil {
			return pipeline.Accumulator{}, err
		}
		if output == nil {
			output = map[string]any{}
		}
		logger.Debug("stage finished", "stage", id, "elapsed", time.Since(started))

		prior = append(prior, pipeline.StageOutput{Stage: id, Output: output})
		results = results.With(pipeline.ResultKey(id), output)
	}

	return results, nil
}

// finishRun moves the run to its terminal status. The write is attempted even
// when ctx has been cancelled.
func (s *PipelineServiceImpl) finishRun(ctx context.Context, logger hclog.Logger, runID string, status pipeline.RunStatus, outputs, errText string) error {
	if guard := pipeline.CanTransition(pipeline.InitialRunStatus(), status); !guard.Allowed {
		return guard.Error()
	}
	transition := pipeline.ApplyRunTransition(status, s.clock.now())

	err := s.runRepo.Complete(context.WithoutCancel(ctx), &secondary.PipelineRunCompletion{
		ID:          runID,
		Status:      string(transition.NewStatus),
		Outputs:     outputs,
		Error:       errText,
		CompletedAt: *transition.CompletedAt,
	})
	if err != nil {
		logger.Error("failed to record run status", "status", status, "error", err)
		return fmt.Errorf("failed to update pipeline run: %w", err)
	}
	return nil
}

// RunStage executes one stage directly. No pipeline run is recorded.
func (s *PipelineServiceImpl) RunStage(ctx context.Context, req primary.RunStageRequest) (map[string]any, error) {
	id, known := pipeline.ParseStageID(req.Stage)
	stage, registered := s.stages[id]
	if !known || !registered {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAgent, req.Stage)
	}

	inputs := pipeline.NewAccumulator(req.Inputs).Map()
	output, err := stage.Execute(ctxutil.WithTenantID(ctx, req.TenantID), req.TenantID, inputs)
	if err != nil {
		s.logger.Error("stage failed", "stage", id, "tenant", req.TenantID, "error", err)
		return nil, err
	}
	return output, nil
}

// CheckQuery parses and validates AgentQL text without executing it.
func (s *PipelineServiceImpl) CheckQuery(text string) (*primary.QuerySummary, error) {
	query, err := agentql.ParseAndValidate(text)
	if err != nil {
		return nil, err
	}
	summary := query.Summary()
	return &primary.QuerySummary{
		StageType:     summary.StageType,
		DataSources:   summary.DataSources,
		StageSequence: summary.StageSequence,
		OutputFields:  summary.OutputFields,
	}, nil
}

// Ensure PipelineServiceImpl implements the interface
var _ primary.PipelineService = (*PipelineServiceImpl)(nil)
