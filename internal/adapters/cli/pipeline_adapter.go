package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/finsight/internal/ports/primary"
)

// PipelineAdapter translates CLI operations to PipelineService calls.
type PipelineAdapter struct {
	service primary.PipelineService
	out     io.Writer
}

// NewPipelineAdapter creates a new PipelineAdapter with the given service.
func NewPipelineAdapter(service primary.PipelineService, out io.Writer) *PipelineAdapter {
	return &PipelineAdapter{
		service: service,
		out:     out,
	}
}

// RunQuery executes AgentQL text for a tenant and prints the filtered output.
func (a *PipelineAdapter) RunQuery(ctx context.Context, tenantID, query string, inputs map[string]any) error {
	resp, err := a.service.RunQuery(ctx, primary.RunQueryRequest{
		Query:    query,
		TenantID: tenantID,
		Inputs:   inputs,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Run %s %s\n", resp.RunID, statusLabel("completed"))
	return writeJSON(a.out, resp.Output)
}

// RunStage executes one stage directly and prints its output.
func (a *PipelineAdapter) RunStage(ctx context.Context, stage, tenantID string, inputs map[string]any) error {
	output, err := a.service.RunStage(ctx, primary.RunStageRequest{
		Stage:    stage,
		TenantID: tenantID,
		Inputs:   inputs,
	})
	if err != nil {
		return err
	}

	if status, ok := output["status"].(string); ok {
		fmt.Fprintf(a.out, "Stage %s: %s\n", strings.ToLower(strings.TrimSpace(stage)), statusLabel(status))
	}
	return writeJSON(a.out, output)
}

// CheckQuery validates AgentQL text and prints what it would run.
func (a *PipelineAdapter) CheckQuery(query string) error {
	summary, err := a.service.CheckQuery(query)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "✓ Query is valid")
	fmt.Fprintf(a.out, "Query:   %s\n", summary.StageType)
	fmt.Fprintf(a.out, "Sources: %s\n", orAll(summary.DataSources))
	fmt.Fprintf(a.out, "Stages:  %s\n", strings.Join(summary.StageSequence, " -> "))
	fmt.Fprintf(a.out, "Returns: %s\n", orAll(summary.OutputFields))
	return nil
}
