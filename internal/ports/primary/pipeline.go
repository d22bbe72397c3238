package primary

import "context"

// PipelineService defines the primary port for running analytic stages.
type PipelineService interface {
	// RunQuery validates AgentQL text, executes its stage sequence under an
	// audited pipeline run and returns the filtered output.
	RunQuery(ctx context.Context, req RunQueryRequest) (*RunQueryResponse, error)

	// RunStage executes one named stage directly. No pipeline run is recorded.
	RunStage(ctx context.Context, req RunStageRequest) (map[string]any, error)

	// CheckQuery parses and validates AgentQL text without executing it.
	CheckQuery(text string) (*QuerySummary, error)
}

// RunQueryRequest contains parameters for running a query.
type RunQueryRequest struct {
	Query    string
	TenantID string
	Inputs   map[string]any
}

// RunQueryResponse contains the result of a completed run.
type RunQueryResponse struct {
	RunID  string
	Output map[string]any
}

// RunStageRequest contains parameters for running a single stage.
type RunStageRequest struct {
	Stage    string
	TenantID string
	Inputs   map[string]any
}

// QuerySummary describes a validated query.
type QuerySummary struct {
	StageType     string
	DataSources   []string
	StageSequence []string
	OutputFields  []string
}
