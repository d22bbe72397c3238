// Package agentql parses and validates AgentQL, the line-oriented language
// that declares which analytic stages a pipeline run executes.
//
//	QUERY credit_check
//	USING bank_statements, shop_exports
//	EXECUTE extraction -> monitoring -> forecasting
//	RETURN fhi_score, liquidity_risk_score
//
// Parsing never fails: unknown lines are ignored. Validation is a separate,
// explicit step.
package agentql

// Query is a parsed AgentQL document. It is immutable once parsed; accessors
// return copies.
type Query struct {
	raw           string
	stageType     string
	hasQuery      bool
	dataSources   []string
	stageSequence []string
	outputFields  []string
}

// Raw returns the original query text.
func (q Query) Raw() string { return q.raw }

// StageType returns the lower-cased QUERY identifier.
func (q Query) StageType() string { return q.stageType }

// HasQueryClause reports whether a QUERY line was present.
func (q Query) HasQueryClause() bool { return q.hasQuery }

// DataSources returns the USING sources in declaration order.
func (q Query) DataSources() []string { return clone(q.dataSources) }

// StageSequence returns the EXECUTE stages in order. Duplicates are kept.
func (q Query) StageSequence() []string { return clone(q.stageSequence) }

// OutputFields returns the RETURN fields. Empty means every output.
func (q Query) OutputFields() []string { return clone(q.outputFields) }

// Summary is a serializable view of a query.
type Summary struct {
	StageType     string   `json:"stage_type"`
	DataSources   []string `json:"data_sources"`
	StageSequence []string `json:"stage_sequence"`
	OutputFields  []string `json:"output_fields"`
}

// Summary returns the parsed clauses as a plain struct.
func (q Query) Summary() Summary {
	return Summary{
		StageType:     q.stageType,
		DataSources:   q.DataSources(),
		StageSequence: q.StageSequence(),
		OutputFields:  q.OutputFields(),
	}
}

func clone(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
