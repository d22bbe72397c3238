package agentql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/finsight/internal/apperrors"
)

const fullQuery = `
QUERY Credit_Check
USING bank_statements, shop_exports, bank_statements

EXECUTE Extraction -> Monitoring -> Forecasting
RETURN fhi_score, liquidity_risk_score
`

func TestParse_FullQuery(t *testing.T) {
	q := Parse(fullQuery)

	assert.True(t, q.HasQueryClause())
	assert.Equal(t, "credit_check", q.StageType())
	assert.Equal(t, []string{"bank_statements", "shop_exports", "bank_statements"}, q.DataSources())
	assert.Equal(t, []string{"extraction", "monitoring", "forecasting"}, q.StageSequence())
	assert.Equal(t, []string{"fhi_score", "liquidity_risk_score"}, q.OutputFields())
	assert.Equal(t, fullQuery, q.Raw())
}

func TestParse_ExecuteWhitespaceAndCase(t *testing.T) {
	inputs := []string{
		"QUERY x\nEXECUTE extraction -> monitoring",
		"query x\nexecute   EXTRACTION->Monitoring  ",
		"  Query x  \n\tExecute extraction   ->   monitoring\t",
	}

	for _, in := range inputs {
		q := Parse(in)
		assert.Equal(t, []string{"extraction", "monitoring"}, q.StageSequence(), "input %q", in)
	}
}

func TestParse_IgnoresUnknownLines(t *testing.T) {
	q := Parse("-- comment\nQUERY x\nSELECT * FROM nowhere\nEXECUTE monitoring")

	assert.Equal(t, "x", q.StageType())
	assert.Equal(t, []string{"monitoring"}, q.StageSequence())
	assert.Empty(t, q.DataSources())
	assert.Empty(t, q.OutputFields())
}

func TestParse_DuplicateStagesKept(t *testing.T) {
	q := Parse("QUERY x\nEXECUTE monitoring -> monitoring")

	assert.Equal(t, []string{"monitoring", "monitoring"}, q.StageSequence())
}

func TestParse_AccessorsReturnCopies(t *testing.T) {
	q := Parse(fullQuery)
	seq := q.StageSequence()
	seq[0] = "tampered"

	assert.Equal(t, "extraction", q.StageSequence()[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantAllowed bool
		wantCode    Code
		wantReason  string
	}{
		{
			name:        "valid query",
			text:        "QUERY x\nEXECUTE extraction -> monitoring -> forecasting",
			wantAllowed: true,
		},
		{
			name:       "missing QUERY",
			text:       "EXECUTE extraction -> monitoring",
			wantCode:   CodeMissingQuery,
			wantReason: "Missing QUERY clause",
		},
		{
			name:       "missing EXECUTE",
			text:       "QUERY x\nRETURN fhi_score",
			wantCode:   CodeMissingExecute,
			wantReason: "Missing EXECUTE clause",
		},
		{
			name:       "unknown stage names first offender",
			text:       "QUERY x\nEXECUTE extraction -> unknownstage -> scoring",
			wantCode:   CodeUnknownStage,
			wantReason: "Invalid agent: unknownstage",
		},
		{
			name:       "trailing arrow yields empty stage",
			text:       "QUERY x\nEXECUTE extraction ->",
			wantCode:   CodeUnknownStage,
			wantReason: "Invalid agent: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(Parse(tt.text))

			assert.Equal(t, tt.wantAllowed, result.Allowed)
			assert.Equal(t, tt.wantCode, result.Code)
			assert.Equal(t, tt.wantReason, result.Reason)
			if tt.wantAllowed {
				assert.NoError(t, result.Error())
			} else {
				assert.ErrorIs(t, result.Error(), apperrors.ErrInvalidQuery)
			}
		})
	}
}

func TestParseAndValidate(t *testing.T) {
	q, err := ParseAndValidate(fullQuery)
	require.NoError(t, err)
	assert.Equal(t, "credit_check", q.StageType())

	q, err = ParseAndValidate("QUERY x\nEXECUTE extraction -> unknownstage")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)
	assert.Contains(t, err.Error(), "unknownstage")
	assert.Empty(t, q.StageSequence())
}

func TestSummary(t *testing.T) {
	s := Parse("QUERY x\nEXECUTE monitoring").Summary()

	assert.Equal(t, Summary{
		StageType:     "x",
		DataSources:   []string{},
		StageSequence: []string{"monitoring"},
		OutputFields:  []string{},
	}, s)
}
