package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/finsight/internal/wire"
)

// exampleQuery is the AgentQL shown in help text. One clause per line.
const exampleQuery = `QUERY financial_analysis
USING bank_csv
EXECUTE extraction -> monitoring -> forecasting
RETURN fhi_score, forecast_summary`

func indent(text, prefix string) string {
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}

// QueryCmd returns the query command
func QueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run and validate AgentQL queries",
		Long: `AgentQL selects the stages to run and the fields to return. Clauses go
on separate lines; when the query is given as arguments, each argument is
one line:

` + indent(exampleQuery, "  "),
	}

	cmd.AddCommand(queryRunCmd())
	cmd.AddCommand(queryCheckCmd())

	return cmd
}

func addInputFlags(cmd *cobra.Command, opts *inputOptions) {
	cmd.Flags().StringVarP(&opts.inputsFile, "inputs", "i", "", "JSON file with stage inputs")
	cmd.Flags().StringSliceVar(&opts.bankCSV, "bank-csv", nil, "Bank statement CSV to extract (repeatable)")
	cmd.Flags().StringSliceVar(&opts.ecommerceCSV, "ecommerce-csv", nil, "E-commerce orders CSV to extract (repeatable)")
	cmd.Flags().StringSliceVar(&opts.ocrJSON, "ocr", nil, "OCR document JSON to extract (repeatable)")
	cmd.Flags().IntVar(&opts.daysBack, "days-back", 0, "Lookback window in days")
	cmd.Flags().IntVar(&opts.forecastDays, "forecast-days", 0, "Forecast horizon in days")
}

func queryRunCmd() *cobra.Command {
	var tenantID string
	var file string
	var opts inputOptions

	cmd := &cobra.Command{
		Use:   "run [query]",
		Short: "Execute an AgentQL query for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			text, err := queryText(file, args)
			if err != nil {
				return err
			}
			inputs, err := opts.build()
			if err != nil {
				return err
			}

			return wire.PipelineAdapter().RunQuery(ctx, tenantID, text, inputs)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID (required)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the query from a file")
	addInputFlags(cmd, &opts)
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func queryCheckCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check [query]",
		Short: "Validate an AgentQL query without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := queryText(file, args)
			if err != nil {
				return err
			}
			return wire.PipelineAdapter().CheckQuery(text)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the query from a file")

	return cmd
}
