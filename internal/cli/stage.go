package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/finsight/internal/core/pipeline"
	"github.com/example/finsight/internal/wire"
)

// StageCmd returns the stage command
func StageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Run a single analytic stage",
	}

	cmd.AddCommand(stageRunCmd())

	return cmd
}

func stageNames() string {
	var names []string
	for _, id := range pipeline.KnownStages() {
		names = append(names, string(id))
	}
	return strings.Join(names, ", ")
}

func stageRunCmd() *cobra.Command {
	var tenantID string
	var opts inputOptions

	cmd := &cobra.Command{
		Use:   "run [stage]",
		Short: "Run one stage directly without recording a pipeline run",
		Long:  fmt.Sprintf("Run one stage directly. Stages: %s.", stageNames()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			inputs, err := opts.build()
			if err != nil {
				return err
			}

			return wire.PipelineAdapter().RunStage(ctx, args[0], tenantID, inputs)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID (required)")
	addInputFlags(cmd, &opts)
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
