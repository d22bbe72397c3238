package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/example/finsight/internal/core/agentql"
)

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

// TestCommandStructure verifies each command group registers its subcommands.
func TestCommandStructure(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		subs []string
	}{
		{QueryCmd(), []string{"run", "check"}},
		{StageCmd(), []string{"run"}},
		{AlertsCmd(), []string{"list", "resolve"}},
		{RunsCmd(), []string{"list", "show"}},
	}

	for _, tt := range tests {
		for _, name := range tt.subs {
			sub := findSubcommand(tt.cmd, name)
			if sub == nil {
				t.Errorf("%s: subcommand %q not registered", tt.cmd.Name(), name)
				continue
			}
			if sub.Short == "" {
				t.Errorf("%s %s: missing Short description", tt.cmd.Name(), name)
			}
		}
	}
}

// TestTenantFlagRequired verifies tenant-scoped commands demand --tenant.
func TestTenantFlagRequired(t *testing.T) {
	cmds := []*cobra.Command{
		findSubcommand(QueryCmd(), "run"),
		findSubcommand(StageCmd(), "run"),
		HealthCmd(),
		ForecastCmd(),
		ScoreCmd(),
	}

	for _, cmd := range cmds {
		flag := cmd.Flags().Lookup("tenant")
		if flag == nil {
			t.Errorf("%s: missing --tenant flag", cmd.CommandPath())
			continue
		}
		if _, ok := flag.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
			t.Errorf("%s: --tenant should be required", cmd.CommandPath())
		}
	}
}

func TestStageRunLongListsStages(t *testing.T) {
	run := findSubcommand(StageCmd(), "run")
	want := "extraction, monitoring, forecasting"
	if got := run.Long; got != "Run one stage directly. Stages: "+want+"." {
		t.Errorf("Long = %q", got)
	}
}

// TestExampleQueryIsValid verifies the AgentQL shown in help text parses and
// validates, both as written and as it appears in the query help.
func TestExampleQueryIsValid(t *testing.T) {
	q, err := agentql.ParseAndValidate(exampleQuery)
	if err != nil {
		t.Fatalf("example query rejected: %v", err)
	}
	want := []string{"extraction", "monitoring", "forecasting"}
	if got := q.StageSequence(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("StageSequence = %v, want %v", got, want)
	}

	long := QueryCmd().Long
	idx := strings.Index(long, "QUERY ")
	if idx < 0 {
		t.Fatal("query help has no example")
	}
	if _, err := agentql.ParseAndValidate(long[idx:]); err != nil {
		t.Errorf("example in query help rejected: %v", err)
	}
}
