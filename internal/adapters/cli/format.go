// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

const rule = "────────────────────────────────────────────────────────────────"

func severityLabel(severity string) string {
	upper := strings.ToUpper(severity)
	switch severity {
	case "critical":
		return color.New(color.FgHiRed, color.Bold).Sprint(upper)
	case "high":
		return color.New(color.FgRed).Sprint(upper)
	case "medium":
		return color.New(color.FgYellow).Sprint(upper)
	default:
		return color.New(color.FgHiBlack).Sprint(upper)
	}
}

func statusLabel(status string) string {
	switch status {
	case "completed", "success":
		return color.New(color.FgGreen).Sprint(status)
	case "failed":
		return color.New(color.FgRed).Sprint(status)
	case "running", "insufficient_data":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return status
	}
}

// scoreLabel colours a 0-100 score where higher is healthier.
func scoreLabel(score float64) string {
	s := fmt.Sprintf("%.2f", score)
	switch {
	case score >= 70:
		return color.New(color.FgGreen).Sprint(s)
	case score >= 40:
		return color.New(color.FgYellow).Sprint(s)
	default:
		return color.New(color.FgRed).Sprint(s)
	}
}

// padded right-pads a coloured label to width using the length of the raw
// text, so escape codes do not break column alignment.
func padded(label, raw string, width int) string {
	if n := width - len(raw); n > 0 {
		return label + strings.Repeat(" ", n)
	}
	return label
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func writeMap(out io.Writer, indent string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			fmt.Fprintf(out, "%s%-36s %.4f\n", indent, k, v)
		default:
			fmt.Fprintf(out, "%s%-36s %v\n", indent, k, v)
		}
	}
}

func orAll(list []string) string {
	if len(list) == 0 {
		return "(all)"
	}
	return strings.Join(list, ", ")
}
