package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/example/finsight/internal/app"
	"github.com/example/finsight/internal/core/extraction"
)

// inputOptions are the flags shared by commands that hand inputs to stages.
type inputOptions struct {
	inputsFile   string
	bankCSV      []string
	ecommerceCSV []string
	ocrJSON      []string
	daysBack     int
	forecastDays int
}

// build reads the inputs file, if any, then appends one data source per
// payload flag and applies the window overrides.
func (o inputOptions) build() (map[string]any, error) {
	inputs := map[string]any{}
	if o.inputsFile != "" {
		data, err := os.ReadFile(o.inputsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read inputs: %w", err)
		}
		if err := json.Unmarshal(data, &inputs); err != nil {
			return nil, fmt.Errorf("failed to parse inputs %s: %w", o.inputsFile, err)
		}
		if inputs == nil {
			inputs = map[string]any{}
		}
	}

	var sources []any
	if existing, ok := inputs[app.InputDataSources]; ok {
		list, ok := existing.([]any)
		if !ok {
			return nil, fmt.Errorf("inputs: %s must be a list", app.InputDataSources)
		}
		sources = append(sources, list...)
	}

	for _, f := range []struct {
		kind  extraction.SourceKind
		paths []string
	}{
		{extraction.SourceBankCSV, o.bankCSV},
		{extraction.SourceEcommerce, o.ecommerceCSV},
		{extraction.SourceOCR, o.ocrJSON},
	} {
		for _, path := range f.paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s source: %w", f.kind, err)
			}
			sources = append(sources, map[string]any{
				"type": string(f.kind),
				"data": string(data),
			})
		}
	}
	if sources != nil {
		inputs[app.InputDataSources] = sources
	}

	if o.daysBack > 0 {
		inputs[app.InputDaysBack] = o.daysBack
	}
	if o.forecastDays > 0 {
		inputs[app.InputForecastDays] = o.forecastDays
	}

	return inputs, nil
}

// queryText returns the query from file when set, else the arguments joined
// one per line.
func queryText(file string, args []string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read query: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("query text or --file is required")
	}
	return strings.Join(args, "\n"), nil
}
