package pipeline

import "sort"

// StageOutput is the full output of one executed stage.
type StageOutput struct {
	Stage  StageID
	Output map[string]any
}

// BuildStageInput returns the input for the next stage: the caller's original
// inputs followed by every prior stage output, in execution order. Each output
// is visible both nested under its stage name and flattened into the top
// level, where a later stage's keys shadow identically-named earlier keys.
func BuildStageInput(original Accumulator, prior []StageOutput) Accumulator {
	acc := original
	for _, p := range prior {
		acc = acc.With(string(p.Stage), p.Output)
		acc = acc.Merge(p.Output)
	}
	return acc
}

// FilterOutputs applies a RETURN clause to accumulated results.
// An empty field list returns every result. For each requested field an exact
// top-level key wins; otherwise the nested maps are scanned in execution order
// and the first match is taken. Fields found nowhere are omitted.
func FilterOutputs(results Accumulator, fields []string) map[string]any {
	if len(fields) == 0 {
		return results.Map()
	}

	filtered := make(map[string]any, len(fields))
	for _, field := range fields {
		if v, ok := results.Get(field); ok {
			filtered[field] = v
			continue
		}
		for _, key := range results.Keys() {
			v, _ := results.Get(key)
			nested, ok := v.(map[string]any)
			if !ok {
				continue
			}
			if inner, found := nested[field]; found {
				filtered[field] = inner
				break
			}
		}
	}
	return filtered
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
