package agentql

import (
	"regexp"
	"strings"
)

var (
	queryLine   = regexp.MustCompile(`(?i)^QUERY\s+(\w+)`)
	usingLine   = regexp.MustCompile(`(?i)^USING\s+(.+)$`)
	executeLine = regexp.MustCompile(`(?i)^EXECUTE\s+(.+)$`)
	returnLine  = regexp.MustCompile(`(?i)^RETURN\s+(.+)$`)
)

// Parse reads AgentQL text. It never fails; a repeated clause replaces the
// earlier one.
func Parse(text string) Query {
	q := Query{raw: text}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := queryLine.FindStringSubmatch(line); m != nil {
			q.stageType = strings.ToLower(m[1])
			q.hasQuery = true
			continue
		}
		if m := usingLine.FindStringSubmatch(line); m != nil {
			q.dataSources = splitList(m[1])
			continue
		}
		if m := executeLine.FindStringSubmatch(line); m != nil {
			q.stageSequence = splitSequence(m[1])
			continue
		}
		if m := returnLine.FindStringSubmatch(line); m != nil {
			q.outputFields = dedupe(splitList(m[1]))
		}
	}

	return q
}

// splitSequence splits an EXECUTE clause on "->". Empty tokens are kept so
// that validation can reject them.
func splitSequence(clause string) []string {
	parts := strings.Split(clause, "->")
	stages := make([]string, len(parts))
	for i, p := range parts {
		stages[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return stages
}

func splitList(clause string) []string {
	var out []string
	for _, p := range strings.Split(clause, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
