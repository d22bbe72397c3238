package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Source is one raw input handed to the extraction stage.
type Source struct {
	Kind string
	Data any
}

// ParseAmount converts a cell or JSON value into a decimal. Strings may carry
// currency symbols, thousands separators and accounting-style parentheses.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return parseAmountString(n)
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}

func parseAmountString(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
	}
	cleaned = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "").Replace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseDate parses s with the first matching layout. Results are in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseSources decodes the "data_sources" input into sources. Entries are
// objects with a "type" and a "data" member.
func ParseSources(v any) ([]Source, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []Source:
		return list, nil
	case []map[string]any:
		sources := make([]Source, 0, len(list))
		for _, m := range list {
			sources = append(sources, sourceFromMap(m))
		}
		return sources, nil
	case []any:
		sources := make([]Source, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("data_sources[%d]: expected object, got %T", i, item)
			}
			sources = append(sources, sourceFromMap(m))
		}
		return sources, nil
	default:
		return nil, fmt.Errorf("data_sources: expected list, got %T", v)
	}
}

func sourceFromMap(m map[string]any) Source {
	kind, _ := m["type"].(string)
	return Source{
		Kind: strings.ToLower(strings.TrimSpace(kind)),
		Data: m["data"],
	}
}

// Normalize dispatches a source to its normalizer. The second return value is
// false for unrecognized kinds, which callers skip.
func Normalize(src Source, now time.Time) ([]Transaction, bool, error) {
	var (
		txs []Transaction
		err error
	)
	switch SourceKind(src.Kind) {
	case SourceBankCSV:
		txs, err = NormalizeBankStatement(src.Data)
	case SourceEcommerce:
		txs, err = NormalizeEcommerce(src.Data)
	case SourceOCR:
		txs, err = NormalizeOCR(src.Data, now)
	default:
		return nil, false, nil
	}
	return txs, true, err
}
