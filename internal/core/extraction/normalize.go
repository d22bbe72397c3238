// Package extraction normalizes heterogeneous raw financial records (bank
// statements, e-commerce exports, OCR-scanned documents) into canonical
// transactions. It performs no I/O.
package extraction

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical column names.
const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldType        = "type"
)

// SourceKind tags where a transaction came from.
type SourceKind string

const (
	SourceBankCSV   SourceKind = "bank_csv"
	SourceEcommerce SourceKind = "ecommerce"
	SourceOCR       SourceKind = "ocr"
)

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Fixed categories and description markers.
const (
	CategoryOther    = "other"
	CategorySales    = "sales"
	CategoryPurchase = "purchase"

	ecommercePrefix    = "E-commerce sale: "
	ocrPrefix          = "OCR: "
	ocrDefaultDocument = "Invoice/Receipt"
)

// Transaction is a normalized record ready to be persisted.
// Amount is always a non-negative magnitude; Kind carries the sign.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal
	Kind        Kind
	Category    string
	Description string
	Source      SourceKind
	Raw         map[string]any
}

// Categorize returns the first taxonomy category whose keyword occurs in
// description, or "other".
func Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range taxonomy {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// ClassifyBankAmount applies the bank statement sign rule: a type containing
// "debit" or a negative amount is an expense. The magnitude is returned.
func ClassifyBankAmount(amount decimal.Decimal, txType string) (decimal.Decimal, Kind) {
	if strings.Contains(strings.ToLower(txType), "debit") || amount.IsNegative() {
		return amount.Abs(), KindExpense
	}
	return amount, KindIncome
}

// NormalizeBankStatement parses CSV text exported from a bank.
func NormalizeBankStatement(data any) ([]Transaction, error) {
	table, err := readTable(data, normalizedBankColumns)
	if err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(table.rows))
	for i, row := range table.rows {
		amount, err := ParseAmount(table.cell(row, FieldAmount))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		date, err := ParseDate(table.cell(row, FieldDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		description := table.cell(row, FieldDescription)
		magnitude, kind := ClassifyBankAmount(amount, table.cell(row, FieldType))

		txs = append(txs, Transaction{
			Date:        date,
			Amount:      magnitude,
			Kind:        kind,
			Category:    Categorize(description),
			Description: description,
			Source:      SourceBankCSV,
			Raw:         table.raw(row),
		})
	}
	return txs, nil
}

// NormalizeEcommerce parses a sales export. Every row is income; negative
// rows such as refunds are rejected.
func NormalizeEcommerce(data any) ([]Transaction, error) {
	table, err := readTable(data, normalizedEcommerceColumns)
	if err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(table.rows))
	for i, row := range table.rows {
		amount, err := ParseAmount(table.cell(row, FieldAmount))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("row %d: negative sale amount %s", i+1, amount)
		}
		date, err := ParseDate(table.cell(row, FieldDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		txs = append(txs, Transaction{
			Date:        date,
			Amount:      amount,
			Kind:        KindIncome,
			Category:    CategorySales,
			Description: ecommercePrefix + table.cell(row, FieldDescription),
			Source:      SourceEcommerce,
			Raw:         table.raw(row),
		})
	}
	return txs, nil
}

// NormalizeOCR converts one OCR-extracted document into a single expense.
// data is either a decoded object or its JSON text. A missing date falls back
// to now; a missing amount is treated as zero.
func NormalizeOCR(data any, now time.Time) ([]Transaction, error) {
	doc, err := asObject(data)
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	if v, ok := doc[FieldAmount]; ok && v != nil {
		amount, err = ParseAmount(v)
		if err != nil {
			return nil, err
		}
	}

	date := now
	if v, ok := doc[FieldDate]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("date must be a string, got %T", v)
		}
		date, err = ParseDate(s)
		if err != nil {
			return nil, err
		}
	}

	description := ocrDefaultDocument
	if v, ok := doc[FieldDescription].(string); ok && v != "" {
		description = v
	}

	return []Transaction{{
		Date:        date,
		Amount:      amount.Abs(),
		Kind:        KindExpense,
		Category:    CategoryPurchase,
		Description: ocrPrefix + description,
		Source:      SourceOCR,
		Raw:         doc,
	}}, nil
}

func asObject(data any) (map[string]any, error) {
	switch v := data.(type) {
	case map[string]any:
		return v, nil
	case string:
		var doc map[string]any
		if err := json.Unmarshal([]byte(v), &doc); err != nil {
			return nil, fmt.Errorf("invalid document JSON: %w", err)
		}
		return doc, nil
	case nil:
		return nil, errors.New("missing document payload")
	default:
		return nil, fmt.Errorf("expected document object, got %T", data)
	}
}

// table is a CSV payload with canonical fields resolved to column indexes.
type table struct {
	headers []string
	columns map[string]int
	rows    [][]string
}

func readTable(data any, synonyms []columnSynonyms) (*table, error) {
	text, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("expected CSV text, got %T", data)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV payload")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := &table{
		headers: headers,
		columns: mapColumns(headers, synonyms),
	}
	for _, required := range []string{FieldDate, FieldAmount} {
		if _, ok := t.columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q (headers: %s)", required, strings.Join(headers, ", "))
		}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if isBlank(row) {
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// mapColumns resolves canonical fields to header indexes. For each field the
// synonym list is tried against every header; the first header that matches
// wins and is not reused for another field.
func mapColumns(headers []string, synonyms []columnSynonyms) map[string]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	used := make(map[int]bool, len(headers))
	columns := make(map[string]int, len(synonyms))
	for _, entry := range synonyms {
		for i, h := range normalized {
			if used[i] || !contains(entry.names, h) {
				continue
			}
			columns[entry.field] = i
			used[i] = true
			break
		}
	}
	return columns
}

func (t *table) cell(row []string, field string) string {
	idx, ok := t.columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *table) raw(row []string) map[string]any {
	raw := make(map[string]any, len(t.headers))
	for i, h := range t.headers {
		if i < len(row) {
			raw[strings.TrimSpace(h)] = row[i]
		}
	}
	return raw
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
