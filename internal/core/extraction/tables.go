package extraction

import "strings"

// columnSynonyms maps a canonical field to the header spellings that feed it.
type columnSynonyms struct {
	field string
	names []string
}

var bankColumns = []columnSynonyms{
	{field: FieldDate, names: []string{"date", "transaction_date", "txn_date", "posted_date", "posting_date", "value_date", "booking_date"}},
	{field: FieldAmount, names: []string{"amount", "value", "transaction_amount", "amt"}},
	{field: FieldDescription, names: []string{"description", "memo", "details", "narration", "particulars", "payee"}},
	{field: FieldType, names: []string{"type", "transaction_type", "txn_type", "dr_cr", "debit_credit"}},
}

var ecommerceColumns = []columnSynonyms{
	{field: FieldDate, names: []string{"date", "order_date", "sale_date", "created_at", "paid_at"}},
	{field: FieldAmount, names: []string{"amount", "total", "revenue", "sales", "order_total", "gross"}},
	{field: FieldDescription, names: []string{"description", "product", "order_id", "item", "sku"}},
}

// categoryRule is one entry of the keyword taxonomy. Rules are checked in
// order and the first keyword hit wins.
type categoryRule struct {
	category string
	keywords []string
}

var taxonomy = []categoryRule{
	{category: "salary", keywords: []string{"salary", "payroll", "wage"}},
	{category: "rent", keywords: []string{"rent", "lease"}},
	{category: "utilities", keywords: []string{"electricity", "water", "internet", "phone", "utility"}},
	{category: "supplies", keywords: []string{"supplies", "materials", "inventory"}},
	{category: "marketing", keywords: []string{"marketing", "advertising", "ad"}},
	{category: "travel", keywords: []string{"travel", "transport", "fuel", "gas"}},
	{category: "sales", keywords: []string{"sale", "revenue", "income", "payment received"}},
}

// dateLayouts are tried in order when parsing a date cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// normalizedSynonyms is built once so header matching never re-normalizes
// the tables.
var (
	normalizedBankColumns      = normalizeTable(bankColumns)
	normalizedEcommerceColumns = normalizeTable(ecommerceColumns)
)

func normalizeTable(table []columnSynonyms) []columnSynonyms {
	out := make([]columnSynonyms, len(table))
	for i, entry := range table {
		names := make([]string, len(entry.names))
		for j, n := range entry.names {
			names[j] = normalizeHeader(n)
		}
		out[i] = columnSynonyms{field: entry.field, names: names}
	}
	return out
}

// normalizeHeader converts "Transaction Date" → "transaction_date".
func normalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(h, `"`, "")
	h = strings.ToLower(h)
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

// Categories returns the taxonomy category names in rule order, followed by
// the fallback category.
func Categories() []string {
	out := make([]string, 0, len(taxonomy)+1)
	for _, rule := range taxonomy {
		out = append(out, rule.category)
	}
	return append(out, CategoryOther)
}
