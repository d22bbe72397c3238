package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/example/finsight/internal/adapters/sqlite"
	"github.com/example/finsight/internal/ports/secondary"
)

func txRecord(id, tenant string, day int, amount, kind string) *secondary.TransactionRecord {
	return &secondary.TransactionRecord{
		ID:          id,
		TenantID:    tenant,
		Date:        ts(day, 9),
		Amount:      decimal.RequireFromString(amount),
		Kind:        kind,
		Category:    "other",
		Description: "row " + id,
		Source:      "bank_csv",
		RawData:     `{"amount":"` + amount + `"}`,
		CreatedAt:   ts(30, 0),
	}
}

func TestTransactionRepository_CreateBatchAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTransactionRepository(db)
	ctx := context.Background()

	err := repo.CreateBatch(ctx, []*secondary.TransactionRecord{
		txRecord("TX-2", "t1", 5, "50.25", "expense"),
		txRecord("TX-1", "t1", 2, "1000", "income"),
		txRecord("TX-3", "t1", 10, "7.10", "income"),
		txRecord("TX-4", "t2", 6, "99", "income"),
	})
	if err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}

	records, err := repo.ListByTenantSince(ctx, "t1", ts(2, 9))
	if err != nil {
		t.Fatalf("ListByTenantSince failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ID != "TX-1" || records[2].ID != "TX-3" {
		t.Errorf("expected date order TX-1..TX-3, got %s..%s", records[0].ID, records[2].ID)
	}
	if !records[1].Amount.Equal(decimal.RequireFromString("50.25")) {
		t.Errorf("expected amount 50.25, got %s", records[1].Amount)
	}
	if !records[1].Date.Equal(ts(5, 9)) {
		t.Errorf("expected date %v, got %v", ts(5, 9), records[1].Date)
	}
	if records[1].RawData != `{"amount":"50.25"}` {
		t.Errorf("raw data not preserved: %s", records[1].RawData)
	}

	recent, err := repo.ListByTenantSince(ctx, "t1", ts(5, 10))
	if err != nil {
		t.Fatalf("ListByTenantSince failed: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "TX-3" {
		t.Errorf("expected only TX-3 after cutoff, got %d records", len(recent))
	}
}

func TestTransactionRepository_CreateBatchIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTransactionRepository(db)
	ctx := context.Background()

	err := repo.CreateBatch(ctx, []*secondary.TransactionRecord{
		txRecord("TX-1", "t1", 1, "10", "income"),
		txRecord("TX-1", "t1", 2, "20", "income"),
	})
	if err == nil {
		t.Fatal("expected duplicate ID to fail")
	}

	if n := countRows(t, db, "transactions"); n != 0 {
		t.Errorf("expected rollback to leave 0 rows, got %d", n)
	}
}

func TestTransactionRepository_RejectsNegativeAmount(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTransactionRepository(db)

	err := repo.CreateBatch(context.Background(), []*secondary.TransactionRecord{
		txRecord("TX-1", "t1", 1, "-50", "expense"),
	})
	if err == nil {
		t.Fatal("expected negative amount to be rejected")
	}
}
