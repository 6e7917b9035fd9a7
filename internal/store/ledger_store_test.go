package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerStoreInsertEntries(t *testing.T) {
	ctx := context.Background()
	calls := 0
	jobID := int64(9)
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO ledger_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 6 {
				t.Fatalf("expected 6 args, got %d", len(args))
			}
			if args[2] != &jobID {
				t.Fatalf("unexpected job id arg: %#v", args[2])
			}
			calls++
			return stubResult{rows: 1}, nil
		},
	}
	store := NewLedgerStore(stubDB{})
	entries := []LedgerEntryInput{
		{ID: "1", ProfileID: 1, JobID: &jobID, Amount: decimal.NewFromInt(-100), Kind: EntryPayment, Description: "a"},
		{ID: "2", ProfileID: 2, JobID: &jobID, Amount: decimal.NewFromInt(100), Kind: EntryPayment, Description: "b"},
	}
	if err := store.InsertEntries(ctx, execer, entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 inserts, got %d", calls)
	}
}

func TestLedgerStoreSumByProfile(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM ledger_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != int64(1) {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*decimal.Decimal) = decimal.RequireFromString("10.50")
			return nil
		},
	})
	sum, err := store.SumByProfile(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("unexpected sum: %s", sum)
	}
}
