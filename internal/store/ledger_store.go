package store

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	EntryPayment = "payment"
	EntryDeposit = "deposit"
	EntryOpening = "opening"
)

type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) InsertEntries(ctx context.Context, tx Execer, entries []LedgerEntryInput) error {
	query := `
		INSERT INTO ledger_entries (id, profile_id, job_id, amount, kind, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query, entry.ID, entry.ProfileID, entry.JobID, entry.Amount, entry.Kind, entry.Description); err != nil {
			return err
		}
	}
	return nil
}

func (s *LedgerStore) SumByProfile(ctx context.Context, profileID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE profile_id = $1
	`, profileID)
	return sum, err
}

type LedgerEntryInput struct {
	ID          string
	ProfileID   int64
	JobID       *int64
	Amount      decimal.Decimal
	Kind        string
	Description string
}
