package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProfileStore interface {
	GetByID(ctx context.Context, profileID int64) (models.Profile, error)
	GetInTx(ctx context.Context, tx store.Getter, profileID int64) (models.Profile, error)
	UpdateBalance(ctx context.Context, tx store.Execer, profileID int64, balance decimal.Decimal, expectedUpdatedAt time.Time) (int64, error)
}

type LedgerStore interface {
	InsertEntries(ctx context.Context, tx store.Execer, entries []store.LedgerEntryInput) error
}

// TransferEngine is the only code path that moves money between two profiles.
type TransferEngine struct {
	profiles ProfileStore
	ledger   LedgerStore
}

func NewTransferEngine(profiles ProfileStore, ledger LedgerStore) *TransferEngine {
	return &TransferEngine{profiles: profiles, ledger: ledger}
}

type Transfer struct {
	// Payer is the snapshot read before the transaction; its UpdatedAt guards the debit.
	Payer       models.Profile
	PayeeID     int64
	Amount      decimal.Decimal
	JobID       *int64
	Description string
}

type TransferResult struct {
	PayerBalance decimal.Decimal
	PayeeBalance decimal.Decimal
}

// Execute debits the payer and credits the payee inside tx. A version guard
// that matches no row returns ErrConflict; the caller must roll back.
func (e *TransferEngine) Execute(ctx context.Context, tx store.Tx, t Transfer) (TransferResult, error) {
	if !t.Amount.IsPositive() {
		return TransferResult{}, ErrInvalidAmount
	}
	if t.Payer.ID == t.PayeeID {
		return TransferResult{}, ErrSameProfileTransfer
	}
	if t.Payer.Balance.LessThan(t.Amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	payerBalance := t.Payer.Balance.Sub(t.Amount)
	rows, err := e.profiles.UpdateBalance(ctx, tx, t.Payer.ID, payerBalance, t.Payer.UpdatedAt)
	if err != nil {
		return TransferResult{}, fmt.Errorf("debit payer: %w", err)
	}
	if rows == 0 {
		return TransferResult{}, ErrConflict
	}

	payee, err := e.profiles.GetInTx(ctx, tx, t.PayeeID)
	if err != nil {
		return TransferResult{}, fmt.Errorf("read payee: %w", err)
	}
	payeeBalance := payee.Balance.Add(t.Amount)
	rows, err = e.profiles.UpdateBalance(ctx, tx, payee.ID, payeeBalance, payee.UpdatedAt)
	if err != nil {
		return TransferResult{}, fmt.Errorf("credit payee: %w", err)
	}
	if rows == 0 {
		return TransferResult{}, ErrConflict
	}

	entries := []store.LedgerEntryInput{
		{
			ID:          uuid.NewString(),
			ProfileID:   t.Payer.ID,
			JobID:       t.JobID,
			Amount:      t.Amount.Neg(),
			Kind:        store.EntryPayment,
			Description: t.Description + " debit",
		},
		{
			ID:          uuid.NewString(),
			ProfileID:   payee.ID,
			JobID:       t.JobID,
			Amount:      t.Amount,
			Kind:        store.EntryPayment,
			Description: t.Description + " credit",
		},
	}
	if err := ensureBalanced(entries); err != nil {
		return TransferResult{}, err
	}
	if err := e.ledger.InsertEntries(ctx, tx, entries); err != nil {
		return TransferResult{}, fmt.Errorf("insert ledger entries: %w", err)
	}
	return TransferResult{PayerBalance: payerBalance, PayeeBalance: payeeBalance}, nil
}

func ensureBalanced(entries []store.LedgerEntryInput) error {
	sum := decimal.Zero
	for _, entry := range entries {
		sum = sum.Add(entry.Amount)
	}
	if !sum.IsZero() {
		return errors.New("ledger entries are not balanced")
	}
	return nil
}
