package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace/internal/db"
	"marketplace/internal/logger"
	"marketplace/internal/metrics"
	"marketplace/internal/money"
	"marketplace/internal/store"
	"marketplace/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// DepositLimitRatio caps a deposit at this share of the client's unpaid jobs.
var DepositLimitRatio = decimal.RequireFromString("0.25")

type DepositLedger interface {
	InsertEntries(ctx context.Context, tx store.Execer, entries []store.LedgerEntryInput) error
}

type DepositResult struct {
	ProfileID   int64
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	TotalUnpaid decimal.Decimal
}

type DepositService struct {
	txRunner    db.TxRunner
	profiles    ProfileStore
	jobs        JobStore
	ledger      DepositLedger
	audit       AuditStore
	hub         BalanceHub
	log         *logger.Logger
	maxAttempts int
}

func NewDepositService(txRunner db.TxRunner, profiles ProfileStore, jobs JobStore, ledger DepositLedger, audit AuditStore, hub BalanceHub, log *logger.Logger, maxAttempts int) *DepositService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &DepositService{
		txRunner:    txRunner,
		profiles:    profiles,
		jobs:        jobs,
		ledger:      ledger,
		audit:       audit,
		hub:         hub,
		log:         log,
		maxAttempts: maxAttempts,
	}
}

// Deposit credits amount to the caller's own balance. The amount may not
// exceed DepositLimitRatio of the caller's unpaid jobs, so a client
// with nothing to pay cannot deposit at all.
func (s *DepositService) Deposit(ctx context.Context, callerID, targetID int64, amount decimal.Decimal) (DepositResult, error) {
	var (
		result DepositResult
		err    error
	)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err = s.depositOnce(ctx, callerID, targetID, amount)
		if !errors.Is(err, ErrConflict) {
			break
		}
		metrics.TransferConflictsTotal.WithLabelValues("deposit").Inc()
		s.log.Warn("deposit lost a concurrent update", "profile_id", callerID, "attempt", attempt)
	}
	metrics.DepositsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		return DepositResult{}, err
	}

	s.log.Info("balance deposited", "profile_id", callerID, "amount", money.Format(amount), "balance", money.Format(result.Balance))
	if s.hub != nil {
		s.hub.BroadcastBalance(websocket.BalanceUpdate{ProfileID: callerID, Balance: money.Number(result.Balance), Reason: "deposit"})
	}
	return result, nil
}

func (s *DepositService) depositOnce(ctx context.Context, callerID, targetID int64, amount decimal.Decimal) (DepositResult, error) {
	if targetID != callerID {
		return DepositResult{}, ErrForbidden
	}
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(money.Scale)) {
		return DepositResult{}, ErrInvalidAmount
	}

	totalUnpaid, err := s.jobs.SumUnpaidForClient(ctx, callerID)
	if err != nil {
		return DepositResult{}, persistenceFailure(s.log, "failed to sum unpaid jobs", err, "profile_id", callerID)
	}
	if amount.GreaterThan(totalUnpaid.Mul(DepositLimitRatio)) {
		s.log.Info("deposit rejected by unpaid jobs limit", "profile_id", callerID, "amount_to_pay", money.Format(totalUnpaid), "deposit", money.Format(amount))
		return DepositResult{}, ErrLimitExceeded
	}

	var balance decimal.Decimal
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		profile, txErr := s.profiles.GetInTx(ctx, tx, callerID)
		if txErr != nil {
			if errors.Is(txErr, store.ErrNotFound) {
				return ErrForbidden
			}
			return fmt.Errorf("read profile: %w", txErr)
		}
		balance = profile.Balance.Add(amount)
		rows, txErr := s.profiles.UpdateBalance(ctx, tx, profile.ID, balance, profile.UpdatedAt)
		if txErr != nil {
			return fmt.Errorf("credit balance: %w", txErr)
		}
		if rows == 0 {
			return ErrConflict
		}

		entry := store.LedgerEntryInput{
			ID:          uuid.NewString(),
			ProfileID:   profile.ID,
			Amount:      amount,
			Kind:        store.EntryDeposit,
			Description: "balance deposit",
		}
		if txErr := s.ledger.InsertEntries(ctx, tx, []store.LedgerEntryInput{entry}); txErr != nil {
			return fmt.Errorf("insert ledger entry: %w", txErr)
		}

		data, txErr := json.Marshal(map[string]any{"amount": money.Number(amount)})
		if txErr != nil {
			return txErr
		}
		return s.audit.Log(ctx, tx, callerID, "balance.deposit", "profile", profile.ID, string(data))
	})
	if err != nil {
		if isDomainError(err) {
			return DepositResult{}, err
		}
		return DepositResult{}, persistenceFailure(s.log, "failed to deposit", err, "profile_id", callerID)
	}

	return DepositResult{ProfileID: callerID, Amount: amount, Balance: balance, TotalUnpaid: totalUnpaid}, nil
}
