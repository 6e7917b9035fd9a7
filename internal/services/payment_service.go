package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/db"
	"marketplace/internal/logger"
	"marketplace/internal/metrics"
	"marketplace/internal/models"
	"marketplace/internal/money"
	"marketplace/internal/store"
	"marketplace/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type JobStore interface {
	GetPayableForClient(ctx context.Context, jobID, clientID int64) (models.JobWithContract, error)
	MarkPaid(ctx context.Context, tx store.Execer, jobID int64, paidAt time.Time) (int64, error)
	SumUnpaidForClient(ctx context.Context, clientID int64) (decimal.Decimal, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID int64, action, entityType string, entityID int64, data string) error
}

type BalanceHub interface {
	BroadcastBalance(update websocket.BalanceUpdate)
}

type PaymentResult struct {
	JobID             int64
	ClientID          int64
	ContractorID      int64
	Amount            decimal.Decimal
	ClientBalance     decimal.Decimal
	ContractorBalance decimal.Decimal
	PaidAt            time.Time
}

type PaymentService struct {
	txRunner    db.TxRunner
	profiles    ProfileStore
	jobs        JobStore
	engine      *TransferEngine
	audit       AuditStore
	hub         BalanceHub
	log         *logger.Logger
	maxAttempts int
	now         func() time.Time
}

func NewPaymentService(txRunner db.TxRunner, profiles ProfileStore, jobs JobStore, engine *TransferEngine, audit AuditStore, hub BalanceHub, log *logger.Logger, maxAttempts int) *PaymentService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &PaymentService{
		txRunner:    txRunner,
		profiles:    profiles,
		jobs:        jobs,
		engine:      engine,
		audit:       audit,
		hub:         hub,
		log:         log,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// PayForJob moves the job price from the client to the contractor and marks
// the job paid, all or nothing. Version conflicts restart the whole
// read-check-write sequence up to maxAttempts times.
func (s *PaymentService) PayForJob(ctx context.Context, clientID, jobID int64) (PaymentResult, error) {
	var (
		result PaymentResult
		err    error
	)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err = s.payOnce(ctx, clientID, jobID)
		if !errors.Is(err, ErrConflict) {
			break
		}
		metrics.TransferConflictsTotal.WithLabelValues("payment").Inc()
		s.log.Warn("job payment lost a concurrent update", "profile_id", clientID, "job_id", jobID, "attempt", attempt)
	}
	metrics.PaymentsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		return PaymentResult{}, err
	}

	s.log.Info("job paid", "profile_id", clientID, "job_id", jobID, "contractor_id", result.ContractorID, "amount", money.Format(result.Amount))
	if s.hub != nil {
		s.hub.BroadcastBalance(websocket.BalanceUpdate{ProfileID: result.ClientID, Balance: money.Number(result.ClientBalance), Reason: "payment"})
		s.hub.BroadcastBalance(websocket.BalanceUpdate{ProfileID: result.ContractorID, Balance: money.Number(result.ContractorBalance), Reason: "payment"})
	}
	return result, nil
}

func (s *PaymentService) payOnce(ctx context.Context, clientID, jobID int64) (PaymentResult, error) {
	job, err := s.jobs.GetPayableForClient(ctx, jobID, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return PaymentResult{}, ErrNotFound
		}
		return PaymentResult{}, persistenceFailure(s.log, "failed to load job", err, "profile_id", clientID, "job_id", jobID)
	}
	if job.Paid {
		return PaymentResult{}, ErrAlreadyPaid
	}

	payer, err := s.profiles.GetByID(ctx, clientID)
	if err != nil {
		return PaymentResult{}, persistenceFailure(s.log, "failed to load client profile", err, "profile_id", clientID, "job_id", jobID)
	}
	if payer.Balance.LessThan(job.Price) {
		return PaymentResult{}, ErrInsufficientFunds
	}

	paidAt := s.now().UTC()
	var transfer TransferResult
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var txErr error
		transfer, txErr = s.engine.Execute(ctx, tx, Transfer{
			Payer:       payer,
			PayeeID:     job.Contract.ContractorID,
			Amount:      job.Price,
			JobID:       &job.ID,
			Description: fmt.Sprintf("job %d payment", job.ID),
		})
		if txErr != nil {
			return txErr
		}

		rows, txErr := s.jobs.MarkPaid(ctx, tx, job.ID, paidAt)
		if txErr != nil {
			return fmt.Errorf("mark job paid: %w", txErr)
		}
		if rows == 0 {
			// Paid by a concurrent request; the next attempt reports ErrAlreadyPaid.
			return ErrConflict
		}

		data, txErr := json.Marshal(map[string]any{
			"contractor_id": job.Contract.ContractorID,
			"amount":        money.Number(job.Price),
		})
		if txErr != nil {
			return txErr
		}
		return s.audit.Log(ctx, tx, clientID, "job.pay", "job", job.ID, string(data))
	})
	if err != nil {
		if isDomainError(err) {
			return PaymentResult{}, err
		}
		return PaymentResult{}, persistenceFailure(s.log, "failed to process the payment", err, "profile_id", clientID, "job_id", jobID)
	}

	return PaymentResult{
		JobID:             job.ID,
		ClientID:          clientID,
		ContractorID:      job.Contract.ContractorID,
		Amount:            job.Price,
		ClientBalance:     transfer.PayerBalance,
		ContractorBalance: transfer.PayeeBalance,
		PaidAt:            paidAt,
	}, nil
}
