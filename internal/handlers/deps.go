package handlers

import (
	"context"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/shopspring/decimal"
)

type ProfileStore interface {
	GetByID(ctx context.Context, profileID int64) (models.Profile, error)
}

type ContractStore interface {
	GetForProfile(ctx context.Context, contractID, profileID int64) (models.Contract, error)
	ListActiveForProfile(ctx context.Context, profileID int64) ([]models.Contract, error)
}

type JobStore interface {
	ListUnpaidForProfile(ctx context.Context, profileID int64) ([]models.JobWithContract, error)
}

type ReportStore interface {
	BestProfession(ctx context.Context, start, end time.Time) (models.ProfessionEarnings, error)
	BestClients(ctx context.Context, start, end time.Time, limit int) ([]models.ClientPayments, error)
}

type LedgerStore interface {
	SumByProfile(ctx context.Context, profileID int64) (decimal.Decimal, error)
}

type PaymentService interface {
	PayForJob(ctx context.Context, clientID, jobID int64) (services.PaymentResult, error)
}

type DepositService interface {
	Deposit(ctx context.Context, callerID, targetID int64, amount decimal.Decimal) (services.DepositResult, error)
}
