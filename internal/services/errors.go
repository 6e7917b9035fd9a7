package services

import (
	"errors"
	"fmt"

	"marketplace/internal/logger"
)

var (
	ErrNotFound            = errors.New("the job is not found or you do not have enough privileges to access it")
	ErrAlreadyPaid         = errors.New("the job is already paid")
	ErrInsufficientFunds   = errors.New("no sufficient funds in balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrSameProfileTransfer = errors.New("cannot transfer to the same profile")
	ErrForbidden           = errors.New("target balance is not found")
	ErrLimitExceeded       = errors.New("a client can't deposit more than 25% of their total of jobs to pay")
	ErrConflict            = errors.New("balance was modified concurrently")
	ErrPersistence         = errors.New("storage failure")
)

var domainErrors = []error{
	ErrNotFound,
	ErrAlreadyPaid,
	ErrInsufficientFunds,
	ErrInvalidAmount,
	ErrSameProfileTransfer,
	ErrForbidden,
	ErrLimitExceeded,
	ErrConflict,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// persistenceFailure logs the storage error with its context and hides it behind ErrPersistence.
func persistenceFailure(log *logger.Logger, msg string, err error, keysAndValues ...any) error {
	log.Error(msg, append(keysAndValues, "error", err)...)
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyPaid):
		return "already_paid"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrSameProfileTransfer):
		return "same_profile"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
