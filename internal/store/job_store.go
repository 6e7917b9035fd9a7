package store

import (
	"context"
	"time"

	"marketplace/internal/models"

	"github.com/shopspring/decimal"
)

type JobStore struct {
	db DB
}

func NewJobStore(db DB) *JobStore {
	return &JobStore{db: db}
}

const jobWithContractColumns = `
		j.id, j.description, j.price, j.paid, j.payment_date, j.contract_id, j.created_at, j.updated_at,
		c.id AS "contract.id",
		c.terms AS "contract.terms",
		c.status AS "contract.status",
		c.client_id AS "contract.client_id",
		c.contractor_id AS "contract.contractor_id",
		c.created_at AS "contract.created_at",
		c.updated_at AS "contract.updated_at"`

// ListUnpaidForProfile lists unpaid jobs of in-progress contracts the profile is part of.
func (s *JobStore) ListUnpaidForProfile(ctx context.Context, profileID int64) ([]models.JobWithContract, error) {
	rows := []models.JobWithContract{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+jobWithContractColumns+`
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.status = $1
		  AND j.paid = FALSE
		  AND (c.client_id = $2 OR c.contractor_id = $2)
		ORDER BY j.id
	`, models.ContractInProgress, profileID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetPayableForClient finds a job only if clientID is the client on its contract.
func (s *JobStore) GetPayableForClient(ctx context.Context, jobID, clientID int64) (models.JobWithContract, error) {
	var row models.JobWithContract
	err := s.db.GetContext(ctx, &row, `
		SELECT `+jobWithContractColumns+`
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.id = $1 AND c.client_id = $2
	`, jobID, clientID)
	if err != nil {
		return models.JobWithContract{}, mapNoRows(err)
	}
	return row, nil
}

// MarkPaid flips an unpaid job to paid. Zero rows affected means it was already paid.
func (s *JobStore) MarkPaid(ctx context.Context, tx Execer, jobID int64, paidAt time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE jobs
		SET paid = TRUE, payment_date = $1, updated_at = NOW()
		WHERE id = $2 AND paid = FALSE
	`, paidAt, jobID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SumUnpaidForClient totals the price of every unpaid job the client owes, zero when none.
func (s *JobStore) SumUnpaidForClient(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(j.price), 0)
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = $1 AND j.paid = FALSE
	`, clientID)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
