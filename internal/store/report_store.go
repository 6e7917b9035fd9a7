package store

import (
	"context"
	"time"

	"marketplace/internal/models"
)

type ReportStore struct {
	db DB
}

func NewReportStore(db DB) *ReportStore {
	return &ReportStore{db: db}
}

// BestProfession returns the contractor profession that earned the most from jobs paid in [start, end].
func (s *ReportStore) BestProfession(ctx context.Context, start, end time.Time) (models.ProfessionEarnings, error) {
	var row models.ProfessionEarnings
	err := s.db.GetContext(ctx, &row, `
		SELECT p.profession, SUM(j.price) AS total_earned
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = TRUE AND j.payment_date BETWEEN $1 AND $2
		GROUP BY p.profession
		ORDER BY total_earned DESC
		LIMIT 1
	`, start, end)
	if err != nil {
		return models.ProfessionEarnings{}, mapNoRows(err)
	}
	return row, nil
}

func (s *ReportStore) BestClients(ctx context.Context, start, end time.Time, limit int) ([]models.ClientPayments, error) {
	rows := []models.ClientPayments{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT p.id, p.first_name, p.last_name, SUM(j.price) AS paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = TRUE AND j.payment_date BETWEEN $1 AND $2
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY paid DESC, p.id
		LIMIT $3
	`, start, end, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
