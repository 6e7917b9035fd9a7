package store

import (
	"context"

	"marketplace/internal/models"
)

type ContractStore struct {
	db DB
}

func NewContractStore(db DB) *ContractStore {
	return &ContractStore{db: db}
}

const contractColumns = `id, terms, status, client_id, contractor_id, created_at, updated_at`

// GetForProfile returns the contract only when the profile is its client or contractor.
func (s *ContractStore) GetForProfile(ctx context.Context, contractID, profileID int64) (models.Contract, error) {
	var row models.Contract
	err := s.db.GetContext(ctx, &row, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE id = $1 AND (client_id = $2 OR contractor_id = $2)
	`, contractID, profileID)
	if err != nil {
		return models.Contract{}, mapNoRows(err)
	}
	return row, nil
}

func (s *ContractStore) ListActiveForProfile(ctx context.Context, profileID int64) ([]models.Contract, error) {
	rows := []models.Contract{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE status <> $1 AND (client_id = $2 OR contractor_id = $2)
		ORDER BY id
	`, models.ContractTerminated, profileID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
