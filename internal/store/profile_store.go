package store

import (
	"context"
	"time"

	"marketplace/internal/models"

	"github.com/shopspring/decimal"
)

type ProfileStore struct {
	db DB
}

func NewProfileStore(db DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `id, first_name, last_name, profession, balance, type, created_at, updated_at`

func (s *ProfileStore) GetByID(ctx context.Context, profileID int64) (models.Profile, error) {
	return s.get(ctx, s.db, profileID)
}

// GetInTx reads a profile through the given transaction so the read and the
// following guarded update see the same snapshot.
func (s *ProfileStore) GetInTx(ctx context.Context, tx Getter, profileID int64) (models.Profile, error) {
	return s.get(ctx, tx, profileID)
}

func (s *ProfileStore) get(ctx context.Context, getter Getter, profileID int64) (models.Profile, error) {
	var row models.Profile
	err := getter.GetContext(ctx, &row, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = $1
	`, profileID)
	if err != nil {
		return models.Profile{}, mapNoRows(err)
	}
	return row, nil
}

// UpdateBalance writes balance only if updated_at still equals expectedUpdatedAt.
// It returns the number of rows affected; zero means another writer got there first.
func (s *ProfileStore) UpdateBalance(ctx context.Context, tx Execer, profileID int64, balance decimal.Decimal, expectedUpdatedAt time.Time) (int64, error) {
	// clock_timestamp, not NOW: two updates in one transaction must still get distinct versions.
	res, err := tx.ExecContext(ctx, `
		UPDATE profiles
		SET balance = $1, updated_at = clock_timestamp()
		WHERE id = $2 AND updated_at = $3
	`, balance, profileID, expectedUpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
