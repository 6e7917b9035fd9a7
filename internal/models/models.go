package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProfileType string

const (
	ProfileClient     ProfileType = "client"
	ProfileContractor ProfileType = "contractor"
)

type ContractStatus string

const (
	ContractNew        ContractStatus = "new"
	ContractInProgress ContractStatus = "in_progress"
	ContractTerminated ContractStatus = "terminated"
)

// Profile.UpdatedAt doubles as the optimistic-lock version for balance updates.
type Profile struct {
	ID         int64           `db:"id" json:"id"`
	FirstName  string          `db:"first_name" json:"firstName"`
	LastName   string          `db:"last_name" json:"lastName"`
	Profession string          `db:"profession" json:"profession"`
	Balance    decimal.Decimal `db:"balance" json:"balance"`
	Type       ProfileType     `db:"type" json:"type"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Contract struct {
	ID           int64          `db:"id" json:"id"`
	Terms        string         `db:"terms" json:"terms"`
	Status       ContractStatus `db:"status" json:"status"`
	ClientID     int64          `db:"client_id" json:"ClientId"`
	ContractorID int64          `db:"contractor_id" json:"ContractorId"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

type Job struct {
	ID          int64           `db:"id" json:"id"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Paid        bool            `db:"paid" json:"paid"`
	PaymentDate *time.Time      `db:"payment_date" json:"paymentDate"`
	ContractID  int64           `db:"contract_id" json:"ContractId"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// JobWithContract is a job joined with the contract it belongs to.
type JobWithContract struct {
	Job
	Contract Contract `db:"contract" json:"Contract"`
}

type ProfessionEarnings struct {
	Profession  string          `db:"profession" json:"profession"`
	TotalEarned decimal.Decimal `db:"total_earned" json:"totalEarned"`
}

type ClientPayments struct {
	ID        int64           `db:"id" json:"id"`
	FirstName string          `db:"first_name" json:"-"`
	LastName  string          `db:"last_name" json:"-"`
	Paid      decimal.Decimal `db:"paid" json:"paid"`
}

func (c ClientPayments) FullName() string {
	return c.FirstName + " " + c.LastName
}
