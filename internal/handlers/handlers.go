package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/money"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

type jobPayload struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Price       json.Number     `json:"price"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"paymentDate"`
	ContractID  int64           `json:"ContractId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Contract    models.Contract `json:"Contract"`
}

func newJobPayload(job models.JobWithContract) jobPayload {
	return jobPayload{
		ID:          job.ID,
		Description: job.Description,
		Price:       money.Number(job.Price),
		Paid:        job.Paid,
		PaymentDate: job.PaymentDate,
		ContractID:  job.ContractID,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		Contract:    job.Contract,
	}
}
