package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketplace/internal/middleware"
	"marketplace/internal/money"
	"marketplace/internal/services"
	"marketplace/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const depositFailedMessage = "Failed to process the deposit, please try again later"

type depositRequest struct {
	Amount json.RawMessage `json:"amount"`
}

// Deposit credits the caller's own balance. An unreadable amount is passed on as
// zero so the target check still runs first.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	targetID, err := validator.ID(chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusForbidden, "Target balance is not found.")
		return
	}
	var req depositRequest
	amount := decimal.Zero
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		if parsed, err := money.ParseJSON(req.Amount); err == nil {
			amount = parsed
		}
	}
	if _, err := h.deposits.Deposit(r.Context(), profile.ID, targetID, amount); err != nil {
		status, message := depositError(err)
		respondError(w, status, message)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func depositError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "Target balance is not found."
	case errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest, `Invalid request. "amount" is undefined or invalid.`
	case errors.Is(err, services.ErrLimitExceeded):
		return http.StatusBadRequest, "A client can't deposit more than 25% his total of jobs to pay."
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, depositFailedMessage
	default:
		return http.StatusInternalServerError, depositFailedMessage
	}
}

// SelfCheck compares the caller's stored balance with the sum of their ledger entries.
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ledgerSum, err := h.ledger.SumByProfile(r.Context(), profile.ID)
	if err != nil {
		h.log.Error("failed to sum ledger", "profile_id", profile.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "unable to self_check")
		return
	}
	difference := profile.Balance.Sub(ledgerSum)
	respondJSON(w, http.StatusOK, map[string]any{
		"profile_id":      profile.ID,
		"profile_balance": money.Number(profile.Balance),
		"ledger_sum":      money.Number(ledgerSum),
		"difference":      money.Number(difference),
		"consistent":      difference.IsZero(),
	})
}
