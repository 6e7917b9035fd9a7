package handlers

import (
	"errors"
	"net/http"

	"marketplace/internal/middleware"
	"marketplace/internal/store"
	"marketplace/internal/validator"

	"github.com/go-chi/chi/v5"
)

// GetContract returns the contract only when the caller is its client or contractor.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	contractID, err := validator.ID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "contract not found")
		return
	}
	contract, err := h.contracts.GetForProfile(r.Context(), contractID, profile.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "contract not found")
			return
		}
		h.log.Error("failed to load contract", "profile_id", profile.ID, "contract_id", contractID, "error", err)
		respondError(w, http.StatusInternalServerError, "unable to load contract")
		return
	}
	respondJSON(w, http.StatusOK, contract)
}

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	contracts, err := h.contracts.ListActiveForProfile(r.Context(), profile.ID)
	if err != nil {
		h.log.Error("failed to list contracts", "profile_id", profile.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "unable to load contracts")
		return
	}
	respondJSON(w, http.StatusOK, contracts)
}
