package handlers

import (
	"errors"
	"net/http"

	"marketplace/internal/middleware"
	"marketplace/internal/services"
	"marketplace/internal/validator"

	"github.com/go-chi/chi/v5"
)

const paymentFailedMessage = "Failed to process the payment, please try again later"

func (h *Handler) ListUnpaidJobs(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jobs, err := h.jobs.ListUnpaidForProfile(r.Context(), profile.ID)
	if err != nil {
		h.log.Error("failed to list unpaid jobs", "profile_id", profile.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "unable to load jobs")
		return
	}
	response := make([]jobPayload, 0, len(jobs))
	for _, job := range jobs {
		response = append(response, newJobPayload(job))
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) PayForJob(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jobID, err := validator.ID(chi.URLParam(r, "jobId"))
	if err != nil {
		respondError(w, http.StatusNotFound, "The job is not found or you do not have enough privileges to access it.")
		return
	}
	if _, err := h.payments.PayForJob(r.Context(), profile.ID, jobID); err != nil {
		status, message := paymentError(err)
		respondError(w, status, message)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func paymentError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "The job is not found or you do not have enough privileges to access it."
	case errors.Is(err, services.ErrAlreadyPaid):
		return http.StatusConflict, "The job is already paid."
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusBadRequest, "No sufficient funds in balance."
	case errors.Is(err, services.ErrSameProfileTransfer):
		return http.StatusBadRequest, "The client and the contractor of this job are the same profile."
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, paymentFailedMessage
	default:
		return http.StatusInternalServerError, paymentFailedMessage
	}
}
