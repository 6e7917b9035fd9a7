package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketplace/internal/money"
	"marketplace/internal/store"
	"marketplace/internal/validator"
)

type clientPaymentsPayload struct {
	ID       int64       `json:"id"`
	FullName string      `json:"fullName"`
	Paid     json.Number `json:"paid"`
}

func (h *Handler) BestProfession(w http.ResponseWriter, r *http.Request) {
	start, end, err := validator.DateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "start and end must be valid dates with start <= end")
		return
	}
	best, err := h.reports.BestProfession(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no paid jobs in the given period")
			return
		}
		h.log.Error("failed to compute best profession", "error", err)
		respondError(w, http.StatusInternalServerError, "unable to load report")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"profession":  best.Profession,
		"totalEarned": money.Number(best.TotalEarned),
	})
}

func (h *Handler) BestClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, end, err := validator.DateRange(query.Get("start"), query.Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "start and end must be valid dates with start <= end")
		return
	}
	limit, err := validator.Limit(query.Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	clients, err := h.reports.BestClients(r.Context(), start, end, limit)
	if err != nil {
		h.log.Error("failed to compute best clients", "error", err)
		respondError(w, http.StatusInternalServerError, "unable to load report")
		return
	}
	response := make([]clientPaymentsPayload, 0, len(clients))
	for _, client := range clients {
		response = append(response, clientPaymentsPayload{
			ID:       client.ID,
			FullName: client.FullName(),
			Paid:     money.Number(client.Paid),
		})
	}
	respondJSON(w, http.StatusOK, response)
}
