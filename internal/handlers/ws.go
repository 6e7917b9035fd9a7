package handlers

import (
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/auth"
	"marketplace/internal/store"
	"marketplace/internal/websocket"
)

// WSBalances authenticates with ?token= (browsers cannot set headers on upgrade)
// or a bearer header, then streams the caller's balance updates.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	_, err = h.profiles.GetByID(r.Context(), claims.ProfileID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err != nil {
		h.log.Error("failed to resolve profile", "profile_id", claims.ProfileID, "error", err)
		respondError(w, http.StatusInternalServerError, "unable to resolve profile")
		return
	}
	h.log.Debug("balance feed requested", "profile_id", claims.ProfileID)
	websocket.ServeWS(w, r, h.hub, claims.ProfileID)
}
