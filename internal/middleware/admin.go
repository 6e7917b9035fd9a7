package middleware

import (
	"context"
	"net/http"
)

type AdminStore interface {
	IsAdmin(ctx context.Context, profileID int64) (bool, error)
}

// AdminSet is an AdminStore backed by a fixed list of profile ids from configuration.
type AdminSet map[int64]struct{}

func NewAdminSet(ids []int64) AdminSet {
	set := make(AdminSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s AdminSet) IsAdmin(_ context.Context, profileID int64) (bool, error) {
	_, ok := s[profileID]
	return ok, nil
}

// RequireAdmin must run after Auth.
func RequireAdmin(admins AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := ProfileFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			isAdmin, err := admins.IsAdmin(r.Context(), profile.ID)
			if err != nil {
				http.Error(w, "unable to verify admin", http.StatusInternalServerError)
				return
			}
			if !isAdmin {
				http.Error(w, "admin privileges required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
