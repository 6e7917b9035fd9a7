package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"marketplace/internal/auth"
	"marketplace/internal/logger"
	"marketplace/internal/models"
	"marketplace/internal/store"
)

type contextKey string

const profileKey contextKey = "profile"

// ProfileHeader carries a bare profile id when no bearer token is sent.
const ProfileHeader = "profile_id"

type ProfileLoader interface {
	GetByID(ctx context.Context, profileID int64) (models.Profile, error)
}

func ProfileFromContext(ctx context.Context) (models.Profile, bool) {
	profile, ok := ctx.Value(profileKey).(models.Profile)
	return profile, ok
}

func WithProfile(ctx context.Context, profile models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// Auth resolves the calling profile. An unknown profile is 401; a failed lookup is 500.
func Auth(secret string, profiles ProfileLoader, log *logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID, ok := profileIDFromRequest(r, secret)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			profile, err := profiles.GetByID(r.Context(), profileID)
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.Error("failed to resolve profile", "profile_id", profileID, "error", err)
				http.Error(w, "unable to resolve profile", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
		})
	}
}

func profileIDFromRequest(r *http.Request, secret string) (int64, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return 0, false
		}
		claims, err := auth.ParseToken(secret, parts[1])
		if err != nil {
			return 0, false
		}
		return claims.ProfileID, true
	}
	raw := strings.TrimSpace(r.Header.Get(ProfileHeader))
	if raw == "" {
		return 0, false
	}
	profileID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || profileID <= 0 {
		return 0, false
	}
	return profileID, true
}
