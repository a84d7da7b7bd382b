package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"spincycle/internal/auth"
	"spincycle/internal/store"
)

// RequireAuth validates the bearer token, checks the profile and household
// membership, and populates the AuthContext for downstream handlers.
func RequireAuth(tokens *store.TokenStore, users *store.UserStore, households *store.HouseholdStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			sess, err := tokens.GetByToken(token)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByUID(sess.UID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			member, err := households.GetMember(user.HouseholdCode, user.UID)
			if err != nil || member == nil {
				unauthorized(w)
				return
			}

			ac := auth.AuthContext{
				UID:           user.UID,
				FullName:      user.FullName,
				HouseholdCode: user.HouseholdCode,
				TokenID:       sess.ID,
			}

			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	// WebSocket clients cannot set headers from a browser; allow query param.
	return r.URL.Query().Get("token")
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
