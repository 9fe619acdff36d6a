package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const SessionKey contextKey = "session"

// Middleware requires a valid session token, taken from a Bearer
// Authorization header or, for websocket upgrades, the token query
// parameter.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
				return
			}
			token = parts[1]
		}
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
			return
		}

		sess, err := s.Validate(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session stored by Middleware, or nil.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(SessionKey).(*Session)
	return sess
}
