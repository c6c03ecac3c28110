package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hopebridge/intake/internal/auth"
	"github.com/hopebridge/intake/internal/config"
)

type ctxKey string

const claimsKey ctxKey = "session"

// SessionCookie is the name of the httpOnly cookie carrying the JWT.
const SessionCookie = "session"

// SessionFrom returns the verified session claims, or nil for anonymous requests.
func SessionFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

// WithSession attaches claims to the context when a valid token is present,
// from the session cookie or an Authorization: Bearer header. Invalid or
// missing tokens leave the request anonymous; the Require* guards decide
// whether that is acceptable.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			raw = c.Value
		}
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			raw = strings.TrimPrefix(h, "Bearer ")
		}
		if raw != "" {
			if claims, err := auth.ParseToken(raw, config.Get().JWTSecret); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser blocks anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFrom(r.Context()) == nil {
			writeErr(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin blocks anonymous requests with 401 and non-admin sessions
// with 403, before any handler can mutate state.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := SessionFrom(r.Context())
		if claims == nil {
			writeErr(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !claims.IsAdmin {
			writeErr(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": msg})
}
