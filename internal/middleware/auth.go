// Package middleware provides HTTP middlewares for authentication, logging
// and metrics.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"go.uber.org/zap"
)

type ctxKey string

const (
	userKey ctxKey = "user"
	slotKey ctxKey = "user-slot"
)

// TokenVerifier resolves a raw session token to a user id.
type TokenVerifier interface {
	Verify(raw string) (int64, error)
}

// Authenticate is the authorization gate for protected routes.
//
// It reads the session token through transport, verifies it and stores the
// user id in the request context. Missing, malformed, forged and expired
// tokens all get the same 401 before the wrapped handler runs; the distinct
// cause is only logged.
func Authenticate(verifier TokenVerifier, transport auth.Transport, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := transport.Extract(r)
			if err == nil {
				var userID int64
				userID, err = verifier.Verify(raw)
				if err == nil {
					if slot, ok := r.Context().Value(slotKey).(*int64); ok {
						*slot = userID
					}
					next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
					return
				}
			}

			log.Info("request not authenticated",
				zap.String("cause", cause(err)),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		})
	}
}

func cause(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return "missing"
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenSignature):
		return "signature"
	case errors.Is(err, auth.ErrTokenMalformed):
		return "malformed"
	}
	return "unknown"
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserIDFromContext extracts the authenticated user id from ctx.
// ok is false when the request did not pass Authenticate.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userKey).(int64)
	return id, ok && id > 0
}
