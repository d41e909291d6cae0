package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AlexandrGonin/eatprayit-backend/internal/auth"
)

type contextKey string

const telegramIDKey contextKey = "telegram_id"

// TelegramIDFromContext returns the identity carried by a verified bearer
// token, if the request had one.
func TelegramIDFromContext(ctx context.Context) (int64, bool) {
	val, ok := ctx.Value(telegramIDKey).(int64)
	return val, ok
}

// Auth verifies the Authorization bearer token and stores its Telegram id
// in the request context. When enforce is false a missing header passes
// through unauthenticated; an invalid token is rejected either way.
func Auth(secret string, enforce bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if enforce {
					writeAuthError(w, "missing Authorization")
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeAuthError(w, "invalid Authorization")
				return
			}
			claims, err := auth.ParseAccessToken(secret, parts[1])
			if err != nil {
				writeAuthError(w, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), telegramIDKey, claims.TelegramID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
