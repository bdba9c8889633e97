package middleware

import (
	"context"
	"net/http"
	"strings"
	"workshop_hub/internal/common"
	"workshop_hub/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey    contextKey = "userID"
	UserEmailCtxKey contextKey = "userEmail"
	UserNameCtxKey  contextKey = "userName"
)

// Authenticator requires a valid bearer token and puts the resolved identity
// in the request context. It distinguishes a missing header, a malformed
// header and a bad token so clients can tell which they sent.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			common.RespondWithError(w, http.StatusUnauthorized, "INVALID_AUTH_HEADER", "Authorization header must be of the form 'Bearer <token>'")
			return
		}

		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims")
			return
		}
		email, _ := security.GetEmailFromClaims(claims)
		name, _ := security.GetNameFromClaims(claims)

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserEmailCtxKey, email)
		ctx = context.WithValue(ctx, UserNameCtxKey, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth extracts the identity when a valid token is present and never
// rejects the request.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err == nil && token != nil {
			if userID, err := security.GetUserIDFromClaims(claims); err == nil {
				ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
				if email, err := security.GetEmailFromClaims(claims); err == nil {
					ctx = context.WithValue(ctx, UserEmailCtxKey, email)
				}
				if name, err := security.GetNameFromClaims(claims); err == nil {
					ctx = context.WithValue(ctx, UserNameCtxKey, name)
				}
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailCtxKey).(string)
	return email, ok
}
