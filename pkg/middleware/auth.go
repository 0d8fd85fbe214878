package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fkhayef/reimburse/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// PrincipalKey is the context key for the authenticated user
	PrincipalKey ContextKey = "principal"
)

// Principal is the authenticated user as seen by handlers
type Principal struct {
	UserID      int64
	Username    string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
}

// TokenVerifier validates an access token and returns its user id
type TokenVerifier interface {
	VerifyAccessToken(token string) (int64, error)
}

// PrincipalLoader looks up the current state of a user; nil when the user no longer exists
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID int64) (*Principal, error)
}

// Authenticate requires a valid Bearer access token belonging to an active staff user
func Authenticate(tokens TokenVerifier, users PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			userID, err := tokens.VerifyAccessToken(parts[1])
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			principal, err := users.LoadPrincipal(r.Context(), userID)
			if err != nil {
				response.FromError(w, r, err)
				return
			}
			if principal == nil || !principal.IsActive {
				response.Unauthorized(w, "User not found or inactive")
				return
			}
			if !principal.IsStaff {
				response.Forbidden(w, "Access denied")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// WithPrincipal stores p in the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipal extracts the authenticated user from the request context
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*Principal)
	return p, ok && p != nil
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return 0, false
	}
	return p.UserID, true
}
