package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE?
// context.WithValue keys are compared by type AND value. With a plain
// string key, any package that knows the string could read or shadow the
// identity. With a package-private type, only this package can create the
// key, so only this package controls what lives under it.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth enforces authentication on protected routes.
//
// It reads the token from the Authorization header in bearer form
// ("Authorization: Bearer <jwt>"), verifies it, and stores the embedded
// Identity in the request context. Missing header, malformed header, bad
// signature, wrong issuer, expiry: all of them produce the same 401 body,
// so a probing client learns nothing about which check failed.
//
// MIDDLEWARE PATTERN:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → RequireAuth → handler.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"noauthorized":"valid authentication token required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated caller's Identity.
//
// Returns (Identity{}, false) when the request carries no verified identity,
// which on a RequireAuth-gated route never happens; the two-value form
// exists so handlers don't have to trust that wiring blindly.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// WithIdentity returns a context carrying the given identity. Handler tests
// use it to call protected handlers directly, without running the
// middleware stack.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// extractIdentity reads and verifies the bearer token on a request.
func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	header := r.Header.Get("Authorization")

	// "Bearer <token>", case-insensitive scheme per RFC 6750
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return Identity{}, errMissingBearer
	}

	return tokens.Verify(parts[1])
}

var errMissingBearer = errors.New("auth: missing or malformed Authorization header")
