// Package auth provides JWT bearer authentication and role gates for the
// HTTP endpoints, plus the token issuing handler.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"procure-notify/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

// Principal is the verified caller of a request.
type Principal struct {
	UserID string
	Role   string
}

// FromContext returns the verified caller, or false when the request did
// not pass through Authn.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the given principal, as Authn
// would produce after verifying a token.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// Authn requires a valid HS256 bearer token on every request and stores the
// verified principal in the context. Requests without a verified caller are
// rejected with 401 before the handler runs.
func Authn(next http.Handler) http.Handler {
	secret := []byte(os.Getenv("JWT_SECRET"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := validateJWT(r.Header.Get("Authorization"), secret)
		if err != nil {
			respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
			return
		}
		ctx := WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require wraps a handler with Authn plus a role gate: a verified caller
// whose role is not in the allow list is rejected with 403.
func Require(next http.Handler, roles ...string) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return Authn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := FromContext(r.Context())
		if _, ok := allowed[principal.Role]; !ok {
			RecordForbiddenAttempt(principal.Role, r.Method)
			respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func validateJWT(authz string, secret []byte) (Principal, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return Principal{}, errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(authz, prefix)
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return Principal{}, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return Principal{}, errors.New("token expired")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Principal{}, errors.New("invalid sub claim")
	}
	role, ok := claims["role"].(string)
	if !ok || !validRole(role) {
		return Principal{}, errors.New("invalid role claim")
	}
	return Principal{UserID: sub, Role: role}, nil
}
