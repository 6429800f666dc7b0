// Package auth resolves the authenticated user of a request.
// The trip planner does not manage accounts; it trusts a bearer token signed
// with the shared JWT_SECRET whose subject claim is the user id.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoUser is returned by MustUserID when the context carries no user.
var ErrNoUser = errors.New("no authenticated user")

// Resolver extracts the user id from an incoming request.
type Resolver interface {
	Resolve(r *http.Request) (userID string, ok bool)
}

// JWTResolver validates HS256 bearer tokens.
type JWTResolver struct {
	secret []byte
	now    func() time.Time
}

// NewJWTResolver returns a resolver that accepts tokens signed with secret.
func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), now: time.Now}
}

// Resolve returns the subject of a valid, unexpired token from the
// Authorization header. Tokens without an exp claim are rejected.
func (j *JWTResolver) Resolve(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", false
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return "", false
	}
	return sub, true
}

// IssueToken signs an HS256 token for userID that expires after ttl.
// Used by development tooling and tests; production tokens come from the
// identity provider that shares the secret.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.IssueToken: %w", err)
	}
	return signed, nil
}

type userKey struct{}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID returns the authenticated user id stored by RequireUser.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok && id != ""
}

// MustUserID is UserID for handlers mounted behind RequireUser.
func MustUserID(ctx context.Context) (string, error) {
	id, ok := UserID(ctx)
	if !ok {
		return "", ErrNoUser
	}
	return id, nil
}

// RequireUser rejects requests the resolver cannot authenticate with
// 401 Unauthorized and stores the user id in the request context otherwise.
func RequireUser(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := resolver.Resolve(r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="trips"`)
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "unauthorized",
						"message": "missing or invalid bearer token",
					},
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
