// Package auth resolves the owner of a request. Signed bearer tokens map to
// user owners; when enabled, the legacy device header maps to device owners.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	HeaderDeviceID = "X-Device-ID"

	userPrefix   = "user:"
	devicePrefix = "device:"

	maxDeviceIDLen = 128
)

var (
	// ErrUnauthenticated means no identity was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken means a bearer token was presented but rejected.
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Resolver verifies HS256 bearer tokens.
type Resolver struct {
	secret      []byte
	allowDevice bool
	now         func() time.Time
}

func NewResolver(secret string, allowDevice bool) *Resolver {
	return &Resolver{secret: []byte(secret), allowDevice: allowDevice, now: time.Now}
}

// Resolve returns the owner id for r. A malformed or expired token fails
// even when a device header is also present.
func (a *Resolver) Resolve(r *http.Request) (string, error) {
	if authz := strings.TrimSpace(r.Header.Get("Authorization")); authz != "" {
		scheme, token, ok := strings.Cut(authz, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", ErrInvalidToken
		}
		sub, err := a.subject(strings.TrimSpace(token))
		if err != nil {
			return "", err
		}
		return userPrefix + sub, nil
	}

	if a.allowDevice {
		if id := strings.TrimSpace(r.Header.Get(HeaderDeviceID)); id != "" {
			if len(id) > maxDeviceIDLen {
				return "", fmt.Errorf("%w: device id too long", ErrUnauthenticated)
			}
			return devicePrefix + id, nil
		}
	}
	return "", ErrUnauthenticated
}

func (a *Resolver) subject(tokenStr string) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

type ownerKey struct{}

// WithOwner stores the resolved owner id in ctx.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the owner set by Middleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey{}).(string)
	return owner, ok && owner != ""
}

// Middleware rejects unauthenticated requests through onError and stores
// the owner for the rest.
func (a *Resolver) Middleware(onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, err := a.Resolve(r)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// IssueToken signs a token for sub. Token issuance belongs to the identity
// provider; this exists for tests and local tooling.
func IssueToken(secret, sub string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
