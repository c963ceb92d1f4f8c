// Package authn authenticates the callers of the HTTP API.
//
//go:generate mockgen -source authn.go -destination ./mocks/mock_authenticator.go -package mocks Authenticator
package authn

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrUnauthenticated is returned when a token is present but not valid.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrMissingBearerToken is returned when a method that requires a token did not get one.
	ErrMissingBearerToken = errors.New("missing bearer token")
)

// Role is the access level granted to an authenticated caller.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole returns RoleAdmin if s names it, case-insensitively, and RoleUser otherwise.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Satisfies reports whether a caller with role r may use a route that requires required.
// Admins may use every route.
func (r Role) Satisfies(required Role) bool {
	return r == RoleAdmin || r == required
}

// AuthClaims is the validated identity of a caller.
type AuthClaims struct {
	Subject  string
	Username string
	Role     Role

	// ExpiresAt is the zero time for identities that do not expire.
	ExpiresAt time.Time
}

type ctxKey string

const authClaimsContextKey = ctxKey("auth-claims")

// ContextWithAuthClaims injects the provided AuthClaims into the parent context.
func ContextWithAuthClaims(parent context.Context, claims *AuthClaims) context.Context {
	return context.WithValue(parent, authClaimsContextKey, claims)
}

// AuthClaimsFromContext extracts the AuthClaims from the provided ctx (if any).
func AuthClaimsFromContext(ctx context.Context) (*AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*AuthClaims)
	if !ok {
		return nil, false
	}

	return claims, true
}

type Authenticator interface {
	// Authenticate returns the claims of the caller presenting the raw bearer token, or a
	// non-nil error with an appropriate cause. token is empty when the request carried none.
	Authenticate(ctx context.Context, token string) (*AuthClaims, error)

	// Close releases the resources held by the authenticator.
	Close()
}

// TokenIssuer mints bearer tokens for callers that proved their identity with a password.
type TokenIssuer interface {
	IssueToken(subject, username string, role Role) (string, error)
}

// NoopAuthenticator lets every caller in as an anonymous admin.
type NoopAuthenticator struct{}

var _ Authenticator = (*NoopAuthenticator)(nil)

func (n NoopAuthenticator) Authenticate(context.Context, string) (*AuthClaims, error) {
	return &AuthClaims{
		Subject:  "",
		Username: "anonymous",
		Role:     RoleAdmin,
	}, nil
}

func (n NoopAuthenticator) Close() {}

// OidcConfig contains authorization server metadata. See https://datatracker.ietf.org/doc/html/rfc8414#section-2
type OidcConfig struct {
	Issuer  string `json:"issuer"`
	JWKsURI string `json:"jwks_uri"`
}
