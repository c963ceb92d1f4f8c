// Package local issues and validates the HS256 tokens handed out by the login and register
// operations.
package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/canopyhq/canopy/pkg/authn"
)

const (
	// DefaultTokenTTL is the lifetime of issued tokens.
	DefaultTokenTTL = 8 * time.Hour

	// MinSigningKeyLength is the minimum length in bytes of the HS256 signing key.
	MinSigningKeyLength = 32
)

var errInvalidClaims = errors.New("invalid claims")

// Config configures an Authenticator.
type Config struct {
	SigningKey string
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
}

type tokenClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues tokens signed with a shared key and validates them.
type Authenticator struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

var (
	_ authn.Authenticator = (*Authenticator)(nil)
	_ authn.TokenIssuer   = (*Authenticator)(nil)
)

// NewAuthenticator returns an Authenticator for cfg.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if len(cfg.SigningKey) < MinSigningKeyLength {
		return nil, fmt.Errorf("invalid auth configuration, the signing key must be at least %d bytes", MinSigningKeyLength)
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("invalid auth configuration, please specify the token issuer and audience")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}

	a := &Authenticator{
		key:      []byte(cfg.SigningKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TokenTTL,
		now:      time.Now,
	}
	a.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return a.now() }),
	)

	return a, nil
}

// IssueToken returns a signed token for the given identity that expires after the
// configured TTL.
func (a *Authenticator) IssueToken(subject, username string, role authn.Role) (string, error) {
	now := a.now()
	claims := tokenClaims{
		Name: username,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{a.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *Authenticator) Authenticate(_ context.Context, token string) (*authn.AuthClaims, error) {
	if token == "" {
		return nil, authn.ErrMissingBearerToken
	}

	claims := &tokenClaims{}
	parsed, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, authn.ErrUnauthenticated
	}

	if claims.Subject == "" || claims.Name == "" {
		return nil, fmt.Errorf("%w: %w", authn.ErrUnauthenticated, errInvalidClaims)
	}

	return &authn.AuthClaims{
		Subject:   claims.Subject,
		Username:  claims.Name,
		Role:      authn.ParseRole(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (a *Authenticator) Close() {}
