package authn

import (
	"context"
	"fmt"
	"time"

	"github.com/Yiling-J/theine-go"
)

const (
	// DefaultClaimsCacheSize is the number of validated tokens kept by a CachedAuthenticator.
	DefaultClaimsCacheSize = 10_000

	// nonExpiringClaimsTTL bounds how long claims without an expiry stay cached.
	nonExpiringClaimsTTL = time.Minute
)

// CachedAuthenticator remembers the claims of successfully validated tokens until they
// expire, so repeated requests with the same token skip signature verification.
// Failures are never cached.
type CachedAuthenticator struct {
	wrapped Authenticator
	cache   *theine.Cache[string, *AuthClaims]
	now     func() time.Time
}

var _ Authenticator = (*CachedAuthenticator)(nil)

// NewCachedAuthenticator wraps an Authenticator with a cache holding up to size tokens.
func NewCachedAuthenticator(wrapped Authenticator, size int64) (*CachedAuthenticator, error) {
	if size <= 0 {
		size = DefaultClaimsCacheSize
	}

	cache, err := theine.NewBuilder[string, *AuthClaims](size).Build()
	if err != nil {
		return nil, fmt.Errorf("build claims cache: %w", err)
	}

	return &CachedAuthenticator{
		wrapped: wrapped,
		cache:   cache,
		now:     time.Now,
	}, nil
}

func (c *CachedAuthenticator) Authenticate(ctx context.Context, token string) (*AuthClaims, error) {
	if token == "" {
		return c.wrapped.Authenticate(ctx, token)
	}

	if claims, ok := c.cache.Get(token); ok {
		if claims.ExpiresAt.IsZero() || c.now().Before(claims.ExpiresAt) {
			return claims, nil
		}
		c.cache.Delete(token)
	}

	claims, err := c.wrapped.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	ttl := nonExpiringClaimsTTL
	if !claims.ExpiresAt.IsZero() {
		ttl = claims.ExpiresAt.Sub(c.now())
	}
	if ttl > 0 {
		c.cache.SetWithTTL(token, claims, 1, ttl)
	}

	return claims, nil
}

func (c *CachedAuthenticator) Close() {
	c.cache.Close()
	c.wrapped.Close()
}
