// Package authn contains the gin middleware that authenticates callers and guards route
// groups by role.
package authn

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/canopyhq/canopy/pkg/authn"
	httpmiddleware "github.com/canopyhq/canopy/pkg/middleware/http"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "Bearer"
	authClaimsKey       = "auth_claims"
)

// Authenticator validates a raw bearer token. Errors are expected to be encoded already.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*authn.AuthClaims, error)
}

// RequireAuthentication rejects requests without valid credentials and stores the claims of
// the caller in the request context.
func RequireAuthentication(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			httpmiddleware.CustomHTTPErrorHandler(c, serverErrors.ErrUnauthenticated)
			return
		}

		claims, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			httpmiddleware.CustomHTTPErrorHandler(c, err)
			return
		}

		c.Set(authClaimsKey, claims)
		c.Request = c.Request.WithContext(authn.ContextWithAuthClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// RequireRole rejects callers whose role does not satisfy role. It must run after
// RequireAuthentication.
func RequireRole(role authn.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			httpmiddleware.CustomHTTPErrorHandler(c, serverErrors.ErrUnauthenticated)
			return
		}

		if !claims.Role.Satisfies(role) {
			httpmiddleware.CustomHTTPErrorHandler(c, serverErrors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by RequireAuthentication.
func ClaimsFromContext(c *gin.Context) (*authn.AuthClaims, bool) {
	v, exists := c.Get(authClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*authn.AuthClaims)
	return claims, ok && claims != nil
}

// bearerToken returns the token of the Authorization header. A missing header yields an
// empty token; a header with another scheme is malformed.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		return "", true
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	return strings.TrimSpace(token), true
}
