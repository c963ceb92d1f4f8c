// Package oidc validates RS256 tokens minted by an external OpenID Connect issuer.
package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/canopyhq/canopy/pkg/authn"
)

const DefaultRoleClaim = "role"

// Config configures a RemoteOidcAuthenticator.
type Config struct {
	IssuerURL     string
	IssuerAliases []string
	Audience      string

	// RoleClaim names the claim holding the caller's role. A caller whose claim does not
	// name the admin role gets the user role.
	RoleClaim string
}

type RemoteOidcAuthenticator struct {
	IssuerURLs []string
	Audience   string
	RoleClaim  string

	JwksURI string
	JWKs    *keyfunc.JWKS

	httpClient *http.Client
}

var (
	jwkRefreshInterval = 48 * time.Hour

	errInvalidAudience = fmt.Errorf("%w: invalid audience", authn.ErrUnauthenticated)
	errInvalidClaims   = fmt.Errorf("%w: invalid claims", authn.ErrUnauthenticated)
	errInvalidIssuer   = fmt.Errorf("%w: invalid issuer", authn.ErrUnauthenticated)
	errInvalidSubject  = fmt.Errorf("%w: invalid subject", authn.ErrUnauthenticated)
	errInvalidToken    = fmt.Errorf("%w: invalid bearer token", authn.ErrUnauthenticated)

	fetchJWKs = fetchJWK
)

var _ authn.Authenticator = (*RemoteOidcAuthenticator)(nil)

func NewRemoteOidcAuthenticator(cfg Config) (*RemoteOidcAuthenticator, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("invalid auth configuration, please specify the OIDC issuer")
	}
	if cfg.RoleClaim == "" {
		cfg.RoleClaim = DefaultRoleClaim
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3

	oidc := &RemoteOidcAuthenticator{
		IssuerURLs: append([]string{cfg.IssuerURL}, cfg.IssuerAliases...),
		Audience:   cfg.Audience,
		RoleClaim:  cfg.RoleClaim,
		httpClient: client.StandardClient(),
	}
	err := fetchJWKs(oidc)
	if err != nil {
		return nil, err
	}
	return oidc, nil
}

func (oidc *RemoteOidcAuthenticator) Authenticate(_ context.Context, token string) (*authn.AuthClaims, error) {
	if token == "" {
		return nil, authn.ErrMissingBearerToken
	}

	jwtParser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuedAt(),
	)

	parsed, err := jwtParser.Parse(token, oidc.JWKs.Keyfunc)
	if err != nil || !parsed.Valid {
		return nil, errInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	issuer, err := claims.GetIssuer()
	if err != nil || !slices.Contains(oidc.IssuerURLs, issuer) {
		return nil, errInvalidIssuer
	}

	if oidc.Audience != "" {
		audience, err := claims.GetAudience()
		if err != nil || !slices.Contains(audience, oidc.Audience) {
			return nil, errInvalidAudience
		}
	}

	// optional subject
	var subject = ""
	if subjectClaim, ok := claims["sub"]; ok {
		if subject, ok = subjectClaim.(string); !ok {
			return nil, errInvalidSubject
		}
	}

	principal := &authn.AuthClaims{
		Subject:  subject,
		Username: subject,
		Role:     authn.RoleUser,
	}

	if name, ok := claims["preferred_username"].(string); ok && name != "" {
		principal.Username = name
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		principal.ExpiresAt = exp.Time
	}

	principal.Role = roleFromClaim(claims[oidc.RoleClaim])

	return principal, nil
}

// roleFromClaim accepts a single role or a list of roles, as issuers differ.
func roleFromClaim(value any) authn.Role {
	switch v := value.(type) {
	case string:
		return authn.ParseRole(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && authn.ParseRole(s) == authn.RoleAdmin {
				return authn.RoleAdmin
			}
		}
	}
	return authn.RoleUser
}

func fetchJWK(oidc *RemoteOidcAuthenticator) error {
	oidcConfig, err := oidc.GetConfiguration()
	if err != nil {
		return fmt.Errorf("error fetching OIDC configuration: %w", err)
	}

	oidc.JwksURI = oidcConfig.JWKsURI
	jwks, err := oidc.GetKeys()
	if err != nil {
		return fmt.Errorf("error fetching OIDC keys: %w", err)
	}

	oidc.JWKs = jwks

	return nil
}

func (oidc *RemoteOidcAuthenticator) GetKeys() (*keyfunc.JWKS, error) {
	jwks, err := keyfunc.Get(oidc.JwksURI, keyfunc.Options{
		Client:          oidc.httpClient,
		RefreshInterval: jwkRefreshInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching keys from %v: %w", oidc.JwksURI, err)
	}
	return jwks, nil
}

func (oidc *RemoteOidcAuthenticator) GetConfiguration() (*authn.OidcConfig, error) {
	wellKnown := strings.TrimSuffix(oidc.IssuerURLs[0], "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequest(http.MethodGet, wellKnown, nil)
	if err != nil {
		return nil, fmt.Errorf("error forming request to get OIDC: %w", err)
	}

	res, err := oidc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error getting OIDC: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code getting OIDC: %v", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	oidcConfig := &authn.OidcConfig{}
	if err := json.Unmarshal(body, oidcConfig); err != nil {
		return nil, fmt.Errorf("failed parsing document: %w", err)
	}

	if oidcConfig.Issuer == "" {
		return nil, errors.New("missing issuer value")
	}

	if oidcConfig.JWKsURI == "" {
		return nil, errors.New("missing jwks_uri value")
	}
	return oidcConfig, nil
}

func (oidc *RemoteOidcAuthenticator) Close() {
	if oidc.JWKs != nil {
		oidc.JWKs.EndBackground()
	}
}
