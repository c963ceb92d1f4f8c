// Package presharedkey authenticates callers presenting one of a fixed set of keys.
package presharedkey

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/canopyhq/canopy/pkg/authn"
)

type PresharedKeyAuthenticator struct {
	ValidKeys [][]byte
	Role      authn.Role
}

var _ authn.Authenticator = (*PresharedKeyAuthenticator)(nil)

// NewPresharedKeyAuthenticator grants role to every caller presenting one of validKeys.
func NewPresharedKeyAuthenticator(validKeys []string, role authn.Role) (*PresharedKeyAuthenticator, error) {
	if len(validKeys) < 1 {
		return nil, errors.New("invalid auth configuration, please specify at least one key")
	}

	keys := make([][]byte, 0, len(validKeys))
	for _, k := range validKeys {
		if k == "" {
			return nil, errors.New("invalid auth configuration, preshared keys must not be empty")
		}
		keys = append(keys, []byte(k))
	}

	if role == "" {
		role = authn.RoleUser
	}

	return &PresharedKeyAuthenticator{ValidKeys: keys, Role: role}, nil
}

func (pka *PresharedKeyAuthenticator) Authenticate(_ context.Context, token string) (*authn.AuthClaims, error) {
	if token == "" {
		return nil, authn.ErrMissingBearerToken
	}

	found := 0
	for _, k := range pka.ValidKeys {
		found |= subtle.ConstantTimeCompare(k, []byte(token))
	}

	if found == 1 {
		return &authn.AuthClaims{
			Subject:  "", // no user information in this auth method
			Username: "preshared",
			Role:     pka.Role,
		}, nil
	}

	return nil, authn.ErrUnauthenticated
}

func (pka *PresharedKeyAuthenticator) Close() {}
