// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Compare when the password does not match the hash.
var ErrMismatch = errors.New("password does not match")

// DefaultCost is the bcrypt work factor used by Hash.
const DefaultCost = bcrypt.DefaultCost

// MaxLength is the longest password, in bytes, bcrypt accepts.
const MaxLength = 72

// dummyHash is compared against when the account being authenticated does not exist, so
// that the time taken does not reveal whether a username is registered.
var dummyHash = mustHash("canopy-dummy-password", DefaultCost)

func mustHash(plain string, cost int) string {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. A cost outside the range bcrypt accepts
// falls back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks plain against hashed. It returns ErrMismatch if they do not match.
func (h *Hasher) Compare(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// CompareDummy spends the time of one comparison without a real hash. It always returns
// ErrMismatch.
func (h *Hasher) CompareDummy(plain string) error {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
	return ErrMismatch
}
