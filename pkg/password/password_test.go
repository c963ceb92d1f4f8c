package password

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hashed, err := h.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hashed)

	require.NoError(t, h.Compare(hashed, "s3cret"))
	require.ErrorIs(t, h.Compare(hashed, "wrong"), ErrMismatch)

	again, err := h.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, hashed, again)
}

func TestCompareMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	err := h.Compare("not-a-hash", "s3cret")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMismatch)
}

func TestCompareDummy(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	require.ErrorIs(t, h.CompareDummy("canopy-dummy-password"), ErrMismatch)
}

func TestNewHasherInvalidCost(t *testing.T) {
	require.Equal(t, DefaultCost, NewHasher(0).cost)
	require.Equal(t, DefaultCost, NewHasher(bcrypt.MaxCost+1).cost)
	require.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).cost)
}
