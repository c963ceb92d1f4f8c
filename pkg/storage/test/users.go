package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy/pkg/storage"
)

func UsersTest(t *testing.T, ds storage.Datastore) {
	ctx := context.Background()

	before, err := ds.CountUsers(ctx)
	require.NoError(t, err)

	user := &storage.User{
		Username:     "conformance-user",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         "User",
		CreatedAt:    storage.Now(),
	}

	created, err := ds.CreateUser(ctx, user)
	require.NoError(t, err)
	require.Positive(t, created.ID)

	t.Run("read_by_username", func(t *testing.T) {
		got, err := ds.ReadUser(ctx, "conformance-user")
		require.NoError(t, err)
		require.Equal(t, created.ID, got.ID)
		require.Equal(t, user.PasswordHash, got.PasswordHash)
		require.Equal(t, "User", got.Role)
		require.True(t, got.CreatedAt.Equal(user.CreatedAt))
	})

	t.Run("duplicate_username_collides", func(t *testing.T) {
		_, err := ds.CreateUser(ctx, user)
		require.ErrorIs(t, err, storage.ErrCollision)
	})

	t.Run("count_includes_user", func(t *testing.T) {
		after, err := ds.CountUsers(ctx)
		require.NoError(t, err)
		require.Equal(t, before+1, after)
	})

	t.Run("missing_user_returns_not_found", func(t *testing.T) {
		_, err := ds.ReadUser(ctx, "nobody")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}
