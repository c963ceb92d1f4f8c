package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy/internal/build"
	"github.com/canopyhq/canopy/pkg/storage"
)

func TestMigrationProviderInvalidPath(t *testing.T) {
	provider := NewMigrationProvider()
	require.Implements(t, (*storage.MigrationProvider)(nil), provider)
	require.Equal(t, "sqlite", provider.GetSupportedEngine())

	config := storage.MigrationConfig{
		Engine:  "sqlite",
		URI:     "/invalid/path/that/does/not/exist/db.sqlite",
		Timeout: 1 * time.Second,
	}

	t.Run("RunMigrations", func(t *testing.T) {
		err := provider.RunMigrations(context.Background(), config)
		require.ErrorContains(t, err, "failed to initialize sqlite connection")
	})

	t.Run("GetCurrentVersion", func(t *testing.T) {
		_, err := provider.GetCurrentVersion(context.Background(), config)
		require.ErrorContains(t, err, "failed to initialize sqlite connection")
	})
}

func TestMigrationProviderTargetVersion(t *testing.T) {
	provider := NewMigrationProvider()
	ctx := context.Background()

	config := storage.MigrationConfig{
		Engine:        "sqlite",
		URI:           filepath.Join(t.TempDir(), "canopy.db"),
		Timeout:       5 * time.Second,
		TargetVersion: 1,
	}

	require.NoError(t, provider.RunMigrations(ctx, config))
	version, err := provider.GetCurrentVersion(ctx, config)
	require.NoError(t, err)
	require.Equal(t, int64(1), version)

	config.TargetVersion = 0
	require.NoError(t, provider.RunMigrations(ctx, config))
	version, err = provider.GetCurrentVersion(ctx, config)
	require.NoError(t, err)
	require.Equal(t, int64(build.MinimumSupportedDatastoreSchemaRevision), version)
}
