package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/sqlite"
)

type sqliteTestContainer struct {
	path    string
	version int64
}

// NewSqliteTestContainer returns an implementation of the DatastoreTestContainer interface
// for SQLite.
func NewSqliteTestContainer() *sqliteTestContainer {
	return &sqliteTestContainer{}
}

func (m *sqliteTestContainer) GetDatabaseSchemaVersion() int64 {
	return m.version
}

// RunSqliteTestDatabase creates a migrated sqlite database file in a temporary directory
// removed when the test finishes.
func (m *sqliteTestContainer) RunSqliteTestDatabase(t testing.TB) DatastoreTestContainer {
	m.path = filepath.Join(t.TempDir(), "canopy.db")

	provider := sqlite.NewMigrationProvider()
	cfg := storage.MigrationConfig{Engine: "sqlite", URI: m.GetConnectionURI(), Timeout: 5 * time.Second}

	err := provider.RunMigrations(context.Background(), cfg)
	require.NoError(t, err)

	version, err := provider.GetCurrentVersion(context.Background(), cfg)
	require.NoError(t, err)
	m.version = version

	return m
}

// GetConnectionURI returns the sqlite connection uri for the test database.
func (m *sqliteTestContainer) GetConnectionURI() string {
	return fmt.Sprintf("file:%s", m.path)
}
