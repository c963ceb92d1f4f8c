package sqlite

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/sqlcommon"
	"github.com/canopyhq/canopy/pkg/storage/sqlite/migrations"
)

// MigrationProvider implements [storage.MigrationProvider] for SQLite.
type MigrationProvider struct{}

var _ storage.MigrationProvider = (*MigrationProvider)(nil)

// NewMigrationProvider creates a new SQLite migration provider.
func NewMigrationProvider() *MigrationProvider {
	return &MigrationProvider{}
}

// GetSupportedEngine returns the database engine this provider supports.
func (s *MigrationProvider) GetSupportedEngine() string {
	return "sqlite"
}

// RunMigrations executes SQLite database migrations.
func (s *MigrationProvider) RunMigrations(ctx context.Context, config storage.MigrationConfig) error {
	db, err := s.open(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	return sqlcommon.RunMigrations(ctx, goose.DialectSQLite3, db, migrations.Migrations, config)
}

// GetCurrentVersion returns the current migration version.
func (s *MigrationProvider) GetCurrentVersion(ctx context.Context, config storage.MigrationConfig) (int64, error) {
	db, err := s.open(ctx, config)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return sqlcommon.CurrentVersion(ctx, goose.DialectSQLite3, db, migrations.Migrations)
}

func (s *MigrationProvider) open(ctx context.Context, config storage.MigrationConfig) (*sql.DB, error) {
	uri, err := PrepareDSN(config.URI)
	if err != nil {
		return nil, err
	}
	return sqlcommon.OpenForMigration(ctx, "sqlite", uri, config)
}
