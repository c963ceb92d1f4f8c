package mysql

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/mysql/migrations"
	"github.com/canopyhq/canopy/pkg/storage/sqlcommon"
)

// MigrationProvider implements [storage.MigrationProvider] for MySQL.
type MigrationProvider struct{}

var _ storage.MigrationProvider = (*MigrationProvider)(nil)

// NewMigrationProvider creates a new MySQL migration provider.
func NewMigrationProvider() *MigrationProvider {
	return &MigrationProvider{}
}

// GetSupportedEngine returns the database engine this provider supports.
func (m *MigrationProvider) GetSupportedEngine() string {
	return "mysql"
}

// RunMigrations executes MySQL database migrations.
func (m *MigrationProvider) RunMigrations(ctx context.Context, config storage.MigrationConfig) error {
	db, err := m.open(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	return sqlcommon.RunMigrations(ctx, goose.DialectMySQL, db, migrations.Migrations, config)
}

// GetCurrentVersion returns the current migration version.
func (m *MigrationProvider) GetCurrentVersion(ctx context.Context, config storage.MigrationConfig) (int64, error) {
	db, err := m.open(ctx, config)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return sqlcommon.CurrentVersion(ctx, goose.DialectMySQL, db, migrations.Migrations)
}

func (m *MigrationProvider) open(ctx context.Context, config storage.MigrationConfig) (*sql.DB, error) {
	uri, err := PrepareDSN(config.URI, config.Username, config.Password)
	if err != nil {
		return nil, err
	}
	return sqlcommon.OpenForMigration(ctx, "mysql", uri, config)
}
