package postgres

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/postgres/migrations"
	"github.com/canopyhq/canopy/pkg/storage/sqlcommon"
)

// MigrationProvider implements [storage.MigrationProvider] for PostgreSQL.
type MigrationProvider struct{}

var _ storage.MigrationProvider = (*MigrationProvider)(nil)

// NewMigrationProvider creates a new PostgreSQL migration provider.
func NewMigrationProvider() *MigrationProvider {
	return &MigrationProvider{}
}

// GetSupportedEngine returns the database engine this provider supports.
func (p *MigrationProvider) GetSupportedEngine() string {
	return "postgres"
}

// RunMigrations executes PostgreSQL database migrations.
func (p *MigrationProvider) RunMigrations(ctx context.Context, config storage.MigrationConfig) error {
	db, err := p.open(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	return sqlcommon.RunMigrations(ctx, goose.DialectPostgres, db, migrations.Migrations, config)
}

// GetCurrentVersion returns the current migration version.
func (p *MigrationProvider) GetCurrentVersion(ctx context.Context, config storage.MigrationConfig) (int64, error) {
	db, err := p.open(ctx, config)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return sqlcommon.CurrentVersion(ctx, goose.DialectPostgres, db, migrations.Migrations)
}

func (p *MigrationProvider) open(ctx context.Context, config storage.MigrationConfig) (*sql.DB, error) {
	uri, err := PrepareURI(config.URI, config.Username, config.Password)
	if err != nil {
		return nil, err
	}
	return sqlcommon.OpenForMigration(ctx, "pgx", uri, config)
}
