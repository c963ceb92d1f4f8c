// Package migrate runs the schema migrations of the SQL datastore engines.
package migrate

import (
	"context"
	"fmt"
	"sync"

	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/mysql"
	"github.com/canopyhq/canopy/pkg/storage/postgres"
	"github.com/canopyhq/canopy/pkg/storage/sqlite"
)

// MigrationConfig contains the configuration needed for running migrations.
type MigrationConfig = storage.MigrationConfig

var (
	// defaultRegistry is the global migration provider registry
	defaultRegistry *storage.MigratorRegistry
	registryOnce    sync.Once
)

// initDefaultRegistry initializes the default migration registry with built-in providers
func initDefaultRegistry() {
	registryOnce.Do(func() {
		defaultRegistry = storage.NewMigratorRegistry()

		defaultRegistry.RegisterProvider("postgres", postgres.NewMigrationProvider())
		defaultRegistry.RegisterProvider("mysql", mysql.NewMigrationProvider())
		defaultRegistry.RegisterProvider("sqlite", sqlite.NewMigrationProvider())
	})
}

// GetDefaultRegistry returns the default migration provider registry
func GetDefaultRegistry() *storage.MigratorRegistry {
	initDefaultRegistry()
	return defaultRegistry
}

// RegisterMigrationProvider allows applications to register custom migration providers
func RegisterMigrationProvider(engine string, provider storage.MigrationProvider) {
	initDefaultRegistry()
	defaultRegistry.RegisterProvider(engine, provider)
}

// RunMigrationsWithRegistry runs migrations using a specific migration registry
func RunMigrationsWithRegistry(ctx context.Context, registry *storage.MigratorRegistry, cfg storage.MigrationConfig) error {
	switch cfg.Engine {
	case "memory":
		log := cfg.Logger
		if log == nil {
			log = logger.NewNoopLogger()
		}
		log.Info("no migrations to run for `memory` datastore")
		return nil
	case "":
		return fmt.Errorf("missing datastore engine type")
	}

	provider, exists := registry.GetProvider(cfg.Engine)
	if !exists {
		return fmt.Errorf("unknown datastore engine type: %s", cfg.Engine)
	}

	return provider.RunMigrations(ctx, cfg)
}

// RunMigrations runs the migrations for the given config using the default registry.
// It migrates up to the latest revision, or up or down to cfg.TargetVersion when set.
func RunMigrations(ctx context.Context, cfg storage.MigrationConfig) error {
	return RunMigrationsWithRegistry(ctx, GetDefaultRegistry(), cfg)
}
