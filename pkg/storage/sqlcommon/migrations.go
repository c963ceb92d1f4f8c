package sqlcommon

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/storage"
)

// ExecStatements runs each statement in order inside tx. Drivers differ in their
// support for several statements per Exec, so migrations issue them one at a time.
func ExecStatements(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// OpenForMigration opens a connection with the given driver and waits, up to
// config.Timeout, for the database to answer a ping.
func OpenForMigration(ctx context.Context, driver, uri string, config storage.MigrationConfig) (*sql.DB, error) {
	db, err := sql.Open(driver, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", config.Engine, err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = config.Timeout
	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize %s connection: %w", config.Engine, err)
	}

	return db, nil
}

func newGooseProvider(dialect goose.Dialect, db *sql.DB, migrations []*goose.Migration, verbose bool) (*goose.Provider, error) {
	provider, err := goose.NewProvider(dialect, db, nil,
		goose.WithDisableGlobalRegistry(true),
		goose.WithVerbose(verbose),
		goose.WithGoMigrations(migrations...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return provider, nil
}

// CurrentVersion returns the schema revision recorded in db.
func CurrentVersion(ctx context.Context, dialect goose.Dialect, db *sql.DB, migrations []*goose.Migration) (int64, error) {
	provider, err := newGooseProvider(dialect, db, migrations, false)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

// RunMigrations migrates db up to config.TargetVersion, or to the latest revision when
// no target is set. A target below the current revision migrates down.
func RunMigrations(
	ctx context.Context,
	dialect goose.Dialect,
	db *sql.DB,
	migrations []*goose.Migration,
	config storage.MigrationConfig,
) error {
	log := config.Logger
	if log == nil {
		log = logger.NewNoopLogger()
	}
	log = log.With(zap.String("engine", config.Engine))

	provider, err := newGooseProvider(dialect, db, migrations, config.Verbose)
	if err != nil {
		return err
	}

	currentVersion, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get %s db version: %w", config.Engine, err)
	}

	log.Info("current schema revision", zap.Int64("version", currentVersion))

	if config.TargetVersion == 0 {
		log.Info("running all migrations")
		if _, err := provider.Up(ctx); err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", config.Engine, err)
		}
		log.Info("migration done")
		return nil
	}

	targetVersion := int64(config.TargetVersion)
	log.Info("migrating to target revision", zap.Int64("target", targetVersion))

	switch {
	case targetVersion < currentVersion:
		if _, err := provider.DownTo(ctx, targetVersion); err != nil {
			return fmt.Errorf("failed to run %s migrations down to %v: %w", config.Engine, targetVersion, err)
		}
	case targetVersion > currentVersion:
		if _, err := provider.UpTo(ctx, targetVersion); err != nil {
			return fmt.Errorf("failed to run %s migrations up to %v: %w", config.Engine, targetVersion, err)
		}
	default:
		log.Info("nothing to do")
		return nil
	}

	log.Info("migration done")
	return nil
}
