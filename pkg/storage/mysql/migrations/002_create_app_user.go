package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/canopyhq/canopy/pkg/storage/sqlcommon"
)

func up002(ctx context.Context, tx *sql.Tx) error {
	return sqlcommon.ExecStatements(ctx, tx,
		`CREATE TABLE app_user (
			id BIGINT NOT NULL AUTO_INCREMENT,
			username VARCHAR(50) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			PRIMARY KEY (id),
			UNIQUE KEY uq_app_user_username (username)
		);`,
	)
}

func down002(ctx context.Context, tx *sql.Tx) error {
	return sqlcommon.ExecStatements(ctx, tx, `DROP TABLE app_user;`)
}

func init() {
	register(
		goose.NewGoMigration(
			2,
			&goose.GoFunc{RunTx: up002},
			&goose.GoFunc{RunTx: down002},
		),
	)
}
