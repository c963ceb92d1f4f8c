package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/canopyhq/canopy/pkg/storage/sqlcommon"
)

func up001(ctx context.Context, tx *sql.Tx) error {
	return sqlcommon.ExecStatements(ctx, tx,
		`CREATE TABLE node (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			description VARCHAR(1000),
			parent_id BIGINT REFERENCES node (id) ON DELETE RESTRICT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX idx_node_parent_id ON node (parent_id);`,
		`CREATE INDEX idx_node_name ON node (name);`,
	)
}

func down001(ctx context.Context, tx *sql.Tx) error {
	return sqlcommon.ExecStatements(ctx, tx, `DROP TABLE node;`)
}

func init() {
	register(
		goose.NewGoMigration(
			1,
			&goose.GoFunc{RunTx: up001},
			&goose.GoFunc{RunTx: down001},
		),
	)
}
