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
			id BIGINT NOT NULL AUTO_INCREMENT,
			name VARCHAR(200) NOT NULL,
			description VARCHAR(1000),
			parent_id BIGINT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			PRIMARY KEY (id),
			INDEX idx_node_parent_id (parent_id),
			INDEX idx_node_name (name),
			CONSTRAINT fk_node_parent FOREIGN KEY (parent_id) REFERENCES node (id) ON DELETE RESTRICT
		);`,
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
