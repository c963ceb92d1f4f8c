package sqlcommon

import (
	"database/sql"
	"time"

	"github.com/canopyhq/canopy/pkg/storage"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func scanNode(row rowScanner) (*storage.Node, error) {
	var (
		node        storage.Node
		description sql.NullString
		parentID    sql.NullInt64
	)
	if err := row.Scan(&node.ID, &node.Name, &description, &parentID, &node.CreatedAt, &node.UpdatedAt); err != nil {
		return nil, err
	}

	if description.Valid {
		node.Description = &description.String
	}
	if parentID.Valid {
		node.ParentID = &parentID.Int64
	}
	node.CreatedAt = normalizeTime(node.CreatedAt)
	node.UpdatedAt = normalizeTime(node.UpdatedAt)

	return &node, nil
}

func scanUser(row rowScanner) (*storage.User, error) {
	var user storage.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.CreatedAt = normalizeTime(user.CreatedAt)
	return &user, nil
}

// normalizeTime drops the location drivers attach when scanning timestamps.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
