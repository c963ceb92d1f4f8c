package sqlcommon

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/canopyhq/canopy/pkg/storage"
)

// ReadUser see [storage.UsersBackend].ReadUser.
func (d *DBInfo) ReadUser(ctx context.Context, username string) (*storage.User, error) {
	ctx, span := startTrace(ctx, "ReadUser")
	defer span.End()

	row := d.stbl.
		Select("id", "username", "password_hash", "role", "created_at").
		From("app_user").
		Where(sq.Eq{"username": username}).
		QueryRowContext(ctx)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, d.HandleSQLError(err)
	}

	return user, nil
}

// CreateUser see [storage.UsersBackend].CreateUser.
func (d *DBInfo) CreateUser(ctx context.Context, user *storage.User) (*storage.User, error) {
	ctx, span := startTrace(ctx, "CreateUser")
	defer span.End()

	ib := d.stbl.
		Insert("app_user").
		Columns("username", "password_hash", "role", "created_at").
		Values(user.Username, user.PasswordHash, user.Role, user.CreatedAt)

	created := *user
	if d.returningID {
		if err := ib.Suffix("RETURNING id").QueryRowContext(ctx).Scan(&created.ID); err != nil {
			return nil, d.HandleSQLError(err)
		}
		return &created, nil
	}

	res, err := ib.ExecContext(ctx)
	if err != nil {
		return nil, d.HandleSQLError(err)
	}
	created.ID, err = res.LastInsertId()
	if err != nil {
		return nil, d.HandleSQLError(err)
	}

	return &created, nil
}

// CountUsers see [storage.UsersBackend].CountUsers.
func (d *DBInfo) CountUsers(ctx context.Context) (int, error) {
	ctx, span := startTrace(ctx, "CountUsers")
	defer span.End()

	var count int
	if err := d.stbl.Select("COUNT(*)").From("app_user").QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, d.HandleSQLError(err)
	}

	return count, nil
}
