package sqlcommon

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/canopyhq/canopy/pkg/storage"
)

var nodeColumns = []string{"id", "name", "description", "parent_id", "created_at", "updated_at"}

// nodeStore runs the node queries against whatever runner its builder was bound to:
// the pool for standalone reads, or a transaction inside ReadTx and WriteTx.
type nodeStore struct {
	stbl           sq.StatementBuilderType
	handleSQLError errorHandlerFn
	returningID    bool
}

var _ storage.NodeTx = (*nodeStore)(nil)

func (d *DBInfo) nodeStore(runner sq.BaseRunner) *nodeStore {
	return &nodeStore{
		stbl:           d.stbl.RunWith(runner),
		handleSQLError: d.HandleSQLError,
		returningID:    d.returningID,
	}
}

// ReadNode see [storage.NodeReader].ReadNode.
func (d *DBInfo) ReadNode(ctx context.Context, id int64) (*storage.Node, error) {
	ctx, span := startTrace(ctx, "ReadNode")
	defer span.End()

	return d.nodeStore(d.db).ReadNode(ctx, id)
}

// ListNodes see [storage.NodeReader].ListNodes.
func (d *DBInfo) ListNodes(ctx context.Context) ([]*storage.Node, error) {
	ctx, span := startTrace(ctx, "ListNodes")
	defer span.End()

	return d.nodeStore(d.db).ListNodes(ctx)
}

// ListChildren see [storage.NodeReader].ListChildren.
func (d *DBInfo) ListChildren(ctx context.Context, parentID int64) ([]*storage.Node, error) {
	ctx, span := startTrace(ctx, "ListChildren")
	defer span.End()

	return d.nodeStore(d.db).ListChildren(ctx, parentID)
}

// ListRoots see [storage.NodeReader].ListRoots.
func (d *DBInfo) ListRoots(ctx context.Context) ([]*storage.Node, error) {
	ctx, span := startTrace(ctx, "ListRoots")
	defer span.End()

	return d.nodeStore(d.db).ListRoots(ctx)
}

// CountChildren see [storage.NodeReader].CountChildren.
func (d *DBInfo) CountChildren(ctx context.Context, parentID int64) (int, error) {
	ctx, span := startTrace(ctx, "CountChildren")
	defer span.End()

	return d.nodeStore(d.db).CountChildren(ctx, parentID)
}

func (s *nodeStore) ReadNode(ctx context.Context, id int64) (*storage.Node, error) {
	row := s.stbl.
		Select(nodeColumns...).
		From("node").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx)

	node, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.NodeNotFoundError(id)
		}
		return nil, s.handleSQLError(err)
	}

	return node, nil
}

func (s *nodeStore) ListNodes(ctx context.Context) ([]*storage.Node, error) {
	return s.list(ctx, s.stbl.Select(nodeColumns...).From("node"))
}

func (s *nodeStore) ListChildren(ctx context.Context, parentID int64) ([]*storage.Node, error) {
	return s.list(ctx, s.stbl.Select(nodeColumns...).From("node").Where(sq.Eq{"parent_id": parentID}))
}

func (s *nodeStore) ListRoots(ctx context.Context) ([]*storage.Node, error) {
	return s.list(ctx, s.stbl.Select(nodeColumns...).From("node").Where(sq.Eq{"parent_id": nil}))
}

func (s *nodeStore) list(ctx context.Context, sb sq.SelectBuilder) ([]*storage.Node, error) {
	rows, err := sb.OrderBy("id").QueryContext(ctx)
	if err != nil {
		return nil, s.handleSQLError(err)
	}
	defer rows.Close()

	nodes := make([]*storage.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, s.handleSQLError(err)
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, s.handleSQLError(err)
	}

	return nodes, nil
}

func (s *nodeStore) CountChildren(ctx context.Context, parentID int64) (int, error) {
	var count int
	err := s.stbl.
		Select("COUNT(*)").
		From("node").
		Where(sq.Eq{"parent_id": parentID}).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return 0, s.handleSQLError(err)
	}

	return count, nil
}

func (s *nodeStore) InsertNode(ctx context.Context, node *storage.Node) (*storage.Node, error) {
	ib := s.stbl.
		Insert("node").
		Columns("name", "description", "parent_id", "created_at", "updated_at").
		Values(node.Name, nullString(node.Description), nullInt64(node.ParentID), node.CreatedAt, node.UpdatedAt)

	var id int64
	if s.returningID {
		if err := ib.Suffix("RETURNING id").QueryRowContext(ctx).Scan(&id); err != nil {
			return nil, s.handleSQLError(err)
		}
	} else {
		res, err := ib.ExecContext(ctx)
		if err != nil {
			return nil, s.handleSQLError(err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return nil, s.handleSQLError(err)
		}
	}

	inserted := node.Clone()
	inserted.ID = id
	return inserted, nil
}

func (s *nodeStore) UpdateNode(ctx context.Context, node *storage.Node) error {
	res, err := s.stbl.
		Update("node").
		Set("name", node.Name).
		Set("description", nullString(node.Description)).
		Set("parent_id", nullInt64(node.ParentID)).
		Set("updated_at", node.UpdatedAt).
		Where(sq.Eq{"id": node.ID}).
		ExecContext(ctx)
	if err != nil {
		return s.handleSQLError(err)
	}

	return s.expectOneRow(res, node.ID)
}

func (s *nodeStore) DeleteNode(ctx context.Context, id int64) error {
	children, err := s.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return storage.ErrNodeHasChildren
	}

	res, err := s.stbl.
		Delete("node").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return s.handleSQLError(err)
	}

	return s.expectOneRow(res, id)
}

func (s *nodeStore) expectOneRow(res sql.Result, id int64) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return s.handleSQLError(err)
	}
	if rowsAffected == 0 {
		return storage.NodeNotFoundError(id)
	}
	return nil
}
