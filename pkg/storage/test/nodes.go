package test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy/pkg/storage"
)

func NodeInsertAndReadTest(t *testing.T, ds storage.Datastore) {
	ctx := context.Background()

	now := storage.Now()
	node := &storage.Node{
		Name:        "Electronics",
		Description: ptr("things with batteries"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var inserted *storage.Node
	err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
		var err error
		inserted, err = tx.InsertNode(ctx, node)
		return err
	})
	require.NoError(t, err)
	require.Positive(t, inserted.ID)
	require.Zero(t, node.ID, "the argument must not be modified")

	t.Run("read_returns_stored_fields", func(t *testing.T) {
		got, err := ds.ReadNode(ctx, inserted.ID)
		require.NoError(t, err)

		if diff := cmp.Diff(inserted, got, nodeCmpOpts...); diff != "" {
			t.Fatalf("mismatch (-want +got):\n%s", diff)
		}
		require.Equal(t, time.UTC, got.CreatedAt.Location())
		require.True(t, got.IsRoot())
	})

	t.Run("list_includes_node", func(t *testing.T) {
		nodes, err := ds.ListNodes(ctx)
		require.NoError(t, err)
		require.Contains(t, ids(nodes), inserted.ID)
		require.IsIncreasing(t, ids(nodes))
	})

	t.Run("read_missing_node_returns_not_found", func(t *testing.T) {
		_, err := ds.ReadNode(ctx, 987654321)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ids_are_unique", func(t *testing.T) {
		other := insert(t, ds, "Electronics", nil)
		require.NotEqual(t, inserted.ID, other.ID)
	})
}

func NodeChildrenIndexTest(t *testing.T, ds storage.Datastore) {
	ctx := context.Background()

	root := insert(t, ds, "root", nil)
	c1 := insert(t, ds, "c1", &root.ID)
	c2 := insert(t, ds, "c2", &root.ID)
	c3 := insert(t, ds, "c3", &root.ID)
	grandchild := insert(t, ds, "gc", &c2.ID)

	t.Run("children_are_ordered_by_id", func(t *testing.T) {
		children, err := ds.ListChildren(ctx, root.ID)
		require.NoError(t, err)
		require.Equal(t, []int64{c1.ID, c2.ID, c3.ID}, ids(children))
		for _, c := range children {
			require.Equal(t, root.ID, *c.ParentID)
		}
	})

	t.Run("children_are_direct_only", func(t *testing.T) {
		children, err := ds.ListChildren(ctx, c2.ID)
		require.NoError(t, err)
		require.Equal(t, []int64{grandchild.ID}, ids(children))

		count, err := ds.CountChildren(ctx, root.ID)
		require.NoError(t, err)
		require.Equal(t, 3, count)
	})

	t.Run("leaf_has_no_children", func(t *testing.T) {
		children, err := ds.ListChildren(ctx, c1.ID)
		require.NoError(t, err)
		require.Empty(t, children)

		count, err := ds.CountChildren(ctx, c1.ID)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("missing_parent_has_no_children", func(t *testing.T) {
		children, err := ds.ListChildren(ctx, 987654321)
		require.NoError(t, err)
		require.Empty(t, children)
	})

	t.Run("roots_exclude_children", func(t *testing.T) {
		roots, err := ds.ListRoots(ctx)
		require.NoError(t, err)
		require.Contains(t, ids(roots), root.ID)
		require.NotContains(t, ids(roots), c1.ID)
		require.IsIncreasing(t, ids(roots))
		for _, r := range roots {
			require.Nil(t, r.ParentID)
		}
	})
}

func NodeUpdateTest(t *testing.T, ds storage.Datastore) {
	ctx := context.Background()

	a := insert(t, ds, "a", nil)
	b := insert(t, ds, "b", nil)
	child := insert(t, ds, "child", &a.ID)

	t.Run("reparent_moves_child_index", func(t *testing.T) {
		updated := child.Clone()
		updated.Name = "moved"
		updated.Description = ptr("now under b")
		updated.ParentID = &b.ID
		updated.UpdatedAt = storage.Now().Add(time.Second)

		err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			return tx.UpdateNode(ctx, updated)
		})
		require.NoError(t, err)

		got, err := ds.ReadNode(ctx, child.ID)
		require.NoError(t, err)
		require.Equal(t, "moved", got.Name)
		require.Equal(t, "now under b", *got.Description)
		require.Equal(t, b.ID, *got.ParentID)
		require.True(t, got.CreatedAt.Equal(child.CreatedAt))
		require.True(t, got.UpdatedAt.Equal(updated.UpdatedAt))

		underA, err := ds.ListChildren(ctx, a.ID)
		require.NoError(t, err)
		require.Empty(t, underA)

		underB, err := ds.ListChildren(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, []int64{child.ID}, ids(underB))
	})

	t.Run("clearing_parent_and_description", func(t *testing.T) {
		got, err := ds.ReadNode(ctx, child.ID)
		require.NoError(t, err)

		got.ParentID = nil
		got.Description = nil
		got.UpdatedAt = storage.Now()
		err = ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			return tx.UpdateNode(ctx, got)
		})
		require.NoError(t, err)

		got, err = ds.ReadNode(ctx, child.ID)
		require.NoError(t, err)
		require.Nil(t, got.ParentID)
		require.Nil(t, got.Description)

		roots, err := ds.ListRoots(ctx)
		require.NoError(t, err)
		require.Contains(t, ids(roots), child.ID)
	})

	t.Run("update_missing_node_returns_not_found", func(t *testing.T) {
		err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			return tx.UpdateNode(ctx, &storage.Node{ID: 987654321, Name: "x", UpdatedAt: storage.Now()})
		})
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func NodeDeleteTest(t *testing.T, ds storage.Datastore) {
	ctx := context.Background()

	parent := insert(t, ds, "parent", nil)
	child := insert(t, ds, "child", &parent.ID)

	t.Run("node_with_children_is_kept", func(t *testing.T) {
		err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			return tx.DeleteNode(ctx, parent.ID)
		})
		require.ErrorIs(t, err, storage.ErrNodeHasChildren)

		_, err = ds.ReadNode(ctx, parent.ID)
		require.NoError(t, err)
	})

	t.Run("leaf_then_parent", func(t *testing.T) {
		err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			return tx.DeleteNode(ctx, child.ID)
		})
		require.NoError(t, err)

		err = ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			return tx.DeleteNode(ctx, parent.ID)
		})
		require.NoError(t, err)

		_, err = ds.ReadNode(ctx, parent.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
		_, err = ds.ReadNode(ctx, child.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete_missing_node_returns_not_found", func(t *testing.T) {
		err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			return tx.DeleteNode(ctx, parent.ID)
		})
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}
