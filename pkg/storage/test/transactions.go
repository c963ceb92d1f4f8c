package test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy/pkg/storage"
)

func WriteTxRollbackTest(t *testing.T, ds storage.Datastore) {
	ctx := context.Background()

	parent := insert(t, ds, "rollback-parent", nil)
	errAbort := errors.New("abort")

	var staged *storage.Node
	err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
		var err error
		now := storage.Now()
		staged, err = tx.InsertNode(ctx, &storage.Node{Name: "staged", ParentID: &parent.ID, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)
	require.NotNil(t, staged)

	_, err = ds.ReadNode(ctx, staged.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	count, err := ds.CountChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func WriteTxCancellationTest(t *testing.T, ds storage.Datastore) {
	t.Run("cancelled_before_start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			called = true
			return nil
		})
		require.Error(t, err)
		require.False(t, called)
	})

	t.Run("cancelled_before_commit", func(t *testing.T) {
		parent := insert(t, ds, "cancel-parent", nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
			now := storage.Now()
			if _, err := tx.InsertNode(ctx, &storage.Node{Name: "abandoned", ParentID: &parent.ID, CreatedAt: now, UpdatedAt: now}); err != nil {
				return err
			}
			cancel()
			return nil
		})
		require.Error(t, err)

		count, err := ds.CountChildren(context.Background(), parent.ID)
		require.NoError(t, err)
		require.Zero(t, count)
	})
}

func WriteTxReadYourWritesTest(t *testing.T, ds storage.Datastore) {
	ctx := context.Background()

	err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
		now := storage.Now()
		parent, err := tx.InsertNode(ctx, &storage.Node{Name: "tx-parent", CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return err
		}
		child, err := tx.InsertNode(ctx, &storage.Node{Name: "tx-child", ParentID: &parent.ID, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return err
		}

		got, err := tx.ReadNode(ctx, child.ID)
		if err != nil {
			return err
		}
		if *got.ParentID != parent.ID {
			return fmt.Errorf("expected parent %d, got %d", parent.ID, *got.ParentID)
		}

		count, err := tx.CountChildren(ctx, parent.ID)
		if err != nil {
			return err
		}
		if count != 1 {
			return fmt.Errorf("expected one child, got %d", count)
		}
		return nil
	})
	require.NoError(t, err)
}

func ReadTxSnapshotTest(t *testing.T, ds storage.Datastore) {
	ctx := context.Background()

	root := insert(t, ds, "snapshot-root", nil)
	child := insert(t, ds, "snapshot-child", &root.ID)

	err := ds.ReadTx(ctx, func(r storage.NodeReader) error {
		got, err := r.ReadNode(ctx, root.ID)
		if err != nil {
			return err
		}
		children, err := r.ListChildren(ctx, got.ID)
		if err != nil {
			return err
		}
		if len(children) != 1 || children[0].ID != child.ID {
			return fmt.Errorf("unexpected children %v", ids(children))
		}
		return nil
	})
	require.NoError(t, err)

	errAbort := errors.New("abort")
	err = ds.ReadTx(ctx, func(storage.NodeReader) error {
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)
}

func ConcurrentWritersTest(t *testing.T, ds storage.Datastore) {
	const writers = 8

	parent := insert(t, ds, "concurrent-parent", nil)

	p := pool.New().WithErrors().WithContext(context.Background())
	for i := 0; i < writers; i++ {
		p.Go(func(ctx context.Context) error {
			return ds.WriteTx(ctx, func(tx storage.NodeTx) error {
				// Read before writing so that engines detecting conflicts have something to detect.
				if _, err := tx.ReadNode(ctx, parent.ID); err != nil {
					return err
				}
				now := storage.Now()
				_, err := tx.InsertNode(ctx, &storage.Node{
					Name:      fmt.Sprintf("writer-%d", i),
					ParentID:  &parent.ID,
					CreatedAt: now,
					UpdatedAt: now,
				})
				return err
			})
		})
	}
	require.NoError(t, p.Wait())

	count, err := ds.CountChildren(context.Background(), parent.ID)
	require.NoError(t, err)
	require.Equal(t, writers, count)
}
