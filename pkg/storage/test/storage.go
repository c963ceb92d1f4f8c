package test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/canopyhq/canopy/pkg/storage"
)

var nodeCmpOpts = []cmp.Option{
	cmpopts.EquateApproxTime(0),
}

// RunAllTests runs the behaviour every [storage.Datastore] implementation must share.
// The tests only assume that ds is empty of the nodes they create themselves.
func RunAllTests(t *testing.T, ds storage.Datastore) {
	t.Run("TestDatastoreIsReady", func(t *testing.T) {
		status, err := ds.IsReady(context.Background())
		require.NoError(t, err)
		require.True(t, status.IsReady)
	})

	// Nodes.
	t.Run("TestNodeInsertAndRead", func(t *testing.T) { NodeInsertAndReadTest(t, ds) })
	t.Run("TestNodeChildrenIndex", func(t *testing.T) { NodeChildrenIndexTest(t, ds) })
	t.Run("TestNodeUpdate", func(t *testing.T) { NodeUpdateTest(t, ds) })
	t.Run("TestNodeDelete", func(t *testing.T) { NodeDeleteTest(t, ds) })

	// Transactions.
	t.Run("TestWriteTxRollback", func(t *testing.T) { WriteTxRollbackTest(t, ds) })
	t.Run("TestWriteTxCancellation", func(t *testing.T) { WriteTxCancellationTest(t, ds) })
	t.Run("TestWriteTxReadYourWrites", func(t *testing.T) { WriteTxReadYourWritesTest(t, ds) })
	t.Run("TestReadTxSnapshot", func(t *testing.T) { ReadTxSnapshotTest(t, ds) })
	t.Run("TestConcurrentWriters", func(t *testing.T) { ConcurrentWritersTest(t, ds) })

	// Users.
	t.Run("TestUsers", func(t *testing.T) { UsersTest(t, ds) })
}

func ptr[T any](v T) *T {
	return &v
}

// insert stores a node in its own write transaction.
func insert(t *testing.T, ds storage.Datastore, name string, parentID *int64) *storage.Node {
	t.Helper()

	now := storage.Now()
	var inserted *storage.Node
	err := ds.WriteTx(context.Background(), func(tx storage.NodeTx) error {
		var err error
		inserted, err = tx.InsertNode(context.Background(), &storage.Node{
			Name:      name,
			ParentID:  parentID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	require.NoError(t, err)
	require.Positive(t, inserted.ID)

	return inserted
}

func ids(nodes []*storage.Node) []int64 {
	res := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, n.ID)
	}
	return res
}
