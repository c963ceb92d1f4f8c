package forest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/memory"
	"github.com/canopyhq/canopy/pkg/storage/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr[T any](v T) *T {
	return &v
}

func insert(t *testing.T, ds storage.NodeBackend, name string, parentID *int64) *storage.Node {
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
	return inserted
}

// chain builds a -> b -> c, where c is the root.
func chain(t *testing.T) (ds *memory.MemoryBackend, a, b, c *storage.Node) {
	ds = memory.New()
	c = insert(t, ds, "c", nil)
	b = insert(t, ds, "b", &c.ID)
	a = insert(t, ds, "a", &b.ID)
	return ds, a, b, c
}

func TestWouldCycle(t *testing.T) {
	ds, a, b, c := chain(t)
	ctx := context.Background()
	other := insert(t, ds, "other", nil)

	tests := []struct {
		name      string
		nodeID    int64
		candidate int64
		expected  bool
	}{
		{name: "self_parent", nodeID: a.ID, candidate: a.ID, expected: true},
		{name: "descendant_as_parent", nodeID: c.ID, candidate: a.ID, expected: true},
		{name: "direct_child_as_parent", nodeID: b.ID, candidate: a.ID, expected: true},
		{name: "ancestor_as_parent", nodeID: a.ID, candidate: c.ID, expected: false},
		{name: "unrelated_root", nodeID: c.ID, candidate: other.ID, expected: false},
		{name: "missing_candidate", nodeID: a.ID, candidate: 10_000, expected: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := WouldCycle(ctx, ds, test.nodeID, test.candidate)
			require.NoError(t, err)
			require.Equal(t, test.expected, got)
		})
	}
}

func TestWouldCycleSelfParentNeedsNoLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockNodeReader(ctrl)

	got, err := WouldCycle(context.Background(), reader, 7, 7)
	require.NoError(t, err)
	require.True(t, got)
}

func TestWouldCycleCorruptRelation(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockNodeReader(ctrl)
	ctx := context.Background()

	// 2 and 3 point at each other and node 1 is outside the loop.
	reader.EXPECT().ReadNode(ctx, int64(2)).Return(&storage.Node{ID: 2, ParentID: ptr(int64(3))}, nil)
	reader.EXPECT().ReadNode(ctx, int64(3)).Return(&storage.Node{ID: 3, ParentID: ptr(int64(2))}, nil)

	got, err := WouldCycle(ctx, reader, 1, 2)
	require.NoError(t, err)
	require.True(t, got)
}

func TestWouldCycleStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockNodeReader(ctrl)
	ctx := context.Background()
	boom := errors.New("boom")

	reader.EXPECT().ReadNode(ctx, int64(2)).Return(nil, boom)

	_, err := WouldCycle(ctx, reader, 1, 2)
	require.ErrorIs(t, err, boom)
}

func TestWouldCycleCancelled(t *testing.T) {
	ds, a, _, c := chain(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WouldCycle(ctx, ds, c.ID, a.ID)
	require.ErrorIs(t, err, context.Canceled)
}

var treeCmpOpts = []cmp.Option{
	cmpopts.EquateApproxTime(0),
}

func TestForest(t *testing.T) {
	ds := memory.New()
	ctx := context.Background()

	r1 := insert(t, ds, "R1", nil)
	c1 := insert(t, ds, "C1", &r1.ID)
	r2 := insert(t, ds, "R2", nil)
	c2 := insert(t, ds, "C2", &r1.ID)

	var tree *TreeNode
	err := ds.ReadTx(ctx, func(r storage.NodeReader) error {
		var err error
		tree, err = Forest(ctx, r)
		return err
	})
	require.NoError(t, err)

	expected := &TreeNode{
		ID:   0,
		Name: SyntheticRootName,
		Children: []*TreeNode{
			{
				ID: r1.ID, Name: "R1", CreatedAt: &r1.CreatedAt, UpdatedAt: &r1.UpdatedAt,
				Children: []*TreeNode{
					{ID: c1.ID, Name: "C1", ParentID: &r1.ID, CreatedAt: &c1.CreatedAt, UpdatedAt: &c1.UpdatedAt, Children: []*TreeNode{}},
					{ID: c2.ID, Name: "C2", ParentID: &r1.ID, CreatedAt: &c2.CreatedAt, UpdatedAt: &c2.UpdatedAt, Children: []*TreeNode{}},
				},
			},
			{ID: r2.ID, Name: "R2", CreatedAt: &r2.CreatedAt, UpdatedAt: &r2.UpdatedAt, Children: []*TreeNode{}},
		},
	}
	if diff := cmp.Diff(expected, tree, treeCmpOpts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 5, tree.Count())
}

func TestForestEmpty(t *testing.T) {
	_, err := Forest(context.Background(), memory.New())
	require.ErrorIs(t, err, ErrEmptyForest)
}

func TestSubtree(t *testing.T) {
	ds, a, b, c := chain(t)
	ctx := context.Background()

	t.Run("from_root", func(t *testing.T) {
		tree, err := Subtree(ctx, ds, c.ID)
		require.NoError(t, err)
		require.Equal(t, 3, tree.Count())
		require.Equal(t, b.ID, tree.Children[0].ID)
		require.Equal(t, a.ID, tree.Children[0].Children[0].ID)
		require.Empty(t, tree.Children[0].Children[0].Children)
	})

	t.Run("from_inner_node", func(t *testing.T) {
		tree, err := Subtree(ctx, ds, b.ID)
		require.NoError(t, err)
		require.Equal(t, 2, tree.Count())
		require.Equal(t, c.ID, *tree.ParentID)
	})

	t.Run("missing_root", func(t *testing.T) {
		_, err := Subtree(ctx, ds, 10_000)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestSubtreeCorruptRelation(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockNodeReader(ctrl)
	ctx := context.Background()

	one := &storage.Node{ID: 1, Name: "one", ParentID: ptr(int64(2))}
	two := &storage.Node{ID: 2, Name: "two", ParentID: ptr(int64(1))}

	reader.EXPECT().ReadNode(ctx, int64(1)).Return(one, nil)
	reader.EXPECT().ListChildren(ctx, int64(1)).Return([]*storage.Node{two}, nil)
	reader.EXPECT().ListChildren(ctx, int64(2)).Return([]*storage.Node{one}, nil)

	_, err := Subtree(ctx, reader, 1)
	require.ErrorIs(t, err, ErrCorruptForest)
}

func TestExportRoundTrip(t *testing.T) {
	ds := memory.New()
	ctx := context.Background()

	r1 := insert(t, ds, "R1", nil)
	c1 := insert(t, ds, "C1", &r1.ID)
	err := ds.WriteTx(ctx, func(tx storage.NodeTx) error {
		c1.Description = ptr("first child")
		c1.UpdatedAt = storage.Now()
		return tx.UpdateNode(ctx, c1)
	})
	require.NoError(t, err)
	insert(t, ds, "R2", nil)

	tree, err := Forest(ctx, ds)
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(tree, format)
			require.NoError(t, err)

			parsed, err := ParseExport(data, format)
			require.NoError(t, err)
			if diff := cmp.Diff(tree, parsed, treeCmpOpts...); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}

			again, err := Encode(parsed, format)
			require.NoError(t, err)
			require.Equal(t, string(data), string(again))
		})
	}
}

func TestEncodeJSONLayout(t *testing.T) {
	tree := &TreeNode{ID: 0, Name: SyntheticRootName, Children: []*TreeNode{}}

	data, err := Encode(tree, FormatJSON)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":0,"name":"Root","description":null,"parentId":null,"children":[]}`, string(data))
	require.Contains(t, string(data), "\n  \"name\": \"Root\"")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		err      bool
	}{
		{input: "", expected: FormatJSON},
		{input: "json", expected: FormatJSON},
		{input: "JSON", expected: FormatJSON},
		{input: "yaml", expected: FormatYAML},
		{input: "yml", expected: FormatYAML},
		{input: "xml", err: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseFormat(test.input)
			if test.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expected, got)
		})
	}

	require.Equal(t, "application/json", FormatJSON.ContentType())
	require.Equal(t, "application/yaml", FormatYAML.ContentType())
}

func TestParseExportInvalid(t *testing.T) {
	_, err := ParseExport([]byte("{"), FormatJSON)
	require.Error(t, err)

	_, err = ParseExport([]byte("{}"), Format("xml"))
	require.Error(t, err)
}
