package forest

import (
	"context"
	"fmt"

	"github.com/canopyhq/canopy/pkg/storage"
)

// Subtree returns the tree rooted at the node with the given id. It returns an error
// wrapping [storage.ErrNotFound] if the node does not exist.
func Subtree(ctx context.Context, r storage.NodeReader, rootID int64) (*TreeNode, error) {
	root, err := r.ReadNode(ctx, rootID)
	if err != nil {
		return nil, err
	}

	tree := FromNode(root)
	if err := expand(ctx, r, []*TreeNode{tree}); err != nil {
		return nil, err
	}

	return tree, nil
}

// Forest returns every root with its descendants under a synthetic container with id 0,
// name "Root" and no timestamps. It returns ErrEmptyForest if there are no roots.
func Forest(ctx context.Context, r storage.NodeReader) (*TreeNode, error) {
	roots, err := r.ListRoots(ctx)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, ErrEmptyForest
	}

	container := &TreeNode{
		ID:       0,
		Name:     SyntheticRootName,
		Children: make([]*TreeNode, 0, len(roots)),
	}
	for _, root := range roots {
		container.Children = append(container.Children, FromNode(root))
	}

	if err := expand(ctx, r, container.Children); err != nil {
		return nil, err
	}

	return container, nil
}

// expand attaches the descendants of every node in queue, breadth first. Children are
// attached in the order the reader lists them, which is ascending id.
func expand(ctx context.Context, r storage.NodeReader, queue []*TreeNode) error {
	visited := make(map[int64]struct{}, len(queue))
	for _, n := range queue {
		visited[n.ID] = struct{}{}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := r.ListChildren(ctx, current.ID)
		if err != nil {
			return err
		}

		for _, child := range children {
			if _, ok := visited[child.ID]; ok {
				return fmt.Errorf("%w: node %d reached twice", ErrCorruptForest, child.ID)
			}
			visited[child.ID] = struct{}{}

			tn := FromNode(child)
			current.Children = append(current.Children, tn)
			queue = append(queue, tn)
		}
	}

	return nil
}
