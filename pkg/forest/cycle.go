package forest

import (
	"context"
	"errors"

	"github.com/canopyhq/canopy/pkg/storage"
)

// WouldCycle reports whether making candidateParentID the parent of nodeID would close a
// cycle in the relation read through r. It walks up from the candidate parent one lookup
// at a time; reaching nodeID means the candidate is a descendant of the node.
//
// A root or a node that does not exist ends the walk without a cycle. Reaching an id that
// was already visited is treated as a cycle, since it means the stored relation is
// already corrupt.
func WouldCycle(ctx context.Context, r storage.NodeReader, nodeID, candidateParentID int64) (bool, error) {
	if nodeID == candidateParentID {
		return true, nil
	}

	visited := make(map[int64]struct{})
	current := candidateParentID
	for {
		if current == nodeID {
			return true, nil
		}
		if _, ok := visited[current]; ok {
			return true, nil
		}
		visited[current] = struct{}{}

		if err := ctx.Err(); err != nil {
			return false, err
		}

		node, err := r.ReadNode(ctx, current)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return false, nil
			}
			return false, err
		}

		if node.ParentID == nil {
			return false, nil
		}
		current = *node.ParentID
	}
}
