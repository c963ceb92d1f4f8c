// Package forest contains the algorithms that keep the node relation a forest and render it
// as nested trees: cycle detection for re-parenting, subtree assembly and the export codec.
package forest

import (
	"errors"
	"time"

	"github.com/canopyhq/canopy/pkg/storage"
)

var (
	// ErrEmptyForest is returned when a tree of all roots is requested and there are none.
	ErrEmptyForest = errors.New("forest has no roots")

	// ErrCorruptForest is returned when a node is reached twice while walking the stored
	// relation, which can only happen if it contains a cycle.
	ErrCorruptForest = errors.New("stored node relation is not a forest")
)

// SyntheticRootName is the name of the container returned by a tree of all roots.
const SyntheticRootName = "Root"

// TreeNode is the nested representation of a node and its descendants.
type TreeNode struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	ParentID    *int64      `json:"parentId"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
	Children    []*TreeNode `json:"children"`
}

// FromNode returns a TreeNode without children for n.
func FromNode(n *storage.Node) *TreeNode {
	c := n.Clone()
	return &TreeNode{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		CreatedAt:   &c.CreatedAt,
		UpdatedAt:   &c.UpdatedAt,
		Children:    []*TreeNode{},
	}
}

// Count returns the number of nodes in the tree rooted at t, t included.
func (t *TreeNode) Count() int {
	count := 0
	queue := []*TreeNode{t}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		count++
		queue = append(queue, n.Children...)
	}
	return count
}
