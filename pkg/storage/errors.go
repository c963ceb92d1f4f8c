package storage

import (
	"errors"
	"fmt"
)

var (
	// Creation errors

	// ErrCollision if an item already exists within the store.
	ErrCollision = errors.New("item already exists")

	// Write errors

	// ErrNodeHasChildren if a node that is still referenced as a parent is deleted.
	ErrNodeHasChildren = errors.New("node has children")
	// ErrTransactionConflict if a write transaction was aborted by the engine because it
	// conflicted with a concurrent one. Transactions failing with it may be retried.
	ErrTransactionConflict = errors.New("transaction aborted due to a concurrent conflicting write")

	// Shared errors

	ErrCancelled = errors.New("request has been cancelled")
	ErrNotFound  = errors.New("not found")
)

// NodeNotFoundError returns an error wrapping ErrNotFound for the given node id.
func NodeNotFoundError(id int64) error {
	return fmt.Errorf("node '%d': %w", id, ErrNotFound)
}
