// Package storage contains storage interfaces and implementations
//
//go:generate mockgen -source storage.go -destination ./mocks/mock_storage.go -package mocks Datastore
package storage

import (
	"context"
	"time"
)

const (
	// MaxNodeNameLength is the maximum number of characters in a node name.
	MaxNodeNameLength = 200
	// MaxNodeDescriptionLength is the maximum number of characters in a node description.
	MaxNodeDescriptionLength = 1000
	// MaxUsernameLength is the maximum number of characters in a username.
	MaxUsernameLength = 50
)

// Node is the stored representation of a tree node. Nodes reference their parent by id only;
// the children of a node are always computed with a lookup on ParentID.
type Node struct {
	ID          int64
	Name        string
	Description *string
	ParentID    *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Description != nil {
		d := *n.Description
		c.Description = &d
	}
	if n.ParentID != nil {
		p := *n.ParentID
		c.ParentID = &p
	}
	return &c
}

// User is a stored identity.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// NodeReader provides point and index lookups over nodes.
type NodeReader interface {
	// ReadNode returns the node with the given id, or ErrNotFound.
	ReadNode(ctx context.Context, id int64) (*Node, error)

	// ListNodes returns every node ordered by id.
	ListNodes(ctx context.Context) ([]*Node, error)

	// ListChildren returns the direct children of the given node ordered by id. A parent
	// that does not exist simply has no children.
	ListChildren(ctx context.Context, parentID int64) ([]*Node, error)

	// ListRoots returns the nodes without a parent ordered by id.
	ListRoots(ctx context.Context) ([]*Node, error)

	// CountChildren returns the number of direct children of the given node.
	CountChildren(ctx context.Context, parentID int64) (int, error)
}

// NodeWriter mutates nodes. Implementations only expose it inside a write transaction.
type NodeWriter interface {
	// InsertNode stores a new node and returns it with its assigned id. The ID field of
	// the argument is ignored.
	InsertNode(ctx context.Context, node *Node) (*Node, error)

	// UpdateNode overwrites name, description, parent and updated_at of an existing
	// node. It returns ErrNotFound if the node does not exist.
	UpdateNode(ctx context.Context, node *Node) error

	// DeleteNode removes a node. It returns ErrNotFound if the node does not exist and
	// ErrNodeHasChildren if it is still referenced as a parent.
	DeleteNode(ctx context.Context, id int64) error
}

// NodeTx is the view of the store available inside a write transaction.
type NodeTx interface {
	NodeReader
	NodeWriter
}

// NodeBackend gives access to the node relation. Every mutation must go through WriteTx,
// which is the only atomic unit offered: either everything fn did is committed, or nothing
// is. Implementations guarantee that two WriteTx units touching related rows are
// serializable with respect to each other, possibly by re-running fn after a conflict, so fn
// must not have side effects outside the transaction.
type NodeBackend interface {
	NodeReader

	// ReadTx runs fn against a consistent snapshot of the store.
	ReadTx(ctx context.Context, fn func(NodeReader) error) error

	// WriteTx runs fn inside a single atomic unit. A non-nil error returned by fn, a panic,
	// or the cancellation of ctx rolls the unit back.
	WriteTx(ctx context.Context, fn func(NodeTx) error) error
}

// UsersBackend provides persistence for identities.
type UsersBackend interface {
	// ReadUser returns the user with the given username, or ErrNotFound.
	ReadUser(ctx context.Context, username string) (*User, error)

	// CreateUser stores a new user and returns it with its assigned id. It returns
	// ErrCollision if the username is taken.
	CreateUser(ctx context.Context, user *User) (*User, error)

	// CountUsers returns the number of stored users.
	CountUsers(ctx context.Context) (int, error)
}

// Datastore is the complete persistence contract of the server.
type Datastore interface {
	NodeBackend
	UsersBackend

	// IsReady reports whether the datastore is reachable and its schema up to date.
	IsReady(ctx context.Context) (ReadinessStatus, error)

	// Close releases the resources held by the datastore.
	Close()
}

// ReadinessStatus represents the readiness status of the datastore.
type ReadinessStatus struct {
	// Message is a human-friendly status message for the current datastore status.
	Message string

	IsReady bool
}

// Now returns the timestamp used for node and user mutations: UTC with the microsecond
// precision every supported engine can store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
