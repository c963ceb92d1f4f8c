package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/canopyhq/canopy/pkg/storage"
)

var tracer = otel.Tracer("canopy/pkg/storage/memory")

// rootKey indexes the nodes without a parent in the children index. Node ids start at 1.
const rootKey int64 = 0

// arena holds the nodes keyed by id together with the parent index. An arena that has
// been published by a commit is never modified again; write transactions work on a
// clone and replace the published arena when they commit.
type arena struct {
	nodes    map[int64]*storage.Node
	children map[int64]map[int64]struct{}
	nextID   int64
}

func newArena() *arena {
	return &arena{
		nodes:    make(map[int64]*storage.Node),
		children: make(map[int64]map[int64]struct{}),
		nextID:   1,
	}
}

func (a *arena) clone() *arena {
	c := &arena{
		nodes:    maps.Clone(a.nodes),
		children: make(map[int64]map[int64]struct{}, len(a.children)),
		nextID:   a.nextID,
	}
	for parent, set := range a.children {
		c.children[parent] = maps.Clone(set)
	}
	return c
}

func parentKey(n *storage.Node) int64 {
	if n.ParentID == nil {
		return rootKey
	}
	return *n.ParentID
}

func (a *arena) link(parent, child int64) {
	set, ok := a.children[parent]
	if !ok {
		set = make(map[int64]struct{})
		a.children[parent] = set
	}
	set[child] = struct{}{}
}

func (a *arena) unlink(parent, child int64) {
	set := a.children[parent]
	delete(set, child)
	if len(set) == 0 {
		delete(a.children, parent)
	}
}

func (a *arena) sorted(ids map[int64]struct{}) []*storage.Node {
	keys := slices.Sorted(maps.Keys(ids))
	nodes := make([]*storage.Node, 0, len(keys))
	for _, id := range keys {
		nodes = append(nodes, a.nodes[id].Clone())
	}
	return nodes
}

func (a *arena) ReadNode(_ context.Context, id int64) (*storage.Node, error) {
	n, ok := a.nodes[id]
	if !ok {
		return nil, storage.NodeNotFoundError(id)
	}
	return n.Clone(), nil
}

func (a *arena) ListNodes(_ context.Context) ([]*storage.Node, error) {
	keys := slices.Sorted(maps.Keys(a.nodes))
	nodes := make([]*storage.Node, 0, len(keys))
	for _, id := range keys {
		nodes = append(nodes, a.nodes[id].Clone())
	}
	return nodes, nil
}

func (a *arena) ListChildren(_ context.Context, parentID int64) ([]*storage.Node, error) {
	if parentID == rootKey {
		return []*storage.Node{}, nil
	}
	return a.sorted(a.children[parentID]), nil
}

func (a *arena) ListRoots(_ context.Context) ([]*storage.Node, error) {
	return a.sorted(a.children[rootKey]), nil
}

func (a *arena) CountChildren(_ context.Context, parentID int64) (int, error) {
	if parentID == rootKey {
		return 0, nil
	}
	return len(a.children[parentID]), nil
}

func (a *arena) InsertNode(_ context.Context, node *storage.Node) (*storage.Node, error) {
	n := node.Clone()
	n.ID = a.nextID
	a.nextID++

	a.nodes[n.ID] = n
	a.link(parentKey(n), n.ID)

	return n.Clone(), nil
}

func (a *arena) UpdateNode(_ context.Context, node *storage.Node) error {
	existing, ok := a.nodes[node.ID]
	if !ok {
		return storage.NodeNotFoundError(node.ID)
	}

	n := node.Clone()
	n.CreatedAt = existing.CreatedAt

	a.unlink(parentKey(existing), n.ID)
	a.nodes[n.ID] = n
	a.link(parentKey(n), n.ID)

	return nil
}

func (a *arena) DeleteNode(_ context.Context, id int64) error {
	existing, ok := a.nodes[id]
	if !ok {
		return storage.NodeNotFoundError(id)
	}
	if len(a.children[id]) > 0 {
		return storage.ErrNodeHasChildren
	}

	a.unlink(parentKey(existing), id)
	delete(a.nodes, id)

	return nil
}

// StorageOption defines a function type used for configuring a [MemoryBackend] instance.
type StorageOption func(dataStore *MemoryBackend)

// MemoryBackend provides an ephemeral memory-backed implementation of [storage.Datastore].
// These instances may be safely shared by multiple go-routines.
//
// Write transactions are serialised by a single writer lock and stage their changes on a
// copy of the arena, which replaces the published one only when the transaction commits.
type MemoryBackend struct {
	arena      *arena // GUARDED_BY(mutexNodes).
	mutexNodes sync.RWMutex

	// map: username => user
	users      map[string]*storage.User // GUARDED_BY(mutexUsers).
	nextUserID int64                    // GUARDED_BY(mutexUsers).
	mutexUsers sync.RWMutex
}

// Ensures that [MemoryBackend] implements the [storage.Datastore] interface.
var _ storage.Datastore = (*MemoryBackend)(nil)

// New creates a new [MemoryBackend] given the options.
func New(opts ...StorageOption) *MemoryBackend {
	ds := &MemoryBackend{
		arena:      newArena(),
		users:      make(map[string]*storage.User),
		nextUserID: 1,
	}

	for _, opt := range opts {
		opt(ds)
	}

	return ds
}

// Close does not do anything for [MemoryBackend].
func (s *MemoryBackend) Close() {}

// IsReady see [storage.Datastore].IsReady.
func (s *MemoryBackend) IsReady(context.Context) (storage.ReadinessStatus, error) {
	return storage.ReadinessStatus{IsReady: true}, nil
}

func (s *MemoryBackend) published() *arena {
	s.mutexNodes.RLock()
	defer s.mutexNodes.RUnlock()
	return s.arena
}

// ReadNode see [storage.NodeReader].ReadNode.
func (s *MemoryBackend) ReadNode(ctx context.Context, id int64) (*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "memory.ReadNode")
	defer span.End()

	return s.published().ReadNode(ctx, id)
}

// ListNodes see [storage.NodeReader].ListNodes.
func (s *MemoryBackend) ListNodes(ctx context.Context) ([]*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "memory.ListNodes")
	defer span.End()

	return s.published().ListNodes(ctx)
}

// ListChildren see [storage.NodeReader].ListChildren.
func (s *MemoryBackend) ListChildren(ctx context.Context, parentID int64) ([]*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "memory.ListChildren")
	defer span.End()

	return s.published().ListChildren(ctx, parentID)
}

// ListRoots see [storage.NodeReader].ListRoots.
func (s *MemoryBackend) ListRoots(ctx context.Context) ([]*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "memory.ListRoots")
	defer span.End()

	return s.published().ListRoots(ctx)
}

// CountChildren see [storage.NodeReader].CountChildren.
func (s *MemoryBackend) CountChildren(ctx context.Context, parentID int64) (int, error) {
	ctx, span := tracer.Start(ctx, "memory.CountChildren")
	defer span.End()

	return s.published().CountChildren(ctx, parentID)
}

// ReadTx see [storage.NodeBackend].ReadTx. Published arenas are immutable, so the
// snapshot stays consistent without holding the lock while fn runs.
func (s *MemoryBackend) ReadTx(ctx context.Context, fn func(storage.NodeReader) error) error {
	ctx, span := tracer.Start(ctx, "memory.ReadTx")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(s.published())
}

// WriteTx see [storage.NodeBackend].WriteTx.
func (s *MemoryBackend) WriteTx(ctx context.Context, fn func(storage.NodeTx) error) error {
	ctx, span := tracer.Start(ctx, "memory.WriteTx")
	defer span.End()

	s.mutexNodes.Lock()
	defer s.mutexNodes.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	staged := s.arena.clone()
	if err := fn(staged); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.arena = staged
	return nil
}

// ReadUser see [storage.UsersBackend].ReadUser.
func (s *MemoryBackend) ReadUser(ctx context.Context, username string) (*storage.User, error) {
	_, span := tracer.Start(ctx, "memory.ReadUser")
	defer span.End()

	s.mutexUsers.RLock()
	defer s.mutexUsers.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *u
	return &c, nil
}

// CreateUser see [storage.UsersBackend].CreateUser.
func (s *MemoryBackend) CreateUser(ctx context.Context, user *storage.User) (*storage.User, error) {
	_, span := tracer.Start(ctx, "memory.CreateUser")
	defer span.End()

	s.mutexUsers.Lock()
	defer s.mutexUsers.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return nil, storage.ErrCollision
	}

	u := *user
	u.ID = s.nextUserID
	s.nextUserID++
	s.users[u.Username] = &u

	c := u
	return &c, nil
}

// CountUsers see [storage.UsersBackend].CountUsers.
func (s *MemoryBackend) CountUsers(ctx context.Context) (int, error) {
	_, span := tracer.Start(ctx, "memory.CountUsers")
	defer span.End()

	s.mutexUsers.RLock()
	defer s.mutexUsers.RUnlock()

	return len(s.users), nil
}
