package commands

import (
	"context"

	"github.com/canopyhq/canopy/pkg/logger"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

type ListNodesQuery struct {
	datastore storage.NodeReader
	logger    logger.Logger
}

type ListNodesQueryOption func(*ListNodesQuery)

func WithListNodesQueryLogger(l logger.Logger) ListNodesQueryOption {
	return func(q *ListNodesQuery) {
		q.logger = l
	}
}

func NewListNodesQuery(datastore storage.NodeReader, opts ...ListNodesQueryOption) *ListNodesQuery {
	q := &ListNodesQuery{
		datastore: datastore,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Execute returns every node ordered by id.
func (q *ListNodesQuery) Execute(ctx context.Context) ([]*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "ListNodes")
	defer span.End()

	nodes, err := q.datastore.ListNodes(ctx)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	if nodes == nil {
		nodes = []*storage.Node{}
	}
	return nodes, nil
}
