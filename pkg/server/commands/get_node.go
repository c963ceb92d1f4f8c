package commands

import (
	"context"
	"errors"

	"github.com/canopyhq/canopy/pkg/logger"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

type GetNodeQuery struct {
	datastore storage.NodeReader
	logger    logger.Logger
}

type GetNodeQueryOption func(*GetNodeQuery)

func WithGetNodeQueryLogger(l logger.Logger) GetNodeQueryOption {
	return func(q *GetNodeQuery) {
		q.logger = l
	}
}

func NewGetNodeQuery(datastore storage.NodeReader, opts ...GetNodeQueryOption) *GetNodeQuery {
	q := &GetNodeQuery{
		datastore: datastore,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *GetNodeQuery) Execute(ctx context.Context, id int64) (*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "GetNode")
	defer span.End()

	if err := validateID(id); err != nil {
		return nil, err
	}

	node, err := q.datastore.ReadNode(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, serverErrors.NodeNotFoundError(id)
		}
		return nil, serverErrors.HandleError("", err)
	}

	return node, nil
}
