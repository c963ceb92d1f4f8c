package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/forest"
	"github.com/canopyhq/canopy/pkg/logger"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

type GetTreeQuery struct {
	datastore storage.NodeBackend
	logger    logger.Logger
}

type GetTreeQueryOption func(*GetTreeQuery)

func WithGetTreeQueryLogger(l logger.Logger) GetTreeQueryOption {
	return func(q *GetTreeQuery) {
		q.logger = l
	}
}

func NewGetTreeQuery(datastore storage.NodeBackend, opts ...GetTreeQueryOption) *GetTreeQuery {
	q := &GetTreeQuery{
		datastore: datastore,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Execute returns the subtree rooted at rootID, or every root under the synthetic container
// when rootID is nil. The whole tree is read from one snapshot.
func (q *GetTreeQuery) Execute(ctx context.Context, rootID *int64) (*forest.TreeNode, error) {
	ctx, span := tracer.Start(ctx, "GetTree")
	defer span.End()

	if rootID != nil {
		if err := validateID(*rootID); err != nil {
			return nil, err
		}
	}

	var tree *forest.TreeNode
	err := q.datastore.ReadTx(ctx, func(r storage.NodeReader) error {
		var err error
		if rootID != nil {
			tree, err = forest.Subtree(ctx, r, *rootID)
		} else {
			tree, err = forest.Forest(ctx, r)
		}
		return err
	})
	switch {
	case err == nil:
		return tree, nil
	case rootID != nil && errors.Is(err, storage.ErrNotFound):
		return nil, serverErrors.NodeNotFoundError(*rootID)
	case errors.Is(err, forest.ErrEmptyForest):
		return nil, serverErrors.ErrTreeNotFound
	case errors.Is(err, forest.ErrCorruptForest):
		q.logger.ErrorWithContext(ctx, "stored node relation contains a cycle", zap.Error(err))
		return nil, serverErrors.HandleError("", err)
	default:
		return nil, serverErrors.HandleError("", err)
	}
}
