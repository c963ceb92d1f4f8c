package commands

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/logger"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

type DeleteNodeCommand struct {
	datastore storage.NodeBackend
	logger    logger.Logger
}

type DeleteNodeCommandOption func(*DeleteNodeCommand)

func WithDeleteNodeCmdLogger(l logger.Logger) DeleteNodeCommandOption {
	return func(c *DeleteNodeCommand) {
		c.logger = l
	}
}

func NewDeleteNodeCommand(datastore storage.NodeBackend, opts ...DeleteNodeCommandOption) *DeleteNodeCommand {
	c := &DeleteNodeCommand{
		datastore: datastore,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute removes a node that has no children.
func (c *DeleteNodeCommand) Execute(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "DeleteNode")
	defer span.End()
	defer func() { recordMutation("delete", err) }()

	span.SetAttributes(attribute.Int64("node_id", id))

	if err := validateID(id); err != nil {
		return err
	}

	err = c.datastore.WriteTx(ctx, func(tx storage.NodeTx) error {
		if _, err := tx.ReadNode(ctx, id); err != nil {
			return err
		}

		children, err := tx.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return serverErrors.ErrNodeHasChildren
		}

		return tx.DeleteNode(ctx, id)
	})
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		return serverErrors.NodeNotFoundError(id)
	case errors.Is(err, storage.ErrNodeHasChildren):
		return serverErrors.ErrNodeHasChildren
	default:
		return serverErrors.HandleError("Error deleting node", err)
	}

	c.logger.InfoWithContext(ctx, "node deleted", zap.Int64("node_id", id))
	return nil
}
