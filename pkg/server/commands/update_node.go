package commands

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/forest"
	"github.com/canopyhq/canopy/pkg/logger"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

// UpdateNodeRequest replaces the mutable fields of a node. A nil ParentID makes the node a
// root and a nil Description clears it.
type UpdateNodeRequest struct {
	ID          int64
	Name        string
	Description *string
	ParentID    *int64
}

type UpdateNodeCommand struct {
	datastore storage.NodeBackend
	logger    logger.Logger
}

type UpdateNodeCommandOption func(*UpdateNodeCommand)

func WithUpdateNodeCmdLogger(l logger.Logger) UpdateNodeCommandOption {
	return func(c *UpdateNodeCommand) {
		c.logger = l
	}
}

func NewUpdateNodeCommand(datastore storage.NodeBackend, opts ...UpdateNodeCommandOption) *UpdateNodeCommand {
	c := &UpdateNodeCommand{
		datastore: datastore,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute applies the update. When a parent is given it is checked, in order, for being
// the node itself, for being one of its descendants, and for existing. All checks read
// the same transaction that performs the write, so two concurrent moves cannot both pass
// against a state that the other one changes.
func (c *UpdateNodeCommand) Execute(ctx context.Context, req *UpdateNodeRequest) (node *storage.Node, err error) {
	ctx, span := tracer.Start(ctx, "UpdateNode")
	defer span.End()
	defer func() { recordMutation("update", err) }()

	span.SetAttributes(attribute.Int64("node_id", req.ID))

	if err := validateID(req.ID); err != nil {
		return nil, err
	}
	if err := validateNodeFields(req.Name, req.Description); err != nil {
		return nil, err
	}

	err = c.datastore.WriteTx(ctx, func(tx storage.NodeTx) error {
		current, err := tx.ReadNode(ctx, req.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return serverErrors.NodeNotFoundError(req.ID)
			}
			return err
		}

		if req.ParentID != nil {
			parentID := *req.ParentID
			if parentID == req.ID {
				return serverErrors.ErrSelfParent
			}

			cycle, err := forest.WouldCycle(ctx, tx, req.ID, parentID)
			if err != nil {
				return err
			}
			if cycle {
				return serverErrors.ErrCycle
			}

			if _, err := tx.ReadNode(ctx, parentID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return serverErrors.ParentNotFoundError(parentID)
				}
				return err
			}
		}

		updated := current.Clone()
		updated.Name = req.Name
		updated.Description = req.Description
		updated.ParentID = req.ParentID
		updated.UpdatedAt = storage.Now()

		if err := tx.UpdateNode(ctx, updated); err != nil {
			return err
		}

		node = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, serverErrors.NodeNotFoundError(req.ID)
		}
		return nil, serverErrors.HandleError("Error updating node", err)
	}

	c.logger.InfoWithContext(ctx, "node updated", zap.Int64("node_id", node.ID))
	return node, nil
}
