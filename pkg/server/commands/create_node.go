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

type CreateNodeRequest struct {
	Name        string
	Description *string
	ParentID    *int64
}

type CreateNodeCommand struct {
	datastore storage.NodeBackend
	logger    logger.Logger
}

type CreateNodeCommandOption func(*CreateNodeCommand)

func WithCreateNodeCmdLogger(l logger.Logger) CreateNodeCommandOption {
	return func(c *CreateNodeCommand) {
		c.logger = l
	}
}

func NewCreateNodeCommand(datastore storage.NodeBackend, opts ...CreateNodeCommandOption) *CreateNodeCommand {
	c := &CreateNodeCommand{
		datastore: datastore,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute inserts a new node. The parent, if any, must exist when the transaction commits.
func (c *CreateNodeCommand) Execute(ctx context.Context, req *CreateNodeRequest) (node *storage.Node, err error) {
	ctx, span := tracer.Start(ctx, "CreateNode")
	defer span.End()
	defer func() { recordMutation("create", err) }()

	if err := validateNodeFields(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		span.SetAttributes(attribute.Int64("parent_id", *req.ParentID))
	}

	now := storage.Now()
	err = c.datastore.WriteTx(ctx, func(tx storage.NodeTx) error {
		if req.ParentID != nil {
			if _, err := tx.ReadNode(ctx, *req.ParentID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return serverErrors.ParentNotFoundError(*req.ParentID)
				}
				return err
			}
		}

		inserted, err := tx.InsertNode(ctx, &storage.Node{
			Name:        req.Name,
			Description: req.Description,
			ParentID:    req.ParentID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		node = inserted
		return nil
	})
	if err != nil {
		return nil, serverErrors.HandleError("Error creating node", err)
	}

	c.logger.InfoWithContext(ctx, "node created", zap.Int64("node_id", node.ID))
	return node, nil
}
