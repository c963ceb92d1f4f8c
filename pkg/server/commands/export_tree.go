package commands

import (
	"context"

	"github.com/canopyhq/canopy/pkg/forest"
	"github.com/canopyhq/canopy/pkg/logger"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

// ExportedTree is a serialized tree.
type ExportedTree struct {
	Data        []byte
	ContentType string
	Format      forest.Format
}

type ExportTreeQuery struct {
	tree   *GetTreeQuery
	logger logger.Logger
}

type ExportTreeQueryOption func(*ExportTreeQuery)

func WithExportTreeQueryLogger(l logger.Logger) ExportTreeQueryOption {
	return func(q *ExportTreeQuery) {
		q.logger = l
	}
}

func NewExportTreeQuery(datastore storage.NodeBackend, opts ...ExportTreeQueryOption) *ExportTreeQuery {
	q := &ExportTreeQuery{
		logger: logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(q)
	}
	q.tree = NewGetTreeQuery(datastore, WithGetTreeQueryLogger(q.logger))
	return q
}

// Execute serializes the tree that GetTreeQuery would return in the named format. An empty
// format selects JSON.
func (q *ExportTreeQuery) Execute(ctx context.Context, rootID *int64, format string) (*ExportedTree, error) {
	ctx, span := tracer.Start(ctx, "ExportTree")
	defer span.End()

	f, err := forest.ParseFormat(format)
	if err != nil {
		return nil, serverErrors.ValidationError(err)
	}

	tree, err := q.tree.Execute(ctx, rootID)
	if err != nil {
		return nil, err
	}

	data, err := forest.Encode(tree, f)
	if err != nil {
		return nil, serverErrors.HandleError("Error exporting tree", err)
	}

	return &ExportedTree{
		Data:        data,
		ContentType: f.ContentType(),
		Format:      f,
	}, nil
}
