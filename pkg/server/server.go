// Package server contains the endpoint handlers of the Canopy service. The HTTP boundary in
// pkg/server/http only decodes requests and delegates to the methods of Server.
package server

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/authn"
	"github.com/canopyhq/canopy/pkg/forest"
	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/password"
	"github.com/canopyhq/canopy/pkg/server/commands"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

var tracer = otel.Tracer("canopy/pkg/server")

// A Server implements the Canopy service backend.
type Server struct {
	logger        logger.Logger
	datastore     storage.Datastore
	authenticator authn.Authenticator
	issuer        authn.TokenIssuer
	hasher        *password.Hasher
}

type ServerOption func(s *Server)

func WithDatastore(ds storage.Datastore) ServerOption {
	return func(s *Server) {
		s.datastore = ds
	}
}

func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithAuthenticator sets the authenticator validating bearer tokens. It defaults to the
// token issuer when the issuer can also validate its tokens.
func WithAuthenticator(a authn.Authenticator) ServerOption {
	return func(s *Server) {
		s.authenticator = a
	}
}

// WithTokenIssuer sets the issuer of the tokens returned by login and registration.
func WithTokenIssuer(i authn.TokenIssuer) ServerOption {
	return func(s *Server) {
		s.issuer = i
	}
}

func WithPasswordHasher(h *password.Hasher) ServerOption {
	return func(s *Server) {
		s.hasher = h
	}
}

// NewServerWithOpts returns a new server.
// You must call Close on it after you are done using it.
func NewServerWithOpts(opts ...ServerOption) (*Server, error) {
	s := &Server{
		logger: logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.datastore == nil {
		return nil, errors.New("a datastore option must be provided")
	}

	if s.issuer == nil {
		return nil, errors.New("a token issuer option must be provided")
	}

	if s.authenticator == nil {
		a, ok := s.issuer.(authn.Authenticator)
		if !ok {
			return nil, errors.New("an authenticator option must be provided")
		}
		s.authenticator = a
	}

	if s.hasher == nil {
		s.hasher = password.NewHasher(password.DefaultCost)
	}

	return s, nil
}

// MustNewServerWithOpts see NewServerWithOpts.
func MustNewServerWithOpts(opts ...ServerOption) *Server {
	s, err := NewServerWithOpts(opts...)
	if err != nil {
		panic(err)
	}

	return s
}

// Close releases the authenticator. The datastore is owned by the caller.
func (s *Server) Close() {
	s.authenticator.Close()
}

// Authenticate validates a bearer token and returns the claims of its holder. An empty token
// is passed on as is: only the configured method knows whether it may be absent.
func (s *Server) Authenticate(ctx context.Context, token string) (*authn.AuthClaims, error) {
	claims, err := s.authenticator.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, authn.ErrUnauthenticated) {
			return nil, serverErrors.ErrUnauthenticated
		}
		if errors.Is(err, authn.ErrMissingBearerToken) {
			return nil, serverErrors.ErrMissingBearerToken
		}
		return nil, serverErrors.HandleError("", err)
	}

	return claims, nil
}

func (s *Server) Login(ctx context.Context, username, plain string) (*commands.AuthResult, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	return commands.NewLoginCommand(
		s.datastore, s.hasher, s.issuer,
		commands.WithLoginCmdLogger(s.logger),
	).Execute(ctx, username, plain)
}

func (s *Server) Register(ctx context.Context, req *commands.RegisterRequest) (*commands.AuthResult, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	return s.registerCommand().Execute(ctx, req)
}

// SeedUsers registers the given accounts if no user exists yet.
func (s *Server) SeedUsers(ctx context.Context, accounts []commands.RegisterRequest) (int, error) {
	ctx, span := tracer.Start(ctx, "SeedUsers")
	defer span.End()

	return commands.NewSeedUsersCommand(
		s.datastore, s.registerCommand(),
		commands.WithSeedUsersCmdLogger(s.logger),
	).Execute(ctx, accounts)
}

func (s *Server) registerCommand() *commands.RegisterCommand {
	return commands.NewRegisterCommand(
		s.datastore, s.hasher, s.issuer,
		commands.WithRegisterCmdLogger(s.logger),
	)
}

func (s *Server) CreateNode(ctx context.Context, req *commands.CreateNodeRequest) (*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "CreateNode")
	defer span.End()

	return commands.NewCreateNodeCommand(s.datastore, commands.WithCreateNodeCmdLogger(s.logger)).Execute(ctx, req)
}

func (s *Server) GetNode(ctx context.Context, id int64) (*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "GetNode")
	defer span.End()
	span.SetAttributes(attribute.Int64("node_id", id))

	return commands.NewGetNodeQuery(s.datastore, commands.WithGetNodeQueryLogger(s.logger)).Execute(ctx, id)
}

func (s *Server) ListNodes(ctx context.Context) ([]*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "ListNodes")
	defer span.End()

	return commands.NewListNodesQuery(s.datastore, commands.WithListNodesQueryLogger(s.logger)).Execute(ctx)
}

func (s *Server) UpdateNode(ctx context.Context, req *commands.UpdateNodeRequest) (*storage.Node, error) {
	ctx, span := tracer.Start(ctx, "UpdateNode")
	defer span.End()
	span.SetAttributes(attribute.Int64("node_id", req.ID))

	return commands.NewUpdateNodeCommand(s.datastore, commands.WithUpdateNodeCmdLogger(s.logger)).Execute(ctx, req)
}

func (s *Server) DeleteNode(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "DeleteNode")
	defer span.End()
	span.SetAttributes(attribute.Int64("node_id", id))

	return commands.NewDeleteNodeCommand(s.datastore, commands.WithDeleteNodeCmdLogger(s.logger)).Execute(ctx, id)
}

// GetTree returns the subtree rooted at rootID, or the whole forest under the synthetic root
// when rootID is nil.
func (s *Server) GetTree(ctx context.Context, rootID *int64) (*forest.TreeNode, error) {
	ctx, span := tracer.Start(ctx, "GetTree")
	defer span.End()

	return commands.NewGetTreeQuery(s.datastore, commands.WithGetTreeQueryLogger(s.logger)).Execute(ctx, rootID)
}

func (s *Server) ExportTree(ctx context.Context, rootID *int64, format string) (*commands.ExportedTree, error) {
	ctx, span := tracer.Start(ctx, "ExportTree")
	defer span.End()
	span.SetAttributes(attribute.String("format", format))

	return commands.NewExportTreeQuery(s.datastore, commands.WithExportTreeQueryLogger(s.logger)).Execute(ctx, rootID, format)
}

// IsReady reports whether the server is ready to accept traffic.
func (s *Server) IsReady(ctx context.Context) (bool, error) {
	// for now we only depend on the datastore being ready
	status, err := s.datastore.IsReady(ctx)
	if err != nil {
		return false, err
	}

	if !status.IsReady {
		s.logger.WarnWithContext(ctx, "datastore is not ready", zap.String("status", status.Message))
	}

	return status.IsReady, nil
}
