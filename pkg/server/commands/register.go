package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/authn"
	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/password"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

type RegisterRequest struct {
	Username string
	Password string

	// Role is honoured if it names the admin role, case-insensitively. Anything else
	// registers a regular user.
	Role string
}

type RegisterCommand struct {
	users  storage.UsersBackend
	hasher *password.Hasher
	issuer authn.TokenIssuer
	logger logger.Logger
}

type RegisterCommandOption func(*RegisterCommand)

func WithRegisterCmdLogger(l logger.Logger) RegisterCommandOption {
	return func(c *RegisterCommand) {
		c.logger = l
	}
}

func NewRegisterCommand(
	users storage.UsersBackend,
	hasher *password.Hasher,
	issuer authn.TokenIssuer,
	opts ...RegisterCommandOption,
) *RegisterCommand {
	c := &RegisterCommand{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		logger: logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RegisterCommand) Execute(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	user, err := c.create(ctx, req)
	if err != nil {
		return nil, err
	}

	return issue(c.issuer, user)
}

func (c *RegisterCommand) create(ctx context.Context, req *RegisterRequest) (*storage.User, error) {
	if err := validateCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}

	hashed, err := c.hasher.Hash(req.Password)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	user, err := c.users.CreateUser(ctx, &storage.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         string(authn.ParseRole(req.Role)),
		CreatedAt:    storage.Now(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrCollision) {
			return nil, serverErrors.ErrUsernameTaken
		}
		return nil, serverErrors.HandleError("Error registering user", err)
	}

	c.logger.InfoWithContext(ctx, "user registered",
		zap.String("username", user.Username), zap.String("role", user.Role))
	return user, nil
}
