package commands

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/authn"
	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/password"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

// AuthResult is returned by a successful login or registration.
type AuthResult struct {
	Token    string
	Username string
	Role     authn.Role
}

type LoginCommand struct {
	users  storage.UsersBackend
	hasher *password.Hasher
	issuer authn.TokenIssuer
	logger logger.Logger
}

type LoginCommandOption func(*LoginCommand)

func WithLoginCmdLogger(l logger.Logger) LoginCommandOption {
	return func(c *LoginCommand) {
		c.logger = l
	}
}

func NewLoginCommand(
	users storage.UsersBackend,
	hasher *password.Hasher,
	issuer authn.TokenIssuer,
	opts ...LoginCommandOption,
) *LoginCommand {
	c := &LoginCommand{
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

// Execute checks the credentials and returns a token for the user. Unknown users and
// wrong passwords fail with the same error after the same amount of hashing work.
func (c *LoginCommand) Execute(ctx context.Context, username, plain string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if username == "" || plain == "" {
		return nil, serverErrors.ErrAuthFailed
	}

	user, err := c.users.ReadUser(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = c.hasher.CompareDummy(plain)
			return nil, serverErrors.ErrAuthFailed
		}
		return nil, serverErrors.HandleError("", err)
	}

	if err := c.hasher.Compare(user.PasswordHash, plain); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			c.logger.ErrorWithContext(ctx, "stored password hash is unusable",
				zap.String("username", user.Username), zap.Error(err))
		}
		return nil, serverErrors.ErrAuthFailed
	}

	return issue(c.issuer, user)
}

func issue(issuer authn.TokenIssuer, user *storage.User) (*AuthResult, error) {
	role := authn.ParseRole(user.Role)

	token, err := issuer.IssueToken(strconv.FormatInt(user.ID, 10), user.Username, role)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	return &AuthResult{
		Token:    token,
		Username: user.Username,
		Role:     role,
	}, nil
}
