package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/logger"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

type SeedUsersCommand struct {
	users    storage.UsersBackend
	register *RegisterCommand
	logger   logger.Logger
}

type SeedUsersCommandOption func(*SeedUsersCommand)

func WithSeedUsersCmdLogger(l logger.Logger) SeedUsersCommandOption {
	return func(c *SeedUsersCommand) {
		c.logger = l
	}
}

func NewSeedUsersCommand(users storage.UsersBackend, register *RegisterCommand, opts ...SeedUsersCommandOption) *SeedUsersCommand {
	c := &SeedUsersCommand{
		users:    users,
		register: register,
		logger:   logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute registers accounts only when there are no users yet, and returns how many it
// created. A username that is taken in the meantime is skipped.
func (c *SeedUsersCommand) Execute(ctx context.Context, accounts []RegisterRequest) (int, error) {
	ctx, span := tracer.Start(ctx, "SeedUsers")
	defer span.End()

	count, err := c.users.CountUsers(ctx)
	if err != nil {
		return 0, serverErrors.HandleError("", err)
	}
	if count > 0 {
		c.logger.DebugWithContext(ctx, "skipping user seeding, users already exist", zap.Int("users", count))
		return 0, nil
	}

	created := 0
	for i := range accounts {
		_, err := c.register.create(ctx, &accounts[i])
		if err != nil {
			if errors.Is(err, serverErrors.ErrUsernameTaken) {
				continue
			}
			return created, err
		}
		created++
	}

	return created, nil
}
