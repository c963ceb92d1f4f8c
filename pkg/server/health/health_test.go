package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type targetFunc func(ctx context.Context) (bool, error)

func (f targetFunc) IsReady(ctx context.Context) (bool, error) {
	return f(ctx)
}

func TestCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		c := &Checker{TargetService: targetFunc(func(context.Context) (bool, error) { return true, nil })}

		status, err := c.Check(context.Background())
		require.NoError(t, err)
		require.Equal(t, Serving, status)
	})

	t.Run("not_ready", func(t *testing.T) {
		c := &Checker{TargetService: targetFunc(func(context.Context) (bool, error) { return false, nil })}

		status, err := c.Check(context.Background())
		require.NoError(t, err)
		require.Equal(t, NotServing, status)
	})

	t.Run("probe_error", func(t *testing.T) {
		probeErr := errors.New("connection refused")
		c := &Checker{TargetService: targetFunc(func(context.Context) (bool, error) { return false, probeErr })}

		status, err := c.Check(context.Background())
		require.ErrorIs(t, err, probeErr)
		require.Equal(t, NotServing, status)
	})

	t.Run("probe_is_bounded", func(t *testing.T) {
		c := &Checker{
			Timeout: 10 * time.Millisecond,
			TargetService: targetFunc(func(ctx context.Context) (bool, error) {
				<-ctx.Done()
				return false, ctx.Err()
			}),
		}

		status, err := c.Check(context.Background())
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, NotServing, status)
	})
}
