package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/logger"
)

// TimeoutHandler sets the timeout in each request
type TimeoutHandler struct {
	timeout time.Duration
	logger  logger.Logger
}

// NewTimeoutHandler returns new TimeoutHandler that timeouts request if it
// exceeds the timeout value
func NewTimeoutHandler(timeout time.Duration, logger logger.Logger) *TimeoutHandler {
	return &TimeoutHandler{
		timeout: timeout,
		logger:  logger,
	}
}

// NewTimeoutMiddleware bounds the request context. Datastore transactions bound to it roll
// back once the deadline passes, and the handler then reports deadline_exceeded.
func (h *TimeoutHandler) NewTimeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			h.logger.WarnWithContext(ctx, "request exceeded its deadline",
				zap.String("http_path", c.Request.URL.Path),
				zap.Duration("timeout", h.timeout),
			)
		}
	}
}
