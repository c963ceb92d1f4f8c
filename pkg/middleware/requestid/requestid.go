package requestid

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/canopyhq/canopy/pkg/logger"
)

const (
	requestIDKey      = "request_id"
	requestIDTraceKey = "request_id"

	// RequestIDHeader defines the HTTP header that is set in each HTTP response
	// for a given request. The value of the header is unique per request.
	RequestIDHeader = "X-Request-Id"
)

// InitID returns the ID to be used to identify the request.
// If trace is enabled, returns trace ID; otherwise returns a new ULID.
func InitID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.TraceID().IsValid() {
		return spanCtx.TraceID().String()
	}
	return ulid.Make().String()
}

// NewMiddleware returns a gin middleware that must come after the trace middleware and
// before the logging middleware. The id is written to the response header before the
// handler runs so that aborted requests carry it too.
func NewMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		requestID := InitID(ctx)

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		trace.SpanFromContext(ctx).SetAttributes(attribute.String(requestIDTraceKey, requestID))

		c.Request = c.Request.WithContext(logger.ContextWithRequestID(ctx, requestID))
		c.Next()
	}
}

// FromContext returns the id assigned to the request.
func FromContext(c *gin.Context) (string, bool) {
	id := c.GetString(requestIDKey)
	return id, id != ""
}
