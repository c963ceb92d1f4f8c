package logging

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/logger"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
)

const (
	httpMethodKey    = "http_method"
	httpPathKey      = "http_path"
	httpRouteKey     = "http_route"
	httpStatusKey    = "http_status"
	errorCodeKey     = "error_code"
	traceIDKey       = "trace_id"
	internalErrorKey = "internal_error"
	userAgentKey     = "user_agent"
	queryDurationKey = "query_duration_ms"

	httpReqCompleteKey = "http_req_complete"

	healthCheckPath = "/healthz"
)

var requestDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace:                       "canopy",
	Name:                            "request_duration_ms",
	Help:                            "The request duration (in ms) labeled by method, route and status code.",
	Buckets:                         []float64{1, 5, 10, 25, 50, 100, 200, 300, 1000, 5000},
	NativeHistogramBucketFactor:     1.1,
	NativeHistogramMaxBucketNumber:  100,
	NativeHistogramMinResetDuration: time.Hour,
}, []string{"method", "route", "code"})

// NewLoggingMiddleware records the duration of every request and logs one entry per completed
// request. Requests that failed with an
// internal error are logged at error level with the cause the client never sees.
func NewLoggingMiddleware(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		requestDurationHistogram.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Observe(float64(duration.Milliseconds()))

		if c.Request.URL.Path == healthCheckPath && len(c.Errors) == 0 {
			return
		}

		ctx := c.Request.Context()
		fields := []zap.Field{
			zap.String(httpMethodKey, c.Request.Method),
			zap.String(httpPathKey, c.Request.URL.Path),
			zap.String(httpRouteKey, c.FullPath()),
			zap.Int(httpStatusKey, c.Writer.Status()),
			zap.String(queryDurationKey, strconv.FormatInt(duration.Milliseconds(), 10)),
		}

		spanCtx := trace.SpanContextFromContext(ctx)
		if spanCtx.HasTraceID() {
			fields = append(fields, zap.String(traceIDKey, spanCtx.TraceID().String()))
		}

		if userAgent := c.Request.UserAgent(); userAgent != "" {
			fields = append(fields, zap.String(userAgentKey, userAgent))
		}

		err := c.Errors.Last()
		if err == nil {
			l.InfoWithContext(ctx, httpReqCompleteKey, fields...)
			return
		}

		fields = append(fields, zap.String(errorCodeKey, serverErrors.Encode(err.Err).Code()))

		var internalError serverErrors.InternalError
		if errors.As(err.Err, &internalError) {
			fields = append(fields, zap.String(internalErrorKey, internalError.Internal().Error()))
			l.ErrorWithContext(ctx, internalError.Error(), fields...)
			return
		}

		fields = append(fields, zap.Error(err.Err))
		l.InfoWithContext(ctx, httpReqCompleteKey, fields...)
	}
}
