package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/canopyhq/canopy/pkg/logger"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var fromGin, fromCtx string
	router := gin.New()
	router.Use(NewMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		var ok bool
		fromGin, ok = FromContext(c)
		require.True(t, ok)

		fromCtx, ok = logger.RequestIDFromContext(c.Request.Context())
		require.True(t, ok)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	header := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, header)
	require.Equal(t, header, fromGin)
	require.Equal(t, header, fromCtx)

	_, err := ulid.Parse(header)
	require.NoError(t, err)

	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NotEqual(t, header, w2.Header().Get(RequestIDHeader))
}

func TestRequestIDOnUnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewMiddleware())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestInitIDPrefersTraceID(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	require.Equal(t, traceID.String(), InitID(ctx))
}
