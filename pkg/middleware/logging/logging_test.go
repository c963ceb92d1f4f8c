package logging

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/canopyhq/canopy/pkg/logger"
	httpmiddleware "github.com/canopyhq/canopy/pkg/middleware/http"
	"github.com/canopyhq/canopy/pkg/middleware/requestid"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
)

func newRouter(l logger.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(requestid.NewMiddleware(), NewLoggingMiddleware(l))
	router.GET("/nodes/:id", func(c *gin.Context) {
		switch c.Param("id") {
		case "1":
			c.JSON(http.StatusOK, gin.H{"id": 1})
		case "404":
			httpmiddleware.CustomHTTPErrorHandler(c, serverErrors.NodeNotFoundError(404))
		default:
			httpmiddleware.CustomHTTPErrorHandler(c, serverErrors.HandleError("", errors.New("connection reset by peer")))
		}
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "SERVING"})
	})
	return router
}

func TestLoggingMiddleware(t *testing.T) {
	l, logs := logger.NewObserverLogger("debug")
	router := newRouter(l)

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nodes/1", nil))
		require.Equal(t, http.StatusOK, w.Code)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		require.Equal(t, httpReqCompleteKey, entries[0].Message)
		require.Equal(t, zapcore.InfoLevel, entries[0].Level)

		fields := entries[0].ContextMap()
		require.Equal(t, "GET", fields[httpMethodKey])
		require.Equal(t, "/nodes/1", fields[httpPathKey])
		require.Equal(t, "/nodes/:id", fields[httpRouteKey])
		require.EqualValues(t, http.StatusOK, fields[httpStatusKey])
		require.Equal(t, w.Header().Get(requestid.RequestIDHeader), fields["request_id"])
	})

	t.Run("public_error", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nodes/404", nil))
		require.Equal(t, http.StatusNotFound, w.Code)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		require.Equal(t, zapcore.InfoLevel, entries[0].Level)
		require.Equal(t, "node_not_found", entries[0].ContextMap()[errorCodeKey])
	})

	t.Run("internal_error_logs_cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nodes/2", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotContains(t, w.Body.String(), "connection reset")

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		require.Equal(t, "connection reset by peer", entries[0].ContextMap()[internalErrorKey])
	})

	t.Run("health_checks_are_not_logged", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Zero(t, logs.Len())
	})
}
