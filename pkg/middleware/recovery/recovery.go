package recovery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/server/errors"
)

func internalErrorBody() errors.ErrorResponse {
	return errors.ErrorResponse{
		Code:    string(errors.Internal),
		Message: errors.InternalServerErrorMsg,
	}
}

// HTTPPanicRecoveryHandler recover from panic for http services. It guards handlers that run
// outside of the gin engine, such as the CORS wrapper.
func HTTPPanicRecoveryHandler(next http.Handler, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				l.Error("HTTPPanicRecoveryHandler has recovered a panic",
					zap.Error(fmt.Errorf("%v", err)),
					zap.ByteString("stacktrace", debug.Stack()),
				)
				w.Header().Set("content-type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)

				responseBody, err := json.Marshal(internalErrorBody())
				if err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}

				_, _ = w.Write(responseBody)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NewRecoveryMiddleware recovers from panics raised by gin handlers. It must be first in the
// chain.
func NewRecoveryMiddleware(l logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, p any) {
		l.ErrorWithContext(c.Request.Context(), "PanicRecoveryHandler has recovered a panic",
			zap.Error(fmt.Errorf("%v", p)),
			zap.ByteString("stacktrace", debug.Stack()),
		)

		c.AbortWithStatusJSON(http.StatusInternalServerError, internalErrorBody())
	})
}
