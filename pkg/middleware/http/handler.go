// Package http renders errors returned by handlers as JSON bodies.
package http

import (
	"github.com/gin-gonic/gin"

	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
)

// CustomHTTPErrorHandler writes the public encoding of err and aborts the chain. err is also
// attached to the context so that the logging middleware can report internal causes.
func CustomHTTPErrorHandler(c *gin.Context, err error) {
	_ = c.Error(err)

	encoded := serverErrors.Encode(err)
	c.AbortWithStatusJSON(encoded.HTTPStatus(), encoded.ActualError)
}
