package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

// ErrorHandler renders the last error pushed with c.Error as {success:false, message}.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		statusCode := errors.HTTPStatusFromError(err)
		if statusCode >= http.StatusInternalServerError {
			log.Error("Request failed", "error", err, "method", c.Request.Method, "path", c.FullPath())
		}

		c.JSON(statusCode, errors.NewAPIError(errors.PublicMessage(err)))
	}
}

// abortWithError stops the chain and lets ErrorHandler render err.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
