package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

// ErrorMiddleware renders the last error a handler pushed with c.Error.
// Server-side causes are only exposed outside production.
func ErrorMiddleware(log logger.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unhandled error", err)
		}

		status := apperror.ToHTTPStatus(appErr)
		body := appErr.ToJSON()

		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			if !production {
				body["details"] = err.Error()
			}
		} else if status == http.StatusBadRequest && appErr.Details != "" {
			body["details"] = appErr.Details
		}

		c.AbortWithStatusJSON(status, body)
	}
}
