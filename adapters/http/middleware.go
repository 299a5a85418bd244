package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jaehyun-dev/portfolio-backend/pkg/apperror"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

// ErrorMiddleware maps errors attached via c.Error onto HTTP responses.
// Handlers never write error bodies themselves.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		var appErr *apperror.AppError
		if errors.As(last.Err, &appErr) {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("request failed", appErr,
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
			}
			c.JSON(status, appErr.ToJSON())
			return
		}

		log.Error("unhandled error", last.Err,
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
