package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "finances/internal/errors"
)

// PipelineAuthMiddleware guards machine-to-machine endpoints, such as the
// price cache refresh, with the X-API-Key header. Without a configured key
// the endpoints are disabled.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			WriteError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			WriteError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
