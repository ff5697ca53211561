package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/error/apierror"
	"github.com/wso2/practice-management-api/internal/system/log"
)

// RecoveryMiddleware converts panics into a generic 500 response. The full
// detail is logged server-side only; nothing internal reaches the response
// body.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Recovery"))
		logger.Error("Panic recovered while handling request",
			log.String("path", c.Request.URL.Path),
			log.String("method", c.Request.Method),
			log.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.NewErrorResponse(
			"internal_server_error", "An unexpected error occurred"))
	})
}
