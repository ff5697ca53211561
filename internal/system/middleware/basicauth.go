package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/config"
	"github.com/wso2/practice-management-api/internal/system/error/apierror"
)

// BasicAuthMiddleware enforces basic authentication when enabled in config.
func BasicAuthMiddleware(cfg *config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.IsBasicAuthEnabled() {
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok || !cfg.ValidateUser(username, password) {
			c.Header("WWW-Authenticate", `Basic realm="practice-management-api"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.NewErrorResponse(
				"unauthorized", "Valid credentials are required"))
			return
		}

		c.Next()
	}
}
