package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/constants"
)

// ActorMiddleware extracts the acting user's identity from the X-User-ID
// header and places it in the request context. The value is supplied by the
// upstream authentication layer and is trusted as-is; the core never
// re-validates the caller's role.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(constants.UserIDHeaderName)
		if raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				c.Set(constants.UserIDHeaderName, id)
			}
		}
		c.Next()
	}
}
