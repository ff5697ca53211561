package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/constants"
	"github.com/wso2/practice-management-api/internal/system/error/apierror"
	"github.com/wso2/practice-management-api/internal/system/error/serviceerror"
)

// SendError writes a ServiceError as an HTTP response with appropriate status code
func SendError(c *gin.Context, err *serviceerror.ServiceError) {
	statusCode := http.StatusInternalServerError
	if err.Type == serviceerror.ClientErrorType {
		// Match on the stable error name rather than the code: domain
		// services override codes with their own identifiers.
		switch err.Error {
		case serviceerror.ResourceNotFoundError.Error:
			statusCode = http.StatusNotFound
		case serviceerror.ConflictError.Error, serviceerror.AlreadyTerminalError.Error:
			statusCode = http.StatusConflict
		default:
			statusCode = http.StatusBadRequest
		}
	}

	c.AbortWithStatusJSON(statusCode, apierror.ErrorResponse{
		Code:        err.Error,
		Description: err.ErrorDescription,
	})
}

// GetActorID extracts the acting user's ID, placed in the request context by
// the actor middleware. The second return value reports whether it was present.
func GetActorID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(constants.UserIDHeaderName)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// QueryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func QueryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return def
}

// QueryInt64Ptr parses an optional int64 query parameter, returning nil when absent.
func QueryInt64Ptr(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &v
	}
	return nil
}

// QueryBoolPtr parses an optional bool query parameter, returning nil when absent.
func QueryBoolPtr(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return &v
	}
	return nil
}
