package auditevents

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/auditevents/model"
	"github.com/wso2/practice-management-api/internal/system/constants"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

// AuditEventHandler serves the read-only audit event API.
type AuditEventHandler struct {
	service AuditEventServiceInterface
}

// NewAuditEventHandler creates a handler for audit event queries.
func NewAuditEventHandler(service AuditEventServiceInterface) *AuditEventHandler {
	return &AuditEventHandler{service: service}
}

// ListEvents handles GET /audit/events.
func (h *AuditEventHandler) ListEvents(c *gin.Context) {
	filters := model.AuditEventSearchFilters{
		PatientID: utils.QueryInt64Ptr(c, "patientId"),
		UserID:    utils.QueryInt64Ptr(c, "userId"),
		Action:    c.Query("action"),
		Outcome:   c.Query("outcome"),
		After:     utils.QueryInt64Ptr(c, "after"),
		Before:    utils.QueryInt64Ptr(c, "before"),
		Limit:     utils.QueryInt(c, "limit", constants.DefaultSearchLimit),
		Offset:    utils.QueryInt(c, "offset", 0),
	}

	response, svcErr := h.service.ListEvents(filters)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}
