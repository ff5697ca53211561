package billingaudit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/billingaudit/model"
	"github.com/wso2/practice-management-api/internal/system/constants"
	"github.com/wso2/practice-management-api/internal/system/error/serviceerror"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

// BillingAuditHandler serves the read-only billing audit API.
type BillingAuditHandler struct {
	service BillingAuditServiceInterface
}

// NewBillingAuditHandler creates a handler for billing audit queries.
func NewBillingAuditHandler(service BillingAuditServiceInterface) *BillingAuditHandler {
	return &BillingAuditHandler{service: service}
}

// ListOfficeAudit handles GET /offices/:officeId/billing-audit.
func (h *BillingAuditHandler) ListOfficeAudit(c *gin.Context) {
	officeID, err := strconv.ParseInt(c.Param("officeId"), 10, 64)
	if err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(
			serviceerror.ValidationError, "officeId must be a numeric identifier"))
		return
	}

	filters := model.BillingAuditSearchFilters{
		EventType: c.Query("eventType"),
		After:     utils.QueryInt64Ptr(c, "after"),
		Before:    utils.QueryInt64Ptr(c, "before"),
		Limit:     utils.QueryInt(c, "limit", constants.DefaultSearchLimit),
		Offset:    utils.QueryInt(c, "offset", 0),
	}

	response, svcErr := h.service.ListOfficeAudit(officeID, filters)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}
