package office

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/office/model"
	"github.com/wso2/practice-management-api/internal/system/error/serviceerror"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

// OfficeHandler serves the office subscription state API.
type OfficeHandler struct {
	service OfficeServiceInterface
}

// NewOfficeHandler creates a handler for office operations.
func NewOfficeHandler(service OfficeServiceInterface) *OfficeHandler {
	return &OfficeHandler{service: service}
}

// CreateOffice handles POST /offices.
func (h *OfficeHandler) CreateOffice(c *gin.Context) {
	var request model.OfficeCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(
			serviceerror.InvalidRequestError, "Malformed request body"))
		return
	}

	actorID := actorIDPtr(c)
	office, svcErr := h.service.CreateOffice(&request, actorID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, office)
}

// GetOffice handles GET /offices/:officeId.
func (h *OfficeHandler) GetOffice(c *gin.Context) {
	officeID, ok := parseOfficeID(c)
	if !ok {
		return
	}

	office, svcErr := h.service.GetOffice(officeID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, office)
}

// UpdateOffice handles PATCH /offices/:officeId.
func (h *OfficeHandler) UpdateOffice(c *gin.Context) {
	officeID, ok := parseOfficeID(c)
	if !ok {
		return
	}

	var request model.OfficeUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(
			serviceerror.InvalidRequestError, "Malformed request body"))
		return
	}

	changedBy := actorIDPtr(c)
	response, svcErr := h.service.UpdateOffice(officeID, &request, changedBy)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}

func parseOfficeID(c *gin.Context) (int64, bool) {
	officeID, err := strconv.ParseInt(c.Param("officeId"), 10, 64)
	if err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(
			serviceerror.ValidationError, "officeId must be a numeric identifier"))
		return 0, false
	}
	return officeID, true
}

func actorIDPtr(c *gin.Context) *int64 {
	if id, ok := utils.GetActorID(c); ok {
		return &id
	}
	return nil
}
