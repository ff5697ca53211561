package consent

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/consent/model"
	"github.com/wso2/practice-management-api/internal/system/constants"
	"github.com/wso2/practice-management-api/internal/system/error/serviceerror"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

// ConsentHandler serves the consent lifecycle API.
type ConsentHandler struct {
	service ConsentServiceInterface
}

// NewConsentHandler creates a handler for consent operations.
func NewConsentHandler(service ConsentServiceInterface) *ConsentHandler {
	return &ConsentHandler{service: service}
}

// CreateConsent handles POST /patients/:patientId/consents.
func (h *ConsentHandler) CreateConsent(c *gin.Context) {
	patientID, ok := parsePatientID(c)
	if !ok {
		return
	}
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var request model.ConsentCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(
			serviceerror.InvalidRequestError, "Malformed request body"))
		return
	}

	response, svcErr := h.service.CreateConsent(patientID, actorID, &request)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// ListPatientConsents handles GET /patients/:patientId/consents.
func (h *ConsentHandler) ListPatientConsents(c *gin.Context) {
	patientID, ok := parsePatientID(c)
	if !ok {
		return
	}

	actorID := actorIDPtr(c)
	response, svcErr := h.service.ListPatientConsents(patientID, actorID, searchFiltersFromQuery(c))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}

// RevokeAllOfType handles POST /patients/:patientId/consents/revoke.
func (h *ConsentHandler) RevokeAllOfType(c *gin.Context) {
	patientID, ok := parsePatientID(c)
	if !ok {
		return
	}
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var request model.RevokeByTypeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(
			serviceerror.InvalidRequestError, "Malformed request body"))
		return
	}

	response, svcErr := h.service.RevokeAllOfType(patientID, request.ConsentType, actorID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SearchConsents handles GET /consents.
func (h *ConsentHandler) SearchConsents(c *gin.Context) {
	response, svcErr := h.service.SearchConsents(searchFiltersFromQuery(c))
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetExpiringSoon handles GET /consents/expiring.
func (h *ConsentHandler) GetExpiringSoon(c *gin.Context) {
	daysAhead := utils.QueryInt(c, "days", constants.DefaultExpiringSoonDays)
	officeID := utils.QueryInt64Ptr(c, "officeId")

	responses, svcErr := h.service.GetExpiringSoon(daysAhead, officeID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(responses), "consents": responses})
}

// GetConsent handles GET /consents/:consentId.
func (h *ConsentHandler) GetConsent(c *gin.Context) {
	actorID := actorIDPtr(c)
	response, svcErr := h.service.GetConsent(c.Param("consentId"), actorID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}

// RevokeConsent handles POST /consents/:consentId/revoke.
func (h *ConsentHandler) RevokeConsent(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	response, svcErr := h.service.RevokeConsent(c.Param("consentId"), actorID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ExpireDueConsents handles POST /consents/expire-due, the trigger the
// external scheduler hits to run an expiry sweep.
func (h *ConsentHandler) ExpireDueConsents(c *gin.Context) {
	response, svcErr := h.service.ExpireDueConsents()
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, response)
}

func searchFiltersFromQuery(c *gin.Context) model.ConsentSearchFilters {
	activeOnly := false
	if v := utils.QueryBoolPtr(c, "activeOnly"); v != nil {
		activeOnly = *v
	}
	return model.ConsentSearchFilters{
		PatientID:         utils.QueryInt64Ptr(c, "patientId"),
		ConsentType:       c.Query("consentType"),
		Status:            c.Query("status"),
		GrantedAfter:      utils.QueryInt64Ptr(c, "grantedAfter"),
		GrantedBefore:     utils.QueryInt64Ptr(c, "grantedBefore"),
		ExpiresAfter:      utils.QueryInt64Ptr(c, "expiresAfter"),
		ExpiresBefore:     utils.QueryInt64Ptr(c, "expiresBefore"),
		ThirdPartySharing: utils.QueryBoolPtr(c, "thirdPartySharing"),
		ActiveOnly:        activeOnly,
		Limit:             utils.QueryInt(c, "limit", constants.DefaultSearchLimit),
		Offset:            utils.QueryInt(c, "offset", 0),
	}
}

func parsePatientID(c *gin.Context) (int64, bool) {
	patientID, err := strconv.ParseInt(c.Param("patientId"), 10, 64)
	if err != nil {
		utils.SendError(c, serviceerror.CustomServiceError(
			serviceerror.ValidationError, "patientId must be a numeric identifier"))
		return 0, false
	}
	return patientID, true
}

func requireActor(c *gin.Context) (int64, bool) {
	actorID, ok := utils.GetActorID(c)
	if !ok {
		utils.SendError(c, serviceerror.CustomServiceError(
			serviceerror.ValidationError, constants.UserIDHeaderName+" header is required"))
		return 0, false
	}
	return actorID, true
}

func actorIDPtr(c *gin.Context) *int64 {
	if id, ok := utils.GetActorID(c); ok {
		return &id
	}
	return nil
}
