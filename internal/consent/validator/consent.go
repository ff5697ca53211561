package validator

import (
	"fmt"
	"strings"

	"github.com/wso2/practice-management-api/internal/consent/model"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

const minConsentTextLength = 10

// ValidateCreateRequest checks a consent grant payload. nowMillis anchors
// the expiry-in-the-past check.
func ValidateCreateRequest(patientID, grantedBy int64, request *model.ConsentCreateRequest,
	nowMillis int64) error {
	if err := utils.ValidatePositiveID("patientId", patientID); err != nil {
		return err
	}
	if err := utils.ValidatePositiveID("grantedBy", grantedBy); err != nil {
		return err
	}
	if err := utils.ValidateRequired("consentType", request.ConsentType); err != nil {
		return err
	}
	if err := utils.ValidateRequired("purpose", request.Purpose); err != nil {
		return err
	}
	if len(strings.TrimSpace(request.ConsentText)) < minConsentTextLength {
		return fmt.Errorf("consentText must be at least %d characters", minConsentTextLength)
	}
	if request.ConsentVersion != nil && *request.ConsentVersion < 1 {
		return fmt.Errorf("consentVersion must be a positive integer")
	}
	if request.ExpiryTime != nil && *request.ExpiryTime <= nowMillis {
		return fmt.Errorf("expiryTime must be in the future")
	}
	for _, entity := range request.ThirdPartyEntities {
		if strings.TrimSpace(entity) == "" {
			return fmt.Errorf("thirdPartyEntities cannot contain empty entries")
		}
	}
	if !request.ThirdPartySharing && len(request.ThirdPartyEntities) > 0 {
		return fmt.Errorf("thirdPartyEntities requires thirdPartySharing to be true")
	}
	return nil
}

// ValidateSearchFilters checks consent search parameters.
func ValidateSearchFilters(filters *model.ConsentSearchFilters) error {
	if filters.Status != "" {
		switch filters.Status {
		case model.StatusGranted, model.StatusRevoked, model.StatusExpired:
		default:
			return fmt.Errorf("status must be one of granted, revoked, expired")
		}
	}
	if filters.PatientID != nil {
		if err := utils.ValidatePositiveID("patientId", *filters.PatientID); err != nil {
			return err
		}
	}
	if filters.GrantedAfter != nil && filters.GrantedBefore != nil &&
		*filters.GrantedAfter > *filters.GrantedBefore {
		return fmt.Errorf("grantedAfter cannot be later than grantedBefore")
	}
	if filters.ExpiresAfter != nil && filters.ExpiresBefore != nil &&
		*filters.ExpiresAfter > *filters.ExpiresBefore {
		return fmt.Errorf("expiresAfter cannot be later than expiresBefore")
	}
	return nil
}
