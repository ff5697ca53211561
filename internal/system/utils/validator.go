package utils

import (
	"fmt"

	"github.com/wso2/practice-management-api/internal/system/constants"
)

// ValidateRequired validates a field is not empty
func ValidateRequired(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateUUID validates UUID format using existing IsValidUUID
func ValidateUUID(id string) error {
	if !IsValidUUID(id) {
		return fmt.Errorf("invalid UUID format: %s", id)
	}
	return nil
}

// ValidateConsentID validates consent ID format
func ValidateConsentID(consentID string) error {
	if err := ValidateRequired("consentID", consentID); err != nil {
		return err
	}
	return ValidateUUID(consentID)
}

// ValidatePositiveID validates a numeric entity identifier
func ValidatePositiveID(fieldName string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s must be a positive identifier", fieldName)
	}
	return nil
}

// NormalizePagination clamps limit and offset to the allowed search bounds.
// A non-positive limit falls back to the default; the limit is capped at
// the maximum; a negative offset is treated as zero.
func NormalizePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = constants.DefaultSearchLimit
	}
	if limit > constants.MaxSearchLimit {
		limit = constants.MaxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
