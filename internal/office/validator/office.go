package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wso2/practice-management-api/internal/office/model"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

// Payment provider reference formats. The provider issues customer and
// subscription identifiers with fixed prefixes; anything else is a caller
// mistake caught before it reaches storage.
var (
	paymentCustomerIDPattern     = regexp.MustCompile(`^cus_[A-Za-z0-9]{8,64}$`)
	paymentSubscriptionIDPattern = regexp.MustCompile(`^sub_[A-Za-z0-9]{8,64}$`)
)

// ValidateCreateRequest checks an office creation payload.
func ValidateCreateRequest(request *model.OfficeCreateRequest) error {
	if err := utils.ValidateRequired("name", strings.TrimSpace(request.Name)); err != nil {
		return err
	}
	if err := utils.ValidateRequired("subscriptionStatus", request.SubscriptionStatus); err != nil {
		return err
	}
	if !model.IsValidSubscriptionStatus(request.SubscriptionStatus) {
		return fmt.Errorf("subscriptionStatus must be one of trialing, active, past_due, canceled")
	}
	if err := validatePaymentRefs(request.PaymentCustomerID, request.PaymentSubscriptionID); err != nil {
		return err
	}
	if request.BillingAnchorTime != nil && *request.BillingAnchorTime < 0 {
		return fmt.Errorf("billingAnchorTime must be a non-negative epoch timestamp")
	}
	return nil
}

// ValidateUpdateRequest checks a partial office update payload.
func ValidateUpdateRequest(request *model.OfficeUpdateRequest) error {
	if request.Name != nil && strings.TrimSpace(*request.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if request.SubscriptionStatus != nil && !model.IsValidSubscriptionStatus(*request.SubscriptionStatus) {
		return fmt.Errorf("subscriptionStatus must be one of trialing, active, past_due, canceled")
	}
	if err := validatePaymentRefs(request.PaymentCustomerID, request.PaymentSubscriptionID); err != nil {
		return err
	}
	if request.BillingAnchorTime != nil && *request.BillingAnchorTime < 0 {
		return fmt.Errorf("billingAnchorTime must be a non-negative epoch timestamp")
	}
	return nil
}

func validatePaymentRefs(customerID, subscriptionID *string) error {
	if customerID != nil && !paymentCustomerIDPattern.MatchString(*customerID) {
		return fmt.Errorf("paymentCustomerId must match the provider format cus_...")
	}
	if subscriptionID != nil && !paymentSubscriptionIDPattern.MatchString(*subscriptionID) {
		return fmt.Errorf("paymentSubscriptionId must match the provider format sub_...")
	}
	return nil
}
