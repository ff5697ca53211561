/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package model defines the data structures for offices and their
// subscription state.
package model

import "strings"

// Subscription lifecycle statuses, stored in canonical lowercase form.
const (
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// NormalizeSubscriptionStatus maps a raw status value to its canonical
// lowercase form. Comparisons in the update diff always run on the
// normalized form so "Active" and "active" never register as a change.
func NormalizeSubscriptionStatus(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidSubscriptionStatus reports whether the normalized status is one
// of the known lifecycle states.
func IsValidSubscriptionStatus(status string) bool {
	switch NormalizeSubscriptionStatus(status) {
	case SubscriptionTrialing, SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled:
		return true
	default:
		return false
	}
}

// Office represents a practice location and its billing subscription state.
// Payment identifiers are opaque references into the payment provider; the
// provider itself is never called from this service.
type Office struct {
	OfficeID              int64   `json:"officeId"`
	Name                  string  `json:"name"`
	SubscriptionStatus    string  `json:"subscriptionStatus"`
	PaymentCustomerID     *string `json:"paymentCustomerId,omitempty"`
	PaymentSubscriptionID *string `json:"paymentSubscriptionId,omitempty"`
	CurrentPlanID         *string `json:"currentPlanId,omitempty"`
	BillingAnchorTime     *int64  `json:"billingAnchorTime,omitempty"`
	CreatedTime           int64   `json:"createdTime"`
	UpdatedTime           int64   `json:"updatedTime"`
}

// OfficeCreateRequest is the payload for creating an office.
type OfficeCreateRequest struct {
	Name                  string  `json:"name"`
	SubscriptionStatus    string  `json:"subscriptionStatus"`
	PaymentCustomerID     *string `json:"paymentCustomerId,omitempty"`
	PaymentSubscriptionID *string `json:"paymentSubscriptionId,omitempty"`
	CurrentPlanID         *string `json:"currentPlanId,omitempty"`
	BillingAnchorTime     *int64  `json:"billingAnchorTime,omitempty"`
}

// OfficeUpdateRequest is a partial update: only fields present in the
// payload are diffed against the persisted record.
type OfficeUpdateRequest struct {
	Name                  *string `json:"name,omitempty"`
	SubscriptionStatus    *string `json:"subscriptionStatus,omitempty"`
	PaymentCustomerID     *string `json:"paymentCustomerId,omitempty"`
	PaymentSubscriptionID *string `json:"paymentSubscriptionId,omitempty"`
	CurrentPlanID         *string `json:"currentPlanId,omitempty"`
	BillingAnchorTime     *int64  `json:"billingAnchorTime,omitempty"`
}

// FieldChange records one field transition in an office update.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// OfficeUpdateResponse reports the updated record and the per-field changes
// that were applied. An empty Changes map means the update was a no-op.
type OfficeUpdateResponse struct {
	Office  Office                 `json:"office"`
	Changes map[string]FieldChange `json:"changes"`
}
