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

// Package model defines the data structures for the billing audit log.
package model

// Billing audit event types.
const (
	EventSubscriptionInitialized   = "SUBSCRIPTION_INITIALIZED"
	EventSubscriptionStatusChanged = "SUBSCRIPTION_STATUS_CHANGED"
	EventOfficeProfileUpdated      = "OFFICE_PROFILE_UPDATED"
)

// Billing audit outcomes.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
	OutcomeInfo    = "INFO"
)

// BillingAuditEntry is one immutable row in an office's billing audit
// trail. Entries are only ever appended, inside the same transaction as
// the mutation they describe.
type BillingAuditEntry struct {
	EntryID   string                 `json:"entryId"`
	OfficeID  int64                  `json:"officeId"`
	EventType string                 `json:"eventType"`
	EventTime int64                  `json:"eventTime"`
	UserID    *int64                 `json:"userId,omitempty"`
	Source    string                 `json:"source"`
	Outcome   string                 `json:"outcome"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// BillingAuditSearchFilters captures the supported query parameters for
// reading an office's billing audit trail.
type BillingAuditSearchFilters struct {
	EventType string
	After     *int64
	Before    *int64
	Limit     int
	Offset    int
}

// BillingAuditListResponse is the paginated response for billing audit queries.
type BillingAuditListResponse struct {
	OfficeID     int64               `json:"officeId"`
	TotalResults int                 `json:"totalResults"`
	Count        int                 `json:"count"`
	Limit        int                 `json:"limit"`
	Offset       int                 `json:"offset"`
	Entries      []BillingAuditEntry `json:"entries"`
}
