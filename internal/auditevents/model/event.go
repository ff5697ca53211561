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

// Package model defines the data structures for access and consent
// lifecycle audit events.
package model

// Audit event actions recorded by the platform.
const (
	ActionCreateConsent       = "create_consent"
	ActionRevokeConsent       = "revoke_consent"
	ActionRevokeAllOfType     = "revoke_all_of_type"
	ActionViewConsent         = "view_consent"
	ActionViewPatientConsents = "view_patient_consents"
	ActionDeleteConsent       = "delete_consent"
	ActionExpireSweep         = "expire_sweep"
	ActionRoleCheck           = "role_check"
)

// Audit event outcomes.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
	OutcomeDenied  = "DENIED"
)

// AuditEvent represents a single immutable audit trail entry for a
// consent or access-control action.
type AuditEvent struct {
	EventID     string                 `json:"eventId"`
	EventTime   int64                  `json:"eventTime"`
	Action      string                 `json:"action"`
	Outcome     string                 `json:"outcome"`
	UserID      *int64                 `json:"userId,omitempty"`
	PatientID   *int64                 `json:"patientId,omitempty"`
	ConsentID   *string                `json:"consentId,omitempty"`
	ConsentType *string                `json:"consentType,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// AuditEventSearchFilters captures the supported query parameters for
// listing audit events.
type AuditEventSearchFilters struct {
	PatientID *int64
	UserID    *int64
	Action    string
	Outcome   string
	After     *int64
	Before    *int64
	Limit     int
	Offset    int
}

// AuditEventListResponse is the paginated response for audit event queries.
type AuditEventListResponse struct {
	TotalResults int          `json:"totalResults"`
	Count        int          `json:"count"`
	Limit        int          `json:"limit"`
	Offset       int          `json:"offset"`
	Events       []AuditEvent `json:"events"`
}
