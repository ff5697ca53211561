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

// Package model defines the data structures for patient consent records.
package model

// Consent lifecycle statuses. Granted is the only non-terminal state:
// once a record is revoked or expired it never transitions again.
const (
	StatusGranted = "granted"
	StatusRevoked = "revoked"
	StatusExpired = "expired"
)

// ConsentRecord is one consent grant by a patient. All timestamps are
// epoch milliseconds.
type ConsentRecord struct {
	ConsentID          string   `json:"consentId"`
	PatientID          int64    `json:"patientId"`
	ConsentType        string   `json:"consentType"`
	ConsentVersion     int      `json:"consentVersion"`
	ConsentText        string   `json:"consentText"`
	Purpose            string   `json:"purpose"`
	Scope              *string  `json:"scope,omitempty"`
	CurrentStatus      string   `json:"currentStatus"`
	GrantedTime        int64    `json:"grantedTime"`
	GrantedBy          int64    `json:"grantedBy"`
	RevokedTime        *int64   `json:"revokedTime,omitempty"`
	RevokedBy          *int64   `json:"revokedBy,omitempty"`
	ExpiryTime         *int64   `json:"expiryTime,omitempty"`
	ThirdPartySharing  bool     `json:"thirdPartySharing"`
	ThirdPartyEntities []string `json:"thirdPartyEntities,omitempty"`
}

// IsActive reports whether the consent is in force at the given instant:
// granted, and either without expiry or with an expiry still in the
// future. Activity is always computed against a clock reading, never
// read back from the stored status, so a record whose expiry has passed
// reports inactive even before the expiry sweep marks it expired.
func (c *ConsentRecord) IsActive(nowMillis int64) bool {
	if c.CurrentStatus != StatusGranted {
		return false
	}
	return c.ExpiryTime == nil || *c.ExpiryTime > nowMillis
}

// IsTerminal reports whether the consent has reached a terminal status.
func (c *ConsentRecord) IsTerminal() bool {
	return c.CurrentStatus == StatusRevoked || c.CurrentStatus == StatusExpired
}

// ConsentCreateRequest is the payload for granting a consent.
type ConsentCreateRequest struct {
	ConsentType        string   `json:"consentType"`
	ConsentVersion     *int     `json:"consentVersion,omitempty"`
	ConsentText        string   `json:"consentText"`
	Purpose            string   `json:"purpose"`
	Scope              *string  `json:"scope,omitempty"`
	ExpiryTime         *int64   `json:"expiryTime,omitempty"`
	ThirdPartySharing  bool     `json:"thirdPartySharing"`
	ThirdPartyEntities []string `json:"thirdPartyEntities,omitempty"`
}

// RevokeByTypeRequest is the payload for revoking all granted consents
// of one type for a patient.
type RevokeByTypeRequest struct {
	ConsentType string `json:"consentType"`
}

// ConsentResponse is a consent record together with its computed
// activity at response time.
type ConsentResponse struct {
	ConsentRecord
	IsActive bool `json:"isActive"`
}

// NewConsentResponse computes the activity flag for a record.
func NewConsentResponse(record ConsentRecord, nowMillis int64) ConsentResponse {
	return ConsentResponse{
		ConsentRecord: record,
		IsActive:      record.IsActive(nowMillis),
	}
}

// ConsentSearchFilters captures the supported consent search parameters.
// All filters combine with AND; zero values mean "no constraint".
type ConsentSearchFilters struct {
	PatientID         *int64
	ConsentType       string
	Status            string
	GrantedAfter      *int64
	GrantedBefore     *int64
	ExpiresAfter      *int64
	ExpiresBefore     *int64
	ThirdPartySharing *bool
	ActiveOnly        bool
	Limit             int
	Offset            int
}

// ConsentSearchResponse is the paginated search result.
type ConsentSearchResponse struct {
	TotalResults int               `json:"totalResults"`
	Count        int               `json:"count"`
	Limit        int               `json:"limit"`
	Offset       int               `json:"offset"`
	Consents     []ConsentResponse `json:"consents"`
}

// RevokeAllResponse reports the outcome of a revoke-by-type operation.
type RevokeAllResponse struct {
	PatientID    int64             `json:"patientId"`
	ConsentType  string            `json:"consentType"`
	RevokedCount int               `json:"revokedCount"`
	Revoked      []ConsentResponse `json:"revoked"`
}

// ExpireSweepResponse reports the outcome of an expiry sweep.
type ExpireSweepResponse struct {
	ExpiredCount int   `json:"expiredCount"`
	SweepTime    int64 `json:"sweepTime"`
}
