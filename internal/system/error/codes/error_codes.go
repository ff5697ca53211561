/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
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
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package codes

// Error codes for the Practice Management Service
const (
	// General errors
	InternalServerError = "PSE-5000"
	DatabaseError       = "PSE-5001"
	AuditWriteFailure   = "PSE-5002"
	InvalidRequest      = "PSE-4000"
	ValidationError     = "PSE-4001"
	ResourceNotFound    = "PSE-4004"
	ConflictError       = "PSE-4009"
	AlreadyTerminal     = "PSE-4010"

	// Consent-specific errors
	ConsentNotFound       = "PSE-4040"
	ConsentAlreadyRevoked = "PSE-4041"
	ConsentCreationFailed = "PSE-5010"
	ConsentRevokeFailed   = "PSE-5011"
	ConsentExpireFailed   = "PSE-5012"
	ConsentDeleteFailed   = "PSE-5013"

	// Office-specific errors
	OfficeNotFound        = "PSE-4050"
	OfficeCreationFailed  = "PSE-5020"
	OfficeUpdateFailed    = "PSE-5021"
	SubscriptionInvalid   = "PSE-4051"
	PaymentRefInvalid     = "PSE-4052"

	// Audit-specific errors
	BillingAuditReadFailed = "PSE-5030"
	AuditEventReadFailed   = "PSE-5031"
)
