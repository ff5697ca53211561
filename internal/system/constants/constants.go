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

// Package constants defines shared constants for the Practice Management API.
package constants

const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	CorrelationIDHeaderName = "X-Correlation-ID"
	UserIDHeaderName        = "X-User-ID"
	ContentTypeJSON         = "application/json"

	// APIBasePath is the versioned prefix for all routes.
	APIBasePath = "/api/v1"

	// Search pagination bounds for consent queries.
	DefaultSearchLimit = 100
	MaxSearchLimit     = 1000

	// DefaultExpiringSoonDays is the window used by the expiring-consents
	// view when the caller does not override it.
	DefaultExpiringSoonDays = 30

	// ActorSystem marks server-initiated actions in audit trails where no
	// acting user exists (e.g. the expiry sweep).
	ActorSystem = "SYSTEM"
)
