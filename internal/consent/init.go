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

// Package consent implements the patient consent lifecycle: granting,
// querying, revocation and expiry. Status transitions are one-way;
// revoked and expired records never return to granted.
package consent

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/clock"
	"github.com/wso2/practice-management-api/internal/system/stores"
)

// Module wires the consent store, service and handler together.
type Module struct {
	Store   ConsentStore
	Service ConsentServiceInterface
	Handler *ConsentHandler
}

// NewModule initializes the consent module. The store is created ahead of
// the registry and passed in so the registry can hold it.
func NewModule(store ConsentStore, registry *stores.StoreRegistry, events EventRecorder,
	dbType string, clk clock.Clock) *Module {
	service := NewConsentService(store, registry, events, dbType, clk)
	return &Module{
		Store:   store,
		Service: service,
		Handler: NewConsentHandler(service),
	}
}

// RegisterRoutes attaches the consent endpoints to the router group.
// DeleteConsent is intentionally absent: hard deletion stays a
// service-level maintenance operation.
func (m *Module) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/patients/:patientId/consents", m.Handler.CreateConsent)
	rg.GET("/patients/:patientId/consents", m.Handler.ListPatientConsents)
	rg.POST("/patients/:patientId/consents/revoke", m.Handler.RevokeAllOfType)
	rg.GET("/consents", m.Handler.SearchConsents)
	rg.GET("/consents/expiring", m.Handler.GetExpiringSoon)
	rg.GET("/consents/:consentId", m.Handler.GetConsent)
	rg.POST("/consents/:consentId/revoke", m.Handler.RevokeConsent)
	rg.POST("/consents/expire-due", m.Handler.ExpireDueConsents)
}
