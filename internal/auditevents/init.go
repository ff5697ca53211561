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

// Package auditevents records and serves the access and consent
// lifecycle audit trail. Recording is best-effort: a failed write is
// logged and never fails the operation being audited.
package auditevents

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/clock"
)

// Module wires the audit event store, service and handler together.
type Module struct {
	Store   AuditEventStore
	Service AuditEventServiceInterface
	Handler *AuditEventHandler
}

// NewModule initializes the audit events module.
func NewModule(store AuditEventStore, clk clock.Clock) *Module {
	service := NewAuditEventService(store, clk)
	return &Module{
		Store:   store,
		Service: service,
		Handler: NewAuditEventHandler(service),
	}
}

// RegisterRoutes attaches the audit event endpoints to the router group.
func (m *Module) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit/events", m.Handler.ListEvents)
}
