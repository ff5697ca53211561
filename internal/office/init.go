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

// Package office tracks practice offices and their billing subscription
// state. Every state change is recorded in the billing audit log within
// the same transaction as the change itself.
package office

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/clock"
	"github.com/wso2/practice-management-api/internal/system/stores"
)

// Module wires the office store, service and handler together.
type Module struct {
	Store   OfficeStore
	Service OfficeServiceInterface
	Handler *OfficeHandler
}

// NewModule initializes the office module. The store is created ahead of
// the registry and passed in so the registry can hold it.
func NewModule(store OfficeStore, audit AuditWriter, registry *stores.StoreRegistry,
	dbType string, clk clock.Clock) *Module {
	service := NewOfficeService(store, audit, registry, dbType, clk)
	return &Module{
		Store:   store,
		Service: service,
		Handler: NewOfficeHandler(service),
	}
}

// RegisterRoutes attaches the office endpoints to the router group.
func (m *Module) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/offices", m.Handler.CreateOffice)
	rg.GET("/offices/:officeId", m.Handler.GetOffice)
	rg.PATCH("/offices/:officeId", m.Handler.UpdateOffice)
}
