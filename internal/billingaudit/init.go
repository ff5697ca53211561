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

// Package billingaudit maintains the append-only billing audit log for
// offices. Entries are written inside the transaction of the mutation
// they record, so an audit failure rolls the mutation back.
package billingaudit

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/clock"
)

// Module wires the billing audit store, service and handler together.
type Module struct {
	Store   BillingAuditStore
	Service BillingAuditServiceInterface
	Handler *BillingAuditHandler
}

// NewModule initializes the billing audit module. source identifies this
// deployment in written entries.
func NewModule(store BillingAuditStore, officeExists OfficeExistenceChecker,
	dbType, source string, clk clock.Clock) *Module {
	service := NewBillingAuditService(store, officeExists, dbType, source, clk)
	return &Module{
		Store:   store,
		Service: service,
		Handler: NewBillingAuditHandler(service),
	}
}

// RegisterRoutes attaches the billing audit endpoints to the router group.
func (m *Module) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/offices/:officeId/billing-audit", m.Handler.ListOfficeAudit)
}
