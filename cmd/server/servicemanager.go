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

package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/auditevents"
	"github.com/wso2/practice-management-api/internal/billingaudit"
	"github.com/wso2/practice-management-api/internal/consent"
	"github.com/wso2/practice-management-api/internal/office"
	"github.com/wso2/practice-management-api/internal/router"
	"github.com/wso2/practice-management-api/internal/system/clock"
	"github.com/wso2/practice-management-api/internal/system/config"
	"github.com/wso2/practice-management-api/internal/system/database"
	"github.com/wso2/practice-management-api/internal/system/database/provider"
	"github.com/wso2/practice-management-api/internal/system/stores"
)

// ServiceManager owns the wired application: database, stores, services
// and the HTTP router. Everything is injected explicitly; there are no
// package-level singletons to initialize.
type ServiceManager struct {
	db     *database.DB
	engine *gin.Engine
}

// NewServiceManager wires the full application from configuration.
func NewServiceManager(cfg *config.Config) (*ServiceManager, error) {
	db, err := database.Initialize(&cfg.Database.Practice)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	dbClient := provider.NewDBClient(db, cfg.Database.Practice.Type)
	clk := clock.System()

	consentStore := consent.NewConsentStore(dbClient)
	officeStore := office.NewOfficeStore(dbClient)
	billingAuditStore := billingaudit.NewBillingAuditStore(dbClient)
	auditEventStore := auditevents.NewAuditEventStore(dbClient)

	registry := stores.NewStoreRegistry(dbClient, consentStore, officeStore,
		billingAuditStore, auditEventStore)

	auditEventsModule := auditevents.NewModule(auditEventStore, clk)
	billingAuditModule := billingaudit.NewModule(billingAuditStore, officeStore,
		dbClient.GetDBType(), cfg.Audit.GetSource(), clk)
	officeModule := office.NewModule(officeStore, billingAuditModule.Service, registry,
		dbClient.GetDBType(), clk)
	consentModule := consent.NewModule(consentStore, registry, auditEventsModule.Service,
		dbClient.GetDBType(), clk)

	engine := router.New(cfg, db.HealthCheck,
		consentModule, officeModule, billingAuditModule, auditEventsModule)

	return &ServiceManager{db: db, engine: engine}, nil
}

// Engine returns the assembled HTTP router.
func (m *ServiceManager) Engine() *gin.Engine {
	return m.engine
}

// Close releases held resources.
func (m *ServiceManager) Close(ctx context.Context) error {
	return m.db.Close()
}
