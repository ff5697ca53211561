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

// Package router assembles the gin engine: middleware chain, health
// endpoints and the versioned API group the feature modules attach to.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wso2/practice-management-api/internal/system/config"
	"github.com/wso2/practice-management-api/internal/system/constants"
	"github.com/wso2/practice-management-api/internal/system/middleware"
)

// RouteRegistrar is implemented by every feature module.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// New builds the HTTP router. healthCheck probes the database for the
// readiness endpoint; registrars attach their routes under the API base
// path.
func New(cfg *config.Config, healthCheck func(ctx context.Context) error,
	registrars ...RouteRegistrar) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.CorrelationIDMiddleware())
	engine.Use(middleware.SecurityHeadersMiddleware())
	if cfg.CORS.Enabled {
		engine.Use(middleware.CORSMiddleware(cfg.CORS))
	}

	engine.GET("/health/liveness", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	engine.GET("/health/readiness", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := healthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	api := engine.Group(constants.APIBasePath)
	if cfg.Security.IsBasicAuthEnabled() {
		api.Use(middleware.BasicAuthMiddleware(&cfg.Security))
	}
	api.Use(middleware.ActorMiddleware())

	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}
	return engine
}
