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
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wso2/practice-management-api/internal/system/config"
	"github.com/wso2/practice-management-api/internal/system/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to deployment.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger is not configured yet.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Server"))

	manager, err := NewServiceManager(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", log.Error(err))
	}

	server := &http.Server{
		Addr:         cfg.Server.GetServerAddress(),
		Handler:      manager.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Practice management API listening", log.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", log.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", log.Error(err))
	}
	if err := manager.Close(ctx); err != nil {
		logger.Error("Failed to close resources", log.Error(err))
	}
	logger.Info("Server stopped")
}
