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

// Package provider exposes the database client used by all stores.
// The client is constructed once at startup and injected explicitly;
// there is no package-level singleton.
package provider

import (
	"database/sql"
	"fmt"

	"github.com/wso2/practice-management-api/internal/system/database"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/log"
)

// DBClientInterface defines the operations stores use against the database.
type DBClientInterface interface {
	// Query runs a read query and returns the result set as row maps
	// keyed by column name.
	Query(query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error)
	// Execute runs a mutating statement outside a transaction.
	Execute(query dbmodel.DBQueryInterface, args ...interface{}) (sql.Result, error)
	// BeginTx starts a transaction for multi-statement units of work.
	BeginTx() (dbmodel.TxInterface, error)
	// GetDBType returns the configured database type (mysql, postgres, sqlite).
	GetDBType() string
}

type dbClient struct {
	db     *database.DB
	dbType string
}

// NewDBClient creates a database client bound to the given connection.
func NewDBClient(db *database.DB, dbType string) DBClientInterface {
	return &dbClient{
		db:     db,
		dbType: dbType,
	}
}

// Query executes a read query and scans every row into a map.
func (c *dbClient) Query(query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))

	rows, err := c.db.Queryx(query.GetQuery(c.dbType), args...)
	if err != nil {
		logger.Error("Query execution failed", log.String("query_id", query.GetID()), log.Error(err))
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("query %s row scan failed: %w", query.GetID(), err)
		}
		results = append(results, normalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s iteration failed: %w", query.GetID(), err)
	}

	return results, nil
}

// Execute runs a mutating statement and returns the driver result.
func (c *dbClient) Execute(query dbmodel.DBQueryInterface, args ...interface{}) (sql.Result, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))

	result, err := c.db.Exec(query.GetQuery(c.dbType), args...)
	if err != nil {
		logger.Error("Statement execution failed", log.String("query_id", query.GetID()), log.Error(err))
		return nil, fmt.Errorf("statement %s failed: %w", query.GetID(), err)
	}
	return result, nil
}

// BeginTx starts a new transaction.
func (c *dbClient) BeginTx() (dbmodel.TxInterface, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return dbmodel.NewTx(tx), nil
}

// GetDBType returns the configured database type.
func (c *dbClient) GetDBType() string {
	return c.dbType
}

// normalizeRow converts driver byte slices to strings so mappers can
// type-assert on string/int64/bool uniformly.
func normalizeRow(row map[string]interface{}) map[string]interface{} {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
	return row
}
