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

package utils

import (
	"fmt"
	"strconv"
)

// RowString extracts a string column from a result row.
func RowString(row map[string]interface{}, col string) (string, error) {
	val, ok := row[col]
	if !ok || val == nil {
		return "", fmt.Errorf("column %s missing from result row", col)
	}
	switch v := val.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// RowNullableString extracts an optional string column from a result row.
func RowNullableString(row map[string]interface{}, col string) *string {
	val, ok := row[col]
	if !ok || val == nil {
		return nil
	}
	s, err := RowString(row, col)
	if err != nil {
		return nil
	}
	return &s
}

// RowInt64 extracts an integer column from a result row. MySQL drivers
// return numeric columns as int64 or as raw bytes depending on the
// statement type, so both forms are handled.
func RowInt64(row map[string]interface{}, col string) (int64, error) {
	val, ok := row[col]
	if !ok || val == nil {
		return 0, fmt.Errorf("column %s missing from result row", col)
	}
	switch v := val.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("column %s has unexpected type %T", col, val)
	}
}

// RowNullableInt64 extracts an optional integer column from a result row.
func RowNullableInt64(row map[string]interface{}, col string) *int64 {
	val, ok := row[col]
	if !ok || val == nil {
		return nil
	}
	n, err := RowInt64(row, col)
	if err != nil {
		return nil
	}
	return &n
}

// RowInt extracts an integer column as an int.
func RowInt(row map[string]interface{}, col string) (int, error) {
	n, err := RowInt64(row, col)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// RowBool extracts a boolean column from a result row. Boolean columns
// are stored as TINYINT(1) and may surface as int64, bytes or bool.
func RowBool(row map[string]interface{}, col string) (bool, error) {
	val, ok := row[col]
	if !ok || val == nil {
		return false, nil
	}
	switch v := val.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case []byte:
		return string(v) == "1" || string(v) == "true", nil
	case string:
		return v == "1" || v == "true", nil
	default:
		return false, fmt.Errorf("column %s has unexpected type %T", col, val)
	}
}
