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

// Package log provides structured logging for the application on top of logrus.
package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// LoggerKeyComponentName is the standard field key for the component emitting a log line.
const LoggerKeyComponentName = "component"

// Field represents a single structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Any creates a field holding an arbitrary value.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Error creates a field carrying an error value.
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

// Logger wraps a logrus entry with the Field-based API used across the codebase.
type Logger struct {
	entry *logrus.Entry
}

var (
	defaultLogger *Logger
	initOnce      sync.Once
)

// Init configures the default logger. Safe to call once at startup;
// later calls are ignored.
func Init(level, format string) {
	initOnce.Do(func() {
		base := logrus.New()
		base.SetOutput(os.Stdout)

		if format == "text" {
			base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		} else {
			base.SetFormatter(&logrus.JSONFormatter{})
		}

		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			parsed = logrus.InfoLevel
		}
		base.SetLevel(parsed)

		defaultLogger = &Logger{entry: logrus.NewEntry(base)}
	})
}

// GetLogger returns the application logger, initializing it with defaults
// if Init has not been called yet.
func GetLogger() *Logger {
	if defaultLogger == nil {
		Init("info", "json")
	}
	return defaultLogger
}

// With returns a child logger carrying the given fields on every line.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{entry: l.entry.WithFields(toLogrusFields(fields))}
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Debug(msg)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Info(msg)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Warn(msg)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Error(msg)
}

// Fatal logs a message at fatal level and exits the process.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Fatal(msg)
}

func toLogrusFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
