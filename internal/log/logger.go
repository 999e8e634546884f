/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log provides centralized slog-based logging for the application.
// It wraps the standard slog with a small configuration surface so that the
// editor core and the CLI share one logger setup.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"sketchpad/internal/version"

	// lumberjack is optional; used only if file logging is enabled
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// Values can be provided directly or via environment variables:
//   - SKP_LOG_LEVEL=debug|info|warn|error
//   - SKP_LOG_FORMAT=text|json
//   - SKP_LOG_FILE=<path> (enables file logging with rotation)
//   - SKP_LOG_SOURCE=true|false (include source)
//
// Defaults: INFO level, text format, no source, stderr only.
type Options struct {
	Level     string
	Format    string // "text" or "json"
	AddSource bool
	File      string // optional path for file logging (rotated)
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   *slog.Logger
)

// L returns the default application logger, initializing from env if needed.
func L() *slog.Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}
	// lazy init from env
	Init(FromEnv())
	defaultLoggerMu.RLock()
	l = defaultLogger
	defaultLoggerMu.RUnlock()
	return l
}

// Init configures the global logger and sets slog.Default as well.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)

	var w io.Writer = os.Stderr
	if strings.TrimSpace(opts.File) != "" {
		rotated := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		w = io.MultiWriter(os.Stderr, rotated)
	}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
	}

	logger := slog.New(h).With(
		slog.String("app", "sketchpad"),
		slog.String("ver", version.Version),
	)

	defaultLoggerMu.Lock()
	defaultLogger = logger
	defaultLoggerMu.Unlock()
	slog.SetDefault(logger)
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("SKP_LOG_LEVEL", "info"),
		Format:    getenv("SKP_LOG_FORMAT", "text"),
		AddSource: strings.EqualFold(getenv("SKP_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("SKP_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

// parseLevel converts a string to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
