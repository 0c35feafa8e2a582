// Copyright 2025 Autoeth Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a key/value structured logger backed by zap. The
// package-level functions log through the root logger configured by Setup.
package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
)

// Logger describes the logger interface.
type Logger interface {
	New(ctx ...interface{}) Logger
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Enabled(lvl Level) bool
}

// Level is the log level.
type Level = zapcore.Level

// The supported log levels.
const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	ErrorLevel = zapcore.ErrorLevel
)

// Config is the configuration for the logger, TOML-loadable.
type Config struct {
	// Level of the logging (debug|info|error), defaults to info.
	Level string `toml:"level,omitempty" yaml:"level,omitempty"`
	// Format of the logging (human|json), defaults to human.
	Format string `toml:"format,omitempty" yaml:"format,omitempty"`
}

// InitDefaults populates unset fields in cfg with default values.
func (c *Config) InitDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "human"
	}
}

var root = zap.NewNop()

// Setup configures the root logger. It must be called before the root logger
// is used.
func Setup(cfg Config) error {
	cfg.InitDefaults()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
		return serrors.New("unsupported log level", "level", cfg.Level)
	}
	var zCfg zap.Config
	switch strings.ToLower(cfg.Format) {
	case "human":
		zCfg = zap.NewDevelopmentConfig()
	case "json":
		zCfg = zap.NewProductionConfig()
	default:
		return serrors.New("unsupported log format", "format", cfg.Format)
	}
	zCfg.Level = zap.NewAtomicLevelAt(lvl)
	zCfg.DisableStacktrace = true
	logger, err := zCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return serrors.Wrap("creating logger", err)
	}
	root = logger
	return nil
}

// Root returns the root logger. It is never nil.
func Root() Logger {
	return &logger{logger: root}
}

// New creates a logger with the given context attached to the root logger.
func New(ctx ...interface{}) Logger {
	return Root().New(ctx...)
}

// Debug logs at debug level through the root logger.
func Debug(msg string, ctx ...interface{}) {
	root.Debug(msg, convertCtx(ctx)...)
}

// Info logs at info level through the root logger.
func Info(msg string, ctx ...interface{}) {
	root.Info(msg, convertCtx(ctx)...)
}

// Error logs at error level through the root logger.
func Error(msg string, ctx ...interface{}) {
	root.Error(msg, convertCtx(ctx)...)
}

// Flush writes buffered log entries.
func Flush() {
	_ = root.Sync()
}

// HandlePanic catches panics and logs them. It must be deferred at the start
// of every goroutine.
func HandlePanic() {
	if msg := recover(); msg != nil {
		root.Error("Panic", zap.Any("msg", msg), zap.Stack("stack"))
		_ = root.Sync()
		panic(msg)
	}
}

type logger struct {
	logger *zap.Logger
}

func (l *logger) New(ctx ...interface{}) Logger {
	return &logger{logger: l.logger.With(convertCtx(ctx)...)}
}

func (l *logger) Debug(msg string, ctx ...interface{}) {
	l.logger.Debug(msg, convertCtx(ctx)...)
}

func (l *logger) Info(msg string, ctx ...interface{}) {
	l.logger.Info(msg, convertCtx(ctx)...)
}

func (l *logger) Error(msg string, ctx ...interface{}) {
	l.logger.Error(msg, convertCtx(ctx)...)
}

func (l *logger) Enabled(lvl Level) bool {
	return l.logger.Core().Enabled(lvl)
}

func convertCtx(ctx []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(ctx[i]), ctx[i+1]))
	}
	return fields
}

// DiscardLogger implements Logger and discards all messages. It is intended
// for tests.
type DiscardLogger struct{}

func (DiscardLogger) New(ctx ...interface{}) Logger        { return DiscardLogger{} }
func (DiscardLogger) Debug(msg string, ctx ...interface{}) {}
func (DiscardLogger) Info(msg string, ctx ...interface{})  {}
func (DiscardLogger) Error(msg string, ctx ...interface{}) {}
func (DiscardLogger) Enabled(lvl Level) bool               { return false }
