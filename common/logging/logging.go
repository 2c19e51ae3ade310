// Copyright 2026 The LUCI Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging defines a context-scoped leveled logger.
//
// The logger is installed in a context.Context with Set (or SetFactory) and
// used through package-level helpers:
//
//	ctx = gologger.StdConfig.Use(ctx)
//	logging.Infof(ctx, "dialing %s", authority)
//
// If no logger is installed, messages are discarded.
package logging

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

// Level is a logging level.
type Level int

// Supported logging levels, from the most verbose.
const (
	Debug Level = iota
	Info
	Warning
	Error
)

// DefaultLevel is used if the context has no level set.
const DefaultLevel = Info

var _ flag.Value = (*Level)(nil)

// String is part of flag.Value interface.
func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Set is part of flag.Value interface.
func (l *Level) Set(v string) error {
	switch strings.ToLower(v) {
	case "debug":
		*l = Debug
	case "info":
		*l = Info
	case "warning", "warn":
		*l = Warning
	case "error":
		*l = Error
	default:
		return fmt.Errorf("unknown logging level %q", v)
	}
	return nil
}

// Logger emits log messages.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)

	// LogCall emits a message at the given level.
	//
	// calldepth is the number of stack frames between the caller of the
	// package-level helper and LogCall. Implementations use it to report the
	// right source location.
	LogCall(l Level, calldepth int, format string, args []any)
}

// Factory produces a Logger bound to a context.
type Factory func(ctx context.Context) Logger

type (
	factoryKey int
	levelKey   int
)

// SetFactory returns a context with the given logger factory installed.
func SetFactory(ctx context.Context, f Factory) context.Context {
	return context.WithValue(ctx, factoryKey(0), f)
}

// Set returns a context with the given logger installed.
func Set(ctx context.Context, l Logger) context.Context {
	return SetFactory(ctx, func(context.Context) Logger { return l })
}

// Get returns the logger installed in the context, or a logger that discards
// everything.
func Get(ctx context.Context) Logger {
	if f, ok := ctx.Value(factoryKey(0)).(Factory); ok && f != nil {
		if l := f(ctx); l != nil {
			return l
		}
	}
	return Null
}

// SetLevel returns a context with the given logging level.
func SetLevel(ctx context.Context, l Level) context.Context {
	return context.WithValue(ctx, levelKey(0), l)
}

// GetLevel returns the logging level of the context.
func GetLevel(ctx context.Context) Level {
	if l, ok := ctx.Value(levelKey(0)).(Level); ok {
		return l
	}
	return DefaultLevel
}

// IsLogging tests whether the context is configured to log at the specified
// level.
//
// Individual Logger implementations are supposed to call this function when
// deciding whether to log the message.
func IsLogging(ctx context.Context, l Level) bool {
	return l >= GetLevel(ctx)
}

// Null is a Logger that discards everything.
var Null Logger = nullLogger{}

type nullLogger struct{}

func (nullLogger) Debugf(string, ...any)             {}
func (nullLogger) Infof(string, ...any)              {}
func (nullLogger) Warningf(string, ...any)           {}
func (nullLogger) Errorf(string, ...any)             {}
func (nullLogger) LogCall(Level, int, string, []any) {}
