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

// Package gologger is a logging.Logger backed by the go-logging library.
package gologger

import (
	"context"
	"io"
	"os"
	"sync"

	gol "github.com/op/go-logging"

	"go.chromium.org/arrowscan/common/logging"
)

// StandardFormat first prints process ID, time, filename, logging level
// and sequence number, all colored. Then the message.
const StandardFormat = `%{color}[P%{pid} %{time:15:04:05.000} %{shortfile} %{level:.4s} %{id:03x}]` +
	`%{color:reset} %{message}`

// StdConfig is a LoggerConfig that writes everything to stderr.
//
// The context level (see logging.SetLevel) still applies on top of it.
var StdConfig = LoggerConfig{
	Format: StandardFormat,
	Out:    os.Stderr,
	Level:  gol.DEBUG,
}

// LoggerConfig owns a go-logging backend.
type LoggerConfig struct {
	Format string    // see go-logging docs for the format string syntax
	Out    io.Writer // where to write the log to
	Level  gol.Level // the backend threshold, logging.SetLevel applies on top

	once sync.Once
	impl *goLoggerWrapper
}

// NewLogger returns a logger bound to the given context.
//
// The context's logging level is used to filter messages. A nil context
// disables this filtering.
func (lc *LoggerConfig) NewLogger(ctx context.Context) logging.Logger {
	lc.once.Do(func() {
		lc.impl = &goLoggerWrapper{l: lc.newGoLogger()}
	})
	return &loggerImpl{w: lc.impl, ctx: ctx}
}

// Use installs a logger based on this config into the context.
func (lc *LoggerConfig) Use(ctx context.Context) context.Context {
	return logging.SetFactory(ctx, lc.NewLogger)
}

func (lc *LoggerConfig) newGoLogger() *gol.Logger {
	format := lc.Format
	if format == "" {
		format = StandardFormat
	}
	out := lc.Out
	if out == nil {
		out = os.Stderr
	}
	backend := gol.NewBackendFormatter(
		gol.NewLogBackend(out, "", 0),
		gol.MustStringFormatter(format))
	leveled := gol.AddModuleLevel(backend)
	leveled.SetLevel(lc.Level, "")

	l := &gol.Logger{Module: ""}
	l.SetBackend(leveled)
	return l
}

// goLoggerWrapper serializes access to ExtraCalldepth of the go-logging
// logger, which is adjusted on every call.
type goLoggerWrapper struct {
	sync.Mutex
	l *gol.Logger
}

type loggerImpl struct {
	w   *goLoggerWrapper
	ctx context.Context
}

func (li *loggerImpl) Debugf(format string, args ...any) {
	li.LogCall(logging.Debug, 1, format, args)
}

func (li *loggerImpl) Infof(format string, args ...any) {
	li.LogCall(logging.Info, 1, format, args)
}

func (li *loggerImpl) Warningf(format string, args ...any) {
	li.LogCall(logging.Warning, 1, format, args)
}

func (li *loggerImpl) Errorf(format string, args ...any) {
	li.LogCall(logging.Error, 1, format, args)
}

func (li *loggerImpl) LogCall(level logging.Level, calldepth int, format string, args []any) {
	if li.ctx != nil && !logging.IsLogging(li.ctx, level) {
		return
	}

	li.w.Lock()
	defer li.w.Unlock()

	// One frame for LogCall itself and calldepth frames above it.
	li.w.l.ExtraCalldepth = calldepth + 1
	switch level {
	case logging.Debug:
		li.w.l.Debugf(format, args...)
	case logging.Info:
		li.w.l.Infof(format, args...)
	case logging.Warning:
		li.w.l.Warningf(format, args...)
	default:
		li.w.l.Errorf(format, args...)
	}
}
