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

package logging

import (
	"context"
	"flag"
)

// Config is a logging configuration settable through command line flags.
type Config struct {
	Level Level
}

// AddFlags registers the -log-level flag.
func (c *Config) AddFlags(fs *flag.FlagSet) {
	fs.Var(&c.Level, "log-level",
		"The logging level. Valid options are: debug, info, warning, error.")
}

// Set returns a context with the configured logging level.
func (c *Config) Set(ctx context.Context) context.Context {
	return SetLevel(ctx, c.Level)
}
