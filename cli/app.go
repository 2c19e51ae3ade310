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

// Package cli contains arrowscan CLI implementation.
package cli

import (
	"context"
	"os"

	"github.com/maruel/subcommands"
	gol "github.com/op/go-logging"

	"go.chromium.org/arrowscan/common/cli"
	"go.chromium.org/arrowscan/common/logging/gologger"

	"go.chromium.org/arrowscan/cli/base"
	"go.chromium.org/arrowscan/cli/cmds/load"
	"go.chromium.org/arrowscan/cli/cmds/query"
)

// UserAgent is sent with every call.
const UserAgent = "arrowscan/1.0"

var logCfg = gologger.LoggerConfig{
	Format: `[%{level:.1s} %{time:2006-01-02 15:04:05.000}] %{message}`,
	Out:    os.Stderr,
	Level:  gol.DEBUG,
}

// Main runs the arrowscan CLI.
func Main(params base.Parameters, args []string) int {
	return subcommands.Run(GetApplication(params), args)
}

// GetApplication returns the cli.Application.
func GetApplication(params base.Parameters) *cli.Application {
	if params.UserAgent == "" {
		params.UserAgent = UserAgent
	}
	return &cli.Application{
		Name:  "arrowscan",
		Title: "Client for the blob scan and Arrow query services",

		Context: func(ctx context.Context) context.Context {
			return logCfg.Use(ctx)
		},

		Commands: []*subcommands.Command{
			load.Cmd(params),
			query.Cmd(params),

			{}, // a separator
			subcommands.CmdHelp,
		},

		EnvVars: map[string]subcommands.EnvVarDefinition{
			base.CredentialsEnvVar: {
				ShortDesc: "Path to a service account JSON key, used if -service-account-json is not given.",
			},
		},
	}
}
