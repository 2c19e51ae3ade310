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

// Package base contains code shared by other CLI subpackages.
package base

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/maruel/subcommands"
	"github.com/mitchellh/go-homedir"

	"go.chromium.org/arrowscan/auth/idtoken"
	"go.chromium.org/arrowscan/channel"
	"go.chromium.org/arrowscan/common/logging"
	"go.chromium.org/arrowscan/decode"
	"go.chromium.org/arrowscan/errs"
	"go.chromium.org/arrowscan/rpc"
	"go.chromium.org/arrowscan/session"
)

// CredentialsEnvVar names a service account key to use if
// -service-account-json is not given.
const CredentialsEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"

// CommandLineError is used to tag errors related to command line arguments.
//
// Subcommand.Done(..., err) will print the usage string if it finds such error.
type CommandLineError struct {
	error
}

// Unwrap returns the wrapped error.
func (e CommandLineError) Unwrap() error { return e.error }

// NewCLIError returns new CommandLineError.
func NewCLIError(msg string, args ...any) error {
	return CommandLineError{fmt.Errorf(msg, args...)}
}

// MissingFlagError is CommandLineError about a missing flag.
func MissingFlagError(flag string) error {
	return NewCLIError("%s is required", flag)
}

// Parameters can be used to customize CLI defaults.
type Parameters struct {
	// UserAgent is sent with every call.
	UserAgent string

	// Source, if set, replaces the credential source picked by flags.
	Source idtoken.Source
	// Channel, if set, builds all channels.
	Channel *channel.Builder
	// Decoder, if set, decodes Arrow payloads.
	Decoder *decode.Decoder
}

// Subcommand is a base of all subcommands.
//
// It defines some common flags, such as logging, authentication and JSON
// output parameters, and some common methods to open sessions, report errors
// and dump JSON output.
//
// It's Init() method should be called from within CommandRun to register
// base flags.
type Subcommand struct {
	subcommands.CommandRunBase

	ServiceURL string // -url

	params      *Parameters
	logConfig   logging.Config // for -log-level, used by ModifyContext
	keyFile     string         // -service-account-json, or $GOOGLE_APPLICATION_CREDENTIALS
	authTimeout time.Duration
	rpcTimeout  time.Duration
	jsonOutput  string // for -json-output, used by Done

	out    io.Writer
	errOut io.Writer
}

// ModifyContext implements cli.ContextModificator.
func (c *Subcommand) ModifyContext(ctx context.Context) context.Context {
	return c.logConfig.Set(ctx)
}

// Init registers common flags.
func (c *Subcommand) Init(params Parameters) {
	c.params = &params

	c.logConfig.Level = logging.DefaultLevel
	c.logConfig.AddFlags(&c.Flags)

	c.Flags.StringVar(&c.keyFile, "service-account-json", "",
		fmt.Sprintf("Path to a service account JSON key to mint identity tokens with. "+
			"Default is $%s, or the GCE metadata server if it is not set either.", CredentialsEnvVar))
	c.Flags.DurationVar(&c.authTimeout, "auth-timeout", idtoken.DefaultTimeout, "How long to wait for an identity token.")
	c.Flags.DurationVar(&c.rpcTimeout, "rpc-timeout", rpc.DefaultTimeout, "How long to wait for the service to respond.")
	c.Flags.StringVar(&c.jsonOutput, "json-output", "", "Path to write operation results to.")
}

// AddServiceFlag registers the -url flag.
//
// If the flag is required, CheckArgs fails when it is missing.
func (c *Subcommand) AddServiceFlag(required bool) {
	def, help := "", "URL of the service, e.g. https://example.a.run.app. "+
		"If not set, connects to "+channel.DefaultLocalAddr+" without authentication."
	if required {
		def, help = "<url>", "URL of the service, e.g. https://example.a.run.app."
	}
	c.Flags.StringVar(&c.ServiceURL, "url", def, help)
}

// Start binds the subcommand to the application and its environment.
//
// Must be called first thing in Run.
func (c *Subcommand) Start(a subcommands.Application, env subcommands.Env) {
	c.out = a.GetOut()
	c.errOut = a.GetErr()
	if c.keyFile == "" {
		if v := env[CredentialsEnvVar]; v.Exists {
			c.keyFile = v.Value
		}
	}
}

// Out is where results go.
func (c *Subcommand) Out() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

func (c *Subcommand) stderr() io.Writer {
	if c.errOut == nil {
		return os.Stderr
	}
	return c.errOut
}

// CheckArgs checks command line args.
//
// It ensures all required positional and flag-like parameters are set. Setting
// maxPosCount to -1 indicates there is unbounded number of positional arguments
// allowed.
//
// Returns true if they are, or false (and prints to stderr) if not.
func (c *Subcommand) CheckArgs(args []string, minPosCount, maxPosCount int) bool {
	// Check number of expected positional arguments.
	if len(args) < minPosCount || (maxPosCount >= 0 && len(args) > maxPosCount) {
		var err error
		switch {
		case maxPosCount == 0:
			err = NewCLIError("unexpected arguments %v", args)
		case minPosCount == maxPosCount:
			err = NewCLIError("expecting %d positional argument, got %d instead", minPosCount, len(args))
		case maxPosCount >= 0:
			err = NewCLIError(
				"expecting from %d to %d positional arguments, got %d instead",
				minPosCount, maxPosCount, len(args))
		default:
			err = NewCLIError(
				"expecting at least %d positional arguments, got %d instead",
				minPosCount, len(args))
		}
		c.printError(err)
		return false
	}

	// Check required unset flags. A flag is considered required if its default
	// value has form '<...>'.
	unset := []*flag.Flag{}
	c.Flags.VisitAll(func(f *flag.Flag) {
		d := f.DefValue
		if strings.HasPrefix(d, "<") && strings.HasSuffix(d, ">") && f.Value.String() == d {
			unset = append(unset, f)
		}
	})
	if len(unset) != 0 {
		missing := make([]string, len(unset))
		for i, f := range unset {
			missing[i] = f.Name
		}
		c.printError(NewCLIError("missing required flags: %v", missing))
		return false
	}

	return true
}

// ExpandPath expands a leading "~" in a path given via a flag, in place.
//
// Shells don't do it in "-flag=~/path" form.
func ExpandPath(p *string) error {
	if *p == "" {
		return nil
	}
	v, err := homedir.Expand(*p)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// OpenSession mints an identity token for -url and dials it.
//
// If allowLocal is true and -url is empty, dials the local service instead.
func (c *Subcommand) OpenSession(ctx context.Context, allowLocal bool) (*session.Session, error) {
	if c.params == nil {
		panic("call Init first")
	}
	if err := ExpandPath(&c.keyFile); err != nil {
		return nil, errs.InStage(errs.StageCredential, fmt.Errorf("%w: %w", errs.ErrAuthConfig, err))
	}
	return session.Open(ctx, &session.Config{
		TargetURL:   c.ServiceURL,
		AllowLocal:  allowLocal,
		KeyFile:     c.keyFile,
		AuthTimeout: c.authTimeout,
		UserAgent:   c.params.UserAgent,
		Source:      c.params.Source,
		Channel:     c.params.Channel,
	})
}

// Decoder returns the decoder of Arrow payloads.
func (c *Subcommand) Decoder() *decode.Decoder {
	if c.params == nil || c.params.Decoder == nil {
		return &decode.Decoder{}
	}
	return c.params.Decoder
}

// Invoke makes one call with the -rpc-timeout deadline.
func (c *Subcommand) Invoke(ctx context.Context, method string, call func(ctx context.Context) error) error {
	return errs.InStage(errs.StageRPC, rpc.Invoke(ctx, rpc.Options{Timeout: c.rpcTimeout}, method, call))
}

// Done is called as the last step of processing a subcommand.
//
// It dumps the command result (or an error) to the JSON output file, prints
// the error message and generates the process exit code.
func (c *Subcommand) Done(result any, err error) int {
	err = c.writeJSONOutput(result, err)
	if err != nil {
		c.printError(err)
		return 1
	}
	return 0
}

// printError prints an error to stderr.
//
// Command line errors come with the usage string. Other errors are prefixed
// with the stage that failed.
func (c *Subcommand) printError(err error) {
	var cmdErr CommandLineError
	switch {
	case errors.As(err, &cmdErr):
		fmt.Fprintf(c.stderr(), "Bad command line: %s.\n\n", err)
		c.Flags.SetOutput(c.stderr())
		c.Flags.PrintDefaults()
	case errs.StageOf(err) != errs.StageUnknown:
		fmt.Fprintf(c.stderr(), "%s stage failed: %s\n", errs.StageOf(err), err)
	default:
		fmt.Fprintf(c.stderr(), "%s\n", err)
	}
}

// writeJSONOutput writes result to JSON output file (if -json-output was set).
//
// If writing to the output file fails and the original error is nil, returns
// the write error. If the original error is not nil, just logs the write error
// and returns the original error.
func (c *Subcommand) writeJSONOutput(result any, err error) error {
	if c.jsonOutput == "" {
		return err
	}

	var output struct {
		Error  string `json:"error,omitempty"`  // overall error
		Stage  string `json:"stage,omitempty"`  // the stage that failed
		Result any    `json:"result,omitempty"` // command-specific result
	}
	output.Result = result
	if err != nil {
		output.Error = err.Error()
		output.Stage = string(errs.StageOf(err))
	}

	// We don't want to create the file if we can't serialize. So serialize first.
	// Also don't escape '<', it looks extremely ugly.
	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if e := enc.Encode(&output); e != nil {
		if err == nil {
			err = e
		} else {
			fmt.Fprintf(c.stderr(), "Failed to serialize JSON output: %s\n", e)
		}
		return err
	}

	if e := os.WriteFile(c.jsonOutput, buf.Bytes(), 0666); e != nil {
		if err == nil {
			err = e
		} else {
			fmt.Fprintf(c.stderr(), "Failed write JSON output to %s: %s\n", c.jsonOutput, e)
		}
	}
	return err
}
