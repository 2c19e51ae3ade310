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

// Package channel builds gRPC channels to the scan and query services.
//
// A remote service is addressed by its HTTPS URL (Target). The channel to it
// uses TLS and carries an identity token scoped to that URL. For local
// development, DialLocal connects to a locally running service over plaintext
// without any credentials.
package channel

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"go.chromium.org/arrowscan/common/logging"
	"go.chromium.org/arrowscan/errs"
)

const (
	// DefaultLocalAddr is the address DialLocal connects to by default.
	DefaultLocalAddr = "localhost:8080"

	// securePort is the only port managed HTTPS endpoints serve gRPC on.
	securePort = "443"
)

// Target is a validated HTTPS URL of a remote service.
type Target struct {
	raw  string
	host string
}

// ParseTarget validates the URL of a remote service.
//
// The URL must look like "https://<host>", optionally with a trailing slash
// or an explicit ":443".
func ParseTarget(raw string) (*Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrChannelConfig, err)
	}
	switch {
	case u.Scheme != "https":
		return nil, fmt.Errorf("%w: %q: want an https:// URL", errs.ErrChannelConfig, raw)
	case u.Hostname() == "":
		return nil, fmt.Errorf("%w: %q: no host", errs.ErrChannelConfig, raw)
	case u.Port() != "" && u.Port() != securePort:
		return nil, fmt.Errorf("%w: %q: only port %s is supported", errs.ErrChannelConfig, raw, securePort)
	case u.User != nil || u.RawQuery != "" || u.Fragment != "" || (u.Path != "" && u.Path != "/"):
		return nil, fmt.Errorf("%w: %q: want just the scheme and the host", errs.ErrChannelConfig, raw)
	}
	return &Target{raw: raw, host: u.Hostname()}, nil
}

// Audience is the audience of identity tokens for this target.
//
// It is the URL exactly as given, scheme included.
func (t *Target) Audience() string {
	return t.raw
}

// Host is the host name of the target.
func (t *Target) Host() string {
	return t.host
}

// Authority is the "host:443" to dial.
func (t *Target) Authority() string {
	return net.JoinHostPort(t.host, securePort)
}

// String returns the URL of the target.
func (t *Target) String() string {
	return t.raw
}

// Builder builds channels.
//
// The zero value is ready to use.
type Builder struct {
	// UserAgent is sent with every call, if set.
	UserAgent string

	// TransportCredentials secure remote channels. Default is TLS with the
	// system root CAs.
	TransportCredentials credentials.TransportCredentials

	// LocalAddr is the address DialLocal connects to. Default is
	// DefaultLocalAddr.
	LocalAddr string

	// Options are appended to the dial options of every channel.
	Options []grpc.DialOption
}

// Dial returns a channel to the remote target that attaches perRPC
// credentials to every call.
//
// The channel connects lazily. The caller must close it.
func (b *Builder) Dial(ctx context.Context, target *Target, perRPC credentials.PerRPCCredentials) (*grpc.ClientConn, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: no target", errs.ErrChannelConfig)
	}
	if perRPC == nil {
		return nil, fmt.Errorf("%w: no credentials for %s", errs.ErrChannelConfig, target)
	}
	creds := b.TransportCredentials
	if creds == nil {
		creds = credentials.NewTLS(nil)
	}
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithPerRPCCredentials(perRPC),
	}, b.commonOptions()...)

	logging.Debugf(ctx, "Dialing %s", target.Authority())
	conn, err := grpc.NewClient(target.Authority(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot dial %s: %w", errs.ErrChannelConfig, target.Authority(), err)
	}
	return conn, nil
}

// DialLocal returns a plaintext channel to a locally running service.
//
// No credentials are attached. It is meant only for local development.
func (b *Builder) DialLocal(ctx context.Context) (*grpc.ClientConn, error) {
	addr := b.LocalAddr
	if addr == "" {
		addr = DefaultLocalAddr
	}
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, b.commonOptions()...)

	logging.Warningf(ctx, "No service URL given, connecting to %s without authentication", addr)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot dial %s: %w", errs.ErrChannelConfig, addr, err)
	}
	return conn, nil
}

func (b *Builder) commonOptions() []grpc.DialOption {
	var opts []grpc.DialOption
	if b.UserAgent != "" {
		opts = append(opts, grpc.WithUserAgent(b.UserAgent))
	}
	return append(opts, b.Options...)
}
