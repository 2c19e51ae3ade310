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

// Package channeltest has fakes for testing code that dials services.
package channeltest

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/resolver"
	"google.golang.org/grpc/resolver/manual"
	"google.golang.org/grpc/test/bufconn"
)

// Creds are transport credentials that skip the handshake but claim full
// security, so that channels agree to send bearer tokens over a test
// connection.
//
// Use them on both ends.
type Creds struct{}

type authInfo struct{ credentials.CommonAuthInfo }

func (authInfo) AuthType() string { return "test" }

func (Creds) handshake(c net.Conn) (net.Conn, credentials.AuthInfo, error) {
	return c, authInfo{credentials.CommonAuthInfo{SecurityLevel: credentials.PrivacyAndIntegrity}}, nil
}

// ClientHandshake implements credentials.TransportCredentials.
func (tc Creds) ClientHandshake(_ context.Context, _ string, c net.Conn) (net.Conn, credentials.AuthInfo, error) {
	return tc.handshake(c)
}

// ServerHandshake implements credentials.TransportCredentials.
func (tc Creds) ServerHandshake(c net.Conn) (net.Conn, credentials.AuthInfo, error) {
	return tc.handshake(c)
}

// Info implements credentials.TransportCredentials.
func (Creds) Info() credentials.ProtocolInfo {
	return credentials.ProtocolInfo{SecurityProtocol: "test"}
}

// Clone implements credentials.TransportCredentials.
func (tc Creds) Clone() credentials.TransportCredentials { return tc }

// OverrideServerName implements credentials.TransportCredentials.
func (Creds) OverrideServerName(string) error { return nil }

// Route returns dial options that send connections to any target to lis.
//
// Targets are resolved as usual, by the "dns" scheme, so conn.Target() stays
// what the caller dialed.
func Route(lis net.Listener) []grpc.DialOption {
	r := manual.NewBuilderWithScheme("dns")
	r.InitialState(resolver.State{Addresses: []resolver.Address{{Addr: lis.Addr().String()}}})

	opts := []grpc.DialOption{grpc.WithResolvers(r)}
	if bl, ok := lis.(*bufconn.Listener); ok {
		opts = append(opts, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return bl.DialContext(ctx)
		}))
	}
	return opts
}
