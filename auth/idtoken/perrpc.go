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

package idtoken

import (
	"context"

	"google.golang.org/grpc/credentials"
)

// PerRPCCredentials returns gRPC credentials that attach the token as
// a bearer token to every call.
//
// The token is not refreshed. The credentials are good for as long as the
// token is, which is enough for a single short-lived invocation.
func PerRPCCredentials(cred *Credential) credentials.PerRPCCredentials {
	return bearerCredentials{token: cred.Token}
}

type bearerCredentials struct {
	token string
}

// GetRequestMetadata is part of credentials.PerRPCCredentials interface.
func (b bearerCredentials) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}

// RequireTransportSecurity is part of credentials.PerRPCCredentials interface.
func (b bearerCredentials) RequireTransportSecurity() bool {
	return true
}
