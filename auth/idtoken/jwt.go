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
	"fmt"
	"time"

	"google.golang.org/api/idtoken"
)

// credentialFromJWT builds a Credential, checking the token was minted for
// the expected audience.
//
// The token is not verified. It is only ever sent to the service, which
// verifies it. Its claims tell when it expires and whom it was minted for.
// The `exp` claim is used if expiry is zero.
func credentialFromJWT(token, audience string, expiry time.Time) (*Credential, error) {
	p, err := idtoken.ParsePayload(token)
	if err != nil {
		return nil, fmt.Errorf("bad JWT: %w", err)
	}
	if p.Audience != "" && p.Audience != audience {
		return nil, fmt.Errorf("the token is for audience %q, not %q", p.Audience, audience)
	}
	if expiry.IsZero() && p.Expires != 0 {
		expiry = time.Unix(p.Expires, 0)
	}
	return &Credential{
		Token:    token,
		Audience: audience,
		Expiry:   expiry,
	}, nil
}
