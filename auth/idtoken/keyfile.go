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
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"

	"go.chromium.org/arrowscan/errs"
)

// KeyFileSource mints tokens by signing assertions with a service account
// private key and exchanging them at the token endpoint named in the key.
type KeyFileSource struct {
	Path string
}

// Kind is part of Source interface.
func (s *KeyFileSource) Kind() string {
	return fmt.Sprintf("service account key %q", s.Path)
}

// Token is part of Source interface.
func (s *KeyFileSource) Token(ctx context.Context, audience string) (*Credential, error) {
	blob, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read the service account key: %w", errs.ErrAuthConfig, err)
	}

	// idtoken would do the same checks, but wouldn't let us tell a broken key
	// from a rejected token exchange.
	var key struct {
		Type        string `json:"type"`
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
	}
	if err := json.Unmarshal(blob, &key); err != nil {
		return nil, fmt.Errorf("%w: %q is not a JSON key: %w", errs.ErrAuthConfig, s.Path, err)
	}
	switch {
	case key.Type != "service_account":
		return nil, fmt.Errorf("%w: %q has type %q, only service_account keys can mint ID tokens",
			errs.ErrAuthConfig, s.Path, key.Type)
	case key.ClientEmail == "" || key.PrivateKey == "":
		return nil, fmt.Errorf("%w: %q has no client_email or private_key", errs.ErrAuthConfig, s.Path)
	}

	var ts oauth2.TokenSource
	ts, err = idtoken.NewTokenSource(ctx, audience, idtoken.WithCredentialsJSON(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: minting a token as %s: %w", errs.ErrAuthRefresh, key.ClientEmail, err)
	}
	// The token exchange happens here.
	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: minting a token as %s: %w", errs.ErrAuthRefresh, key.ClientEmail, err)
	}

	cred, err := credentialFromToken(tok, audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrAuthRefresh, err)
	}
	return cred, nil
}

// credentialFromToken converts an ID token delivered as an OAuth2 token.
//
// idtoken puts the ID token into AccessToken.
func credentialFromToken(tok *oauth2.Token, audience string) (*Credential, error) {
	if tok == nil || tok.AccessToken == "" {
		return nil, fmt.Errorf("the token endpoint returned no ID token")
	}
	return credentialFromJWT(tok.AccessToken, audience, tok.Expiry)
}
