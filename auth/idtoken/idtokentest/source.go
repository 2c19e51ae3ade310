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

// Package idtokentest has a fake identity token source for tests.
package idtokentest

import (
	"context"
	"sync"
	"time"

	"go.chromium.org/arrowscan/auth/idtoken"
)

// Source returns the same token for any audience.
type Source struct {
	// IDToken is the token to return.
	IDToken string
	// Lifetime is how long the token is valid. Default is one hour.
	Lifetime time.Duration
	// Err, if set, is returned instead of a token.
	Err error

	m         sync.Mutex
	audiences []string
}

var _ idtoken.Source = (*Source)(nil)

// Kind is part of idtoken.Source interface.
func (s *Source) Kind() string { return "fake" }

// Token is part of idtoken.Source interface.
func (s *Source) Token(ctx context.Context, audience string) (*idtoken.Credential, error) {
	s.m.Lock()
	s.audiences = append(s.audiences, audience)
	s.m.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	lifetime := s.Lifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	return &idtoken.Credential{
		Token:    s.IDToken,
		Audience: audience,
		Expiry:   time.Now().Add(lifetime),
	}, nil
}

// Audiences returns audiences of all Token calls so far.
func (s *Source) Audiences() []string {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]string(nil), s.audiences...)
}
