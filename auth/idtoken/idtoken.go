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

// Package idtoken obtains Google-signed identity tokens for a fixed audience.
//
// An identity token proves the identity of the caller to a service that
// validates it, e.g. a Cloud Run service with authentication enabled. Tokens
// are scoped to an audience, which must be the exact URL of the service.
//
// Tokens come from one of two sources:
//   - a service account JSON key file (KeyFileSource);
//   - the GCE metadata server of the machine we run on (MetadataSource).
//
// NewSource picks one of them based on explicit configuration. Get then mints
// a token once, before any RPC is attempted, so that a broken credential shows
// up as a credential error rather than as an opaque RPC failure.
package idtoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.chromium.org/arrowscan/common/logging"
	"go.chromium.org/arrowscan/errs"
)

// DefaultTimeout bounds the token exchange if no other timeout is given.
const DefaultTimeout = 30 * time.Second

// Credential is an identity token scoped to an audience.
//
// It is never persisted.
type Credential struct {
	Token    string    // the encoded JWT
	Audience string    // the audience it was minted for
	Expiry   time.Time // zero if unknown
}

// Valid is true if the token is set and not yet expired at the given time.
func (c *Credential) Valid(now time.Time) bool {
	return c != nil && c.Token != "" && (c.Expiry.IsZero() || now.Before(c.Expiry))
}

// Source mints identity tokens.
type Source interface {
	// Token returns a fresh token for the audience.
	//
	// Returns errors wrapping errs.ErrAuthConfig if the source is not usable at
	// all and errs.ErrAuthRefresh if the token exchange failed.
	Token(ctx context.Context, audience string) (*Credential, error)

	// Kind is a short human readable name of the source, for logs.
	Kind() string
}

// Options configure NewSource.
type Options struct {
	// KeyFile is a path to a service account JSON key.
	//
	// Usually comes from GOOGLE_APPLICATION_CREDENTIALS. If empty, the metadata
	// server is used instead.
	KeyFile string

	// Metadata is the metadata server source to use when KeyFile is empty.
	//
	// Default is a MetadataSource with default settings.
	Metadata *MetadataSource
}

// NewSource returns the source selected by the options.
//
// This is the only place that chooses between sources. The source that is
// not chosen is never touched.
func NewSource(opts Options) Source {
	if opts.KeyFile != "" {
		return &KeyFileSource{Path: opts.KeyFile}
	}
	if opts.Metadata != nil {
		return opts.Metadata
	}
	return &MetadataSource{}
}

// Get mints a token for the audience and verifies it is usable.
//
// The token exchange runs under the given timeout (or DefaultTimeout if it is
// not positive).
func Get(ctx context.Context, src Source, audience string, timeout time.Duration) (*Credential, error) {
	if audience == "" {
		return nil, fmt.Errorf("%w: empty audience", errs.ErrAuthConfig)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no credential source configured", errs.ErrAuthConfig)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logging.Debugf(ctx, "Minting an ID token for %q using %s", audience, src.Kind())
	started := time.Now()
	cred, err := src.Token(ctx, audience)
	switch {
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, errs.ErrAuthRefresh):
		return nil, fmt.Errorf("%w: %s timed out after %s: %w", errs.ErrAuthRefresh, src.Kind(), timeout, err)
	case err != nil:
		return nil, err
	case !cred.Valid(time.Now()):
		return nil, fmt.Errorf("%w: %s returned an empty or expired token", errs.ErrAuthRefresh, src.Kind())
	}

	if cred.Expiry.IsZero() {
		logging.Infof(ctx, "Got an ID token for %q in %s", audience, time.Since(started))
	} else {
		logging.Infof(ctx, "Got an ID token for %q in %s, it expires in %s",
			audience, time.Since(started), time.Until(cred.Expiry).Truncate(time.Second))
	}
	return cred, nil
}
