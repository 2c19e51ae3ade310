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
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/compute/metadata"

	"go.chromium.org/arrowscan/errs"
)

// MetadataSource mints tokens through the identity endpoint of the GCE
// metadata server, as the default service account of the VM (or of the Cloud
// Run / GKE workload).
type MetadataSource struct {
	// Client talks to the metadata server. Default is the package-level client
	// of the metadata library.
	Client *metadata.Client

	// OnGCE reports whether the metadata server is reachable. Default is
	// metadata.OnGCE.
	OnGCE func() bool
}

// Kind is part of Source interface.
func (s *MetadataSource) Kind() string {
	return "GCE metadata server"
}

// Token is part of Source interface.
func (s *MetadataSource) Token(ctx context.Context, audience string) (*Credential, error) {
	onGCE := s.OnGCE
	if onGCE == nil {
		onGCE = metadata.OnGCE
	}
	if !onGCE() {
		return nil, fmt.Errorf("%w: no service account key given and the metadata server is not reachable", errs.ErrAuthConfig)
	}

	suffix := "instance/service-accounts/default/identity?audience=" + url.QueryEscape(audience) + "&format=full"
	get := metadata.GetWithContext
	if s.Client != nil {
		get = s.Client.GetWithContext
	}
	tok, err := get(ctx, suffix)
	if err != nil {
		var notDefined metadata.NotDefinedError
		if errors.As(err, &notDefined) {
			return nil, fmt.Errorf("%w: the metadata server has no identity endpoint: %w", errs.ErrAuthConfig, err)
		}
		return nil, fmt.Errorf("%w: fetching a token from the metadata server: %w", errs.ErrAuthRefresh, err)
	}

	cred, err := credentialFromJWT(strings.TrimSpace(tok), audience, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("%w: the metadata server returned a bad token: %w", errs.ErrAuthRefresh, err)
	}
	return cred, nil
}
