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

// Package session opens an authenticated channel to a service.
package session

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"

	"go.chromium.org/arrowscan/auth/idtoken"
	"go.chromium.org/arrowscan/channel"
	"go.chromium.org/arrowscan/errs"
)

// Config is everything needed to open a session.
type Config struct {
	// TargetURL is the https:// URL of the service.
	//
	// May be empty only if AllowLocal is set, in which case the session talks
	// to a local service without credentials.
	TargetURL string

	// AllowLocal permits an empty TargetURL.
	AllowLocal bool

	// KeyFile is a path to a service account JSON key.
	//
	// If empty, identity tokens come from the GCE metadata server.
	KeyFile string

	// AuthTimeout bounds the identity token exchange. Default is
	// idtoken.DefaultTimeout.
	AuthTimeout time.Duration

	// LocalAddr is where the local service listens. Default is
	// channel.DefaultLocalAddr.
	LocalAddr string

	// UserAgent is sent with every call.
	UserAgent string

	// Source, if set, is used instead of the one picked based on KeyFile.
	Source idtoken.Source

	// Channel, if set, is used to build channels. LocalAddr and UserAgent are
	// ignored then.
	Channel *channel.Builder
}

// Session is an open channel.
type Session struct {
	// Conn is the channel to the service.
	Conn *grpc.ClientConn
	// Target is the remote service, or nil if the session is local.
	Target *channel.Target
	// Credential is the identity token attached to calls, or nil if the session
	// is local.
	Credential *idtoken.Credential
}

// Open mints an identity token for the target and dials it.
//
// Errors are tagged with the stage that failed.
func Open(ctx context.Context, cfg *Config) (*Session, error) {
	b := cfg.Channel
	if b == nil {
		b = &channel.Builder{
			UserAgent: cfg.UserAgent,
			LocalAddr: cfg.LocalAddr,
		}
	}

	if cfg.TargetURL == "" {
		if !cfg.AllowLocal {
			return nil, errs.InStage(errs.StageChannel, fmt.Errorf("%w: a service URL is required", errs.ErrChannelConfig))
		}
		conn, err := b.DialLocal(ctx)
		if err != nil {
			return nil, errs.InStage(errs.StageChannel, err)
		}
		return &Session{Conn: conn}, nil
	}

	target, err := channel.ParseTarget(cfg.TargetURL)
	if err != nil {
		return nil, errs.InStage(errs.StageChannel, err)
	}

	src := cfg.Source
	if src == nil {
		src = idtoken.NewSource(idtoken.Options{KeyFile: cfg.KeyFile})
	}
	cred, err := idtoken.Get(ctx, src, target.Audience(), cfg.AuthTimeout)
	if err != nil {
		return nil, errs.InStage(errs.StageCredential, err)
	}

	conn, err := b.Dial(ctx, target, idtoken.PerRPCCredentials(cred))
	if err != nil {
		return nil, errs.InStage(errs.StageChannel, err)
	}
	return &Session{Conn: conn, Target: target, Credential: cred}, nil
}

// Close closes the channel.
func (s *Session) Close() error {
	return s.Conn.Close()
}
