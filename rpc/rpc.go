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

// Package rpc performs unary calls to the scan and query services.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"go.chromium.org/arrowscan/common/logging"
	"go.chromium.org/arrowscan/errs"
)

const (
	// DefaultTimeout is the deadline of a call if Options.Timeout is zero.
	DefaultTimeout = 5 * time.Minute

	// RequestIDHeader is the metadata key that carries a unique ID of the call.
	RequestIDHeader = "x-request-id"
)

// Options control a single call.
type Options struct {
	// Timeout is the deadline of the call. Default is DefaultTimeout.
	Timeout time.Duration
}

// Invoke runs one call with a deadline and a fresh request ID.
//
// The call is never retried. Errors are converted to the errs package types:
//   - codes.Unavailable wraps errs.ErrRPCUnavailable;
//   - codes.DeadlineExceeded and expiry of the local deadline wrap
//     errs.ErrRPCDeadline;
//   - any other status becomes *errs.RPCStatusError.
//
// Errors that don't carry a gRPC status are returned as is.
func Invoke(ctx context.Context, opts Options, method string, call func(ctx context.Context) error) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqID := uuid.NewString()
	ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, reqID)

	logging.Debugf(ctx, "Calling %s (request %s, timeout %s)", method, reqID, timeout)
	started := time.Now()
	err := call(ctx)
	if err == nil {
		logging.Debugf(ctx, "%s done in %s", method, time.Since(started))
		return nil
	}
	err = convert(ctx, method, err)
	logging.Errorf(ctx, "%s failed (request %s): %s", method, reqID, err)
	return err
}

func convert(ctx context.Context, method string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s: %w", errs.ErrRPCDeadline, method, err)
		}
		return err
	}
	switch st.Code() {
	case codes.Unavailable:
		return fmt.Errorf("%w: %s: %s", errs.ErrRPCUnavailable, method, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s: %s", errs.ErrRPCDeadline, method, st.Message())
	case codes.Canceled:
		// The client library reports some local deadline expirations this way.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s: %s", errs.ErrRPCDeadline, method, st.Message())
		}
	}
	return &errs.RPCStatusError{
		Method:  method,
		Code:    st.Code(),
		Message: st.Message(),
	}
}
