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

// Package errs defines errors returned by the scan and query pipeline.
//
// All errors are terminal for the current invocation. Nothing in this module
// retries them: whether a failure is transient (e.g. clock skew) or permanent
// (e.g. a revoked key) depends on context only the caller has.
//
// Classification is done with errors.Is against the sentinels below, or with
// errors.As against the typed contract errors.
package errs

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

var (
	// ErrAuthConfig means there is no usable credential source.
	ErrAuthConfig = errors.New("no usable credential source")

	// ErrAuthRefresh means the identity token exchange was rejected or timed
	// out.
	ErrAuthRefresh = errors.New("identity token refresh failed")

	// ErrChannelConfig means the target endpoint is not usable for dialing.
	ErrChannelConfig = errors.New("bad target endpoint")

	// ErrRequestInput means the request inputs are missing or conflicting.
	ErrRequestInput = errors.New("bad request input")

	// ErrRequestParse means a structured request document doesn't conform to
	// the request schema.
	ErrRequestParse = errors.New("malformed request document")

	// ErrRPCUnavailable means the RPC failed on the transport level.
	ErrRPCUnavailable = errors.New("service unavailable")

	// ErrRPCDeadline means the RPC didn't finish before its deadline.
	ErrRPCDeadline = errors.New("deadline exceeded")

	// ErrMalformedTable means the response payload is not a valid Arrow IPC
	// file.
	ErrMalformedTable = errors.New("malformed table payload")

	// ErrMalformedResponse means the response doesn't match any known response
	// shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// RPCStatusError is a non-OK application-level status returned by the remote
// service.
type RPCStatusError struct {
	Method  string
	Code    codes.Code
	Message string
}

// Error is part of error interface.
func (e *RPCStatusError) Error() string {
	return fmt.Sprintf("%s: rpc error: code = %s desc = %s", e.Method, e.Code, e.Message)
}

// RowCountMismatchError is returned when the decoded table has a different
// number of rows than the response declared.
//
// Usually this means the client and the service disagree about the schema.
type RowCountMismatchError struct {
	Declared     int64
	Materialized int64
}

// Error is part of error interface.
func (e *RowCountMismatchError) Error() string {
	return fmt.Sprintf("response declares %d rows, but the decoded table has %d", e.Declared, e.Materialized)
}

// ResponseLengthMismatchError is returned when a positional result list has a
// different length than the identifier list of the request.
type ResponseLengthMismatchError struct {
	Requested int
	Returned  int
}

// Error is part of error interface.
func (e *ResponseLengthMismatchError) Error() string {
	return fmt.Sprintf("requested %d entries, but the response has %d results", e.Requested, e.Returned)
}
