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

package errs

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStage(t *testing.T) {
	t.Parallel()

	Convey("InStage", t, func() {
		Convey("nil stays nil", func() {
			So(InStage(StageRPC, nil), ShouldBeNil)
		})

		Convey("untagged errors have no stage", func() {
			So(StageOf(errors.New("boom")), ShouldEqual, StageUnknown)
			So(StageOf(nil), ShouldEqual, StageUnknown)
		})

		Convey("stage survives wrapping", func() {
			err := fmt.Errorf("outer: %w", InStage(StageCredential, ErrAuthRefresh))
			So(StageOf(err), ShouldEqual, StageCredential)
			So(errors.Is(err, ErrAuthRefresh), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "outer: identity token refresh failed")
		})

		Convey("innermost stage wins", func() {
			err := InStage(StageRPC, fmt.Errorf("wrap: %w", InStage(StageDecode, ErrMalformedTable)))
			So(StageOf(err), ShouldEqual, StageDecode)
		})

		Convey("stage is found behind any of several wrapped errors", func() {
			err := fmt.Errorf("%w: %w", ErrAuthConfig, InStage(StageCredential, errors.New("no HOME")))
			So(StageOf(err), ShouldEqual, StageCredential)
			So(errors.Is(err, ErrAuthConfig), ShouldBeTrue)

			err = InStage(StageRPC, errors.Join(errors.New("a"), InStage(StageDecode, errors.New("b"))))
			So(StageOf(err), ShouldEqual, StageDecode)
		})
	})
}

func TestTypedErrors(t *testing.T) {
	t.Parallel()

	Convey("Typed errors are discoverable through wrapping", t, func() {
		err := fmt.Errorf("decoding: %w", &RowCountMismatchError{Declared: 3, Materialized: 2})
		var rc *RowCountMismatchError
		So(errors.As(err, &rc), ShouldBeTrue)
		So(rc.Declared, ShouldEqual, 3)
		So(err.Error(), ShouldEqual, "decoding: response declares 3 rows, but the decoded table has 2")

		err = &ResponseLengthMismatchError{Requested: 2, Returned: 1}
		So(err.Error(), ShouldEqual, "requested 2 entries, but the response has 1 results")

		err = &RPCStatusError{Method: "/scan.ScanService/Load", Code: codes.Unauthenticated, Message: "bad audience"}
		So(err.Error(), ShouldEqual, "/scan.ScanService/Load: rpc error: code = Unauthenticated desc = bad audience")
	})
}
