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

// Package assertions has goconvey assertions for errors returned by this
// module.
package assertions

import (
	"errors"
	"fmt"

	"github.com/smarty/assertions"
)

// ShouldErrLike compares an `error` or `string` on the left side, to an `error`
// or `string` on the right side.
//
// If the righthand side is omitted, this expects `actual` to be nil.
//
// Example:
//
//	So(err, ShouldErrLike, "custom")    // `err.Error()` ShouldContainSubstring "custom"
//	So(err, ShouldErrLike, io.EOF)      // `err.Error()` ShouldContainSubstring io.EOF.Error()
//	So(nilErr, ShouldErrLike)           // nilErr ShouldBeNil
func ShouldErrLike(actual any, expected ...any) string {
	if len(expected) == 0 || (len(expected) == 1 && expected[0] == nil) {
		return assertions.ShouldBeNil(actual)
	}
	if len(expected) != 1 {
		return fmt.Sprintf("ShouldErrLike requires 0 or 1 expected value, got %d", len(expected))
	}
	if actual == nil {
		return assertions.ShouldNotBeNil(actual)
	}
	ae, ok := actual.(error)
	if !ok {
		return assertions.ShouldImplement(actual, (*error)(nil))
	}
	switch x := expected[0].(type) {
	case string:
		return assertions.ShouldContainSubstring(ae.Error(), x)
	case error:
		return assertions.ShouldContainSubstring(ae.Error(), x.Error())
	}
	return fmt.Sprintf("unexpected argument type %T, expected string or error", expected[0])
}

// ShouldWrap asserts that errors.Is(actual, expected[0]) holds.
func ShouldWrap(actual any, expected ...any) string {
	if len(expected) != 1 {
		return fmt.Sprintf("ShouldWrap requires exactly one expected value, got %d", len(expected))
	}
	target, ok := expected[0].(error)
	if !ok {
		return fmt.Sprintf("ShouldWrap requires an error expected type, got %T", expected[0])
	}
	if actual == nil {
		return fmt.Sprintf("expected an error wrapping %q, got nil", target)
	}
	ae, ok := actual.(error)
	if !ok {
		return assertions.ShouldImplement(actual, (*error)(nil))
	}
	if !errors.Is(ae, target) {
		return fmt.Sprintf("expected %q to wrap %q", ae, target)
	}
	return ""
}

// ShouldPanicLike is the same as ShouldErrLike, but with the exception that it
// takes a panic'ing func() as its first argument, instead of the error itself.
func ShouldPanicLike(function any, expected ...any) (ret string) {
	f, ok := function.(func())
	if !ok {
		return fmt.Sprintf("unexpected argument type %T, expected `func()`", function)
	}
	defer func() {
		r := recover()
		if s, ok := r.(string); ok {
			r = errors.New(s)
		}
		ret = ShouldErrLike(r, expected...)
	}()
	f()
	return ShouldErrLike(nil, expected...)
}
