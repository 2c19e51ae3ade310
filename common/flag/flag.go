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

// Package flag has flag.Value implementations missing from the standard
// library.
package flag

import (
	"errors"
	"flag"
	"strconv"
	"strings"
)

// stringSliceFlag is a flag.Getter implementation representing a []string.
type stringSliceFlag []string

// String returns a comma-separated string representation of the flag values.
func (f stringSliceFlag) String() string {
	return strings.Join(f, ", ")
}

// Set records seeing a flag value.
func (f *stringSliceFlag) Set(val string) error {
	*f = append(*f, val)
	return nil
}

// Get retrieves the flag value.
func (f stringSliceFlag) Get() any {
	return []string(f)
}

// StringSlice returns a flag.Getter which reads flags into the given []string
// pointer.
//
// Each occurrence of the flag appends one value, in command line order.
func StringSlice(s *[]string) flag.Getter {
	return (*stringSliceFlag)(s)
}

// optionalInt64Flag is a flag.Getter that remembers whether it was set.
type optionalInt64Flag struct {
	p **int64
}

// String returns the value, or an empty string if the flag is unset.
func (f optionalInt64Flag) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return strconv.FormatInt(**f.p, 10)
}

// Set records seeing a flag value.
func (f optionalInt64Flag) Set(val string) error {
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return errors.New("value must be a 64-bit integer")
	}
	*f.p = &i
	return nil
}

// Get retrieves the flag value, a *int64 that is nil if the flag is unset.
func (f optionalInt64Flag) Get() any {
	return *f.p
}

// OptionalInt64 returns a flag.Getter which sets the given pointer to a parsed
// value, leaving it nil if the flag is absent.
//
// Use it when "unset" and "zero" mean different things.
func OptionalInt64(p **int64) flag.Getter {
	return optionalInt64Flag{p}
}
