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

package flag

import (
	"flag"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStringSlice(t *testing.T) {
	t.Parallel()

	Convey("one", t, func() {
		var s []string
		f := StringSlice(&s)
		So(f.Set("abc"), ShouldBeNil)
		So(s, ShouldResemble, []string{"abc"})
		So(f.String(), ShouldEqual, "abc")
	})

	Convey("many, duplicates kept", t, func() {
		var s []string
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.Var(StringSlice(&s), "v", "")
		So(fs.Parse([]string{"-v", "abc", "-v", "def", "-v", "abc"}), ShouldBeNil)
		So(s, ShouldResemble, []string{"abc", "def", "abc"})
		So(StringSlice(&s).Get(), ShouldResemble, []string{"abc", "def", "abc"})
	})
}

func TestOptionalInt64(t *testing.T) {
	t.Parallel()

	Convey("With a flag set", t, func() {
		var p *int64
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.Var(OptionalInt64(&p), "n", "")

		Convey("absent", func() {
			So(fs.Parse(nil), ShouldBeNil)
			So(p, ShouldBeNil)
			So(OptionalInt64(&p).String(), ShouldEqual, "")
		})

		Convey("zero", func() {
			So(fs.Parse([]string{"-n", "0"}), ShouldBeNil)
			So(p, ShouldNotBeNil)
			So(*p, ShouldEqual, 0)
			So(OptionalInt64(&p).String(), ShouldEqual, "0")
		})

		Convey("negative", func() {
			So(fs.Parse([]string{"-n=-5"}), ShouldBeNil)
			So(*p, ShouldEqual, -5)
		})

		Convey("not a number", func() {
			So(fs.Parse([]string{"-n", "ten"}), ShouldNotBeNil)
			So(p, ShouldBeNil)
		})
	})
}
