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

package logging

import (
	"context"
	"flag"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	Convey("Level flag", t, func() {
		var cfg Config
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		cfg.AddFlags(fs)

		Convey("parses known levels", func() {
			So(fs.Parse([]string{"-log-level", "warning"}), ShouldBeNil)
			So(cfg.Level, ShouldEqual, Warning)

			ctx := cfg.Set(context.Background())
			So(GetLevel(ctx), ShouldEqual, Warning)
			So(IsLogging(ctx, Info), ShouldBeFalse)
			So(IsLogging(ctx, Error), ShouldBeTrue)
		})

		Convey("rejects unknown levels", func() {
			fs.SetOutput(discard{})
			So(fs.Parse([]string{"-log-level", "chatty"}), ShouldNotBeNil)
		})

		Convey("stringifies", func() {
			So(Debug.String(), ShouldEqual, "debug")
			So(Level(42).String(), ShouldEqual, "level(42)")
		})
	})

	Convey("Default level is Info", t, func() {
		So(GetLevel(context.Background()), ShouldEqual, Info)
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
