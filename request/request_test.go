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

package request

import (
	"os"
	"path/filepath"
	"testing"

	"go.chromium.org/arrowscan/api/seqrpb"
	"go.chromium.org/arrowscan/errs"

	. "go.chromium.org/arrowscan/common/testing/assertions"

	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(dir, name, body string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0600); err != nil {
		panic(err)
	}
	return p
}

func i64(v int64) *int64 { return &v }

func TestMode(t *testing.T) {
	t.Parallel()

	Convey("Mode", t, func() {
		Convey("one source", func() {
			m, err := (&Input{IDs: []string{"a"}}).Mode()
			So(err, ShouldBeNil)
			So(m, ShouldEqual, ModeIDs)

			m, err = (&Input{ListFile: "f"}).Mode()
			So(err, ShouldBeNil)
			So(m, ShouldEqual, ModeListFile)

			m, err = (&Input{DocFile: "d"}).Mode()
			So(err, ShouldBeNil)
			So(m, ShouldEqual, ModeDocFile)
		})

		Convey("no sources", func() {
			_, err := (&Input{}).Mode()
			So(err, ShouldWrap, errs.ErrRequestInput)
		})

		Convey("many sources", func() {
			_, err := (&Input{IDs: []string{"a"}, ListFile: "f"}).Mode()
			So(err, ShouldWrap, errs.ErrRequestInput)
			So(err, ShouldErrLike, "identifier list and list file are mutually exclusive")

			_, err = (&Input{ListFile: "f", DocFile: "d"}).Mode()
			So(err, ShouldWrap, errs.ErrRequestInput)
		})
	})
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	Convey("ReadLines", t, func() {
		dir := t.TempDir()

		Convey("trims and keeps empty lines", func() {
			p := writeFile(dir, "list", "  gs://a/1 \n\ngs://a/2\t\n   \ngs://a/1\n")
			lines, err := ReadLines(p)
			So(err, ShouldBeNil)
			So(lines, ShouldResemble, []string{"gs://a/1", "", "gs://a/2", "", "gs://a/1"})
		})

		Convey("no trailing newline", func() {
			p := writeFile(dir, "list", "x\r\ny")
			lines, err := ReadLines(p)
			So(err, ShouldBeNil)
			So(lines, ShouldResemble, []string{"x", "y"})
		})

		Convey("empty file", func() {
			lines, err := ReadLines(writeFile(dir, "list", ""))
			So(err, ShouldBeNil)
			So(lines, ShouldHaveLength, 0)
		})

		Convey("missing file", func() {
			_, err := ReadLines(filepath.Join(dir, "missing"))
			So(err, ShouldWrap, errs.ErrRequestInput)
			So(err, ShouldWrap, os.ErrNotExist)
		})
	})
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	Convey("ParseQueryText", t, func() {
		Convey("full document", func() {
			req, err := ParseQueryText([]byte(`
				# comment
				arrow_urls: "gs://a/1.arrow"
				arrow_urls: "gs://a/2.arrow"
				max_results: 0
			`))
			So(err, ShouldBeNil)
			So(req.ArrowURLs, ShouldResemble, []string{"gs://a/1.arrow", "gs://a/2.arrow"})
			So(req.HasMaxResults(), ShouldBeTrue)
			So(*req.MaxResults, ShouldEqual, 0)
		})

		Convey("absent bound stays absent", func() {
			req, err := ParseQueryText([]byte(`arrow_urls: ["gs://a/1.arrow"]`))
			So(err, ShouldBeNil)
			So(req.HasMaxResults(), ShouldBeFalse)
		})

		Convey("unknown field", func() {
			_, err := ParseQueryText([]byte(`filter: "x"`))
			So(err, ShouldWrap, errs.ErrRequestParse)
		})

		Convey("wrong type", func() {
			_, err := ParseQueryText([]byte(`max_results: "ten"`))
			So(err, ShouldWrap, errs.ErrRequestParse)
		})
	})

	Convey("ParseQueryDocument", t, func() {
		dir := t.TempDir()

		Convey("names the file on errors", func() {
			p := writeFile(dir, "q.txtpb", `arrow_urls: 1`)
			_, err := ParseQueryDocument(p)
			So(err, ShouldWrap, errs.ErrRequestParse)
			So(err, ShouldErrLike, p)
		})

		Convey("missing file", func() {
			_, err := ParseQueryDocument(filepath.Join(dir, "missing"))
			So(err, ShouldWrap, errs.ErrRequestInput)
		})
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	Convey("LoadRequest", t, func() {
		dir := t.TempDir()

		Convey("from identifiers", func() {
			req, err := LoadRequest(&Input{IDs: []string{"gs://a/1", "gs://a/1"}})
			So(err, ShouldBeNil)
			So(req.BlobPaths, ShouldResemble, []string{"gs://a/1", "gs://a/1"})
		})

		Convey("from a list file", func() {
			req, err := LoadRequest(&Input{ListFile: writeFile(dir, "l", "gs://a/1\ngs://a/2\n")})
			So(err, ShouldBeNil)
			So(req.BlobPaths, ShouldResemble, []string{"gs://a/1", "gs://a/2"})
		})

		Convey("documents are not supported", func() {
			_, err := LoadRequest(&Input{DocFile: writeFile(dir, "d", "")})
			So(err, ShouldWrap, errs.ErrRequestInput)
		})
	})

	Convey("QueryRequest", t, func() {
		dir := t.TempDir()

		Convey("no bound", func() {
			req, err := QueryRequest(&Input{IDs: []string{"gs://a/1.arrow"}}, nil)
			So(err, ShouldBeNil)
			So(req.HasMaxResults(), ShouldBeFalse)
		})

		Convey("zero bound", func() {
			req, err := QueryRequest(&Input{IDs: []string{"gs://a/1.arrow"}}, i64(0))
			So(err, ShouldBeNil)
			So(req.HasMaxResults(), ShouldBeTrue)
			So(*req.MaxResults, ShouldEqual, 0)
		})

		Convey("document bound is kept", func() {
			p := writeFile(dir, "q", "arrow_urls: \"gs://a/1.arrow\"\nmax_results: 7\n")
			req, err := QueryRequest(&Input{DocFile: p}, nil)
			So(err, ShouldBeNil)
			So(*req.MaxResults, ShouldEqual, 7)
		})

		Convey("explicit bound overrides the document", func() {
			p := writeFile(dir, "q", "arrow_urls: \"gs://a/1.arrow\"\nmax_results: 7\n")
			req, err := QueryRequest(&Input{DocFile: p}, i64(2))
			So(err, ShouldBeNil)
			So(*req.MaxResults, ShouldEqual, 2)
		})

		Convey("bad input", func() {
			_, err := QueryRequest(&Input{}, nil)
			So(err, ShouldWrap, errs.ErrRequestInput)
		})
	})
}

func TestFormatQuery(t *testing.T) {
	t.Parallel()

	Convey("FormatQuery round trips", t, func() {
		in := &seqrpb.QueryRequest{
			ArrowURLs:  []string{"gs://a/1.arrow", "gs://a/2.arrow"},
			MaxResults: i64(0),
		}
		txt, err := FormatQuery(in)
		So(err, ShouldBeNil)
		So(txt, ShouldContainSubstring, `arrow_urls: "gs://a/1.arrow"`)
		So(txt, ShouldContainSubstring, `max_results: 0`)

		out, err := ParseQueryText([]byte(txt))
		So(err, ShouldBeNil)
		So(out, ShouldResemble, in)
	})
}
