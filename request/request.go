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

// Package request assembles Load and Query requests from command line inputs.
package request

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/protocolbuffers/txtpbfmt/parser"
	"google.golang.org/protobuf/encoding/prototext"

	"go.chromium.org/arrowscan/api/scanpb"
	"go.chromium.org/arrowscan/api/seqrpb"
	"go.chromium.org/arrowscan/errs"
)

// maxLineLen is the longest identifier ReadLines accepts.
const maxLineLen = 1024 * 1024

// Mode is how identifiers were supplied.
type Mode int

const (
	// ModeIDs means identifiers were passed directly.
	ModeIDs Mode = iota + 1
	// ModeListFile means identifiers are read from a line-delimited file.
	ModeListFile
	// ModeDocFile means the whole request is a text-format document.
	ModeDocFile
)

// String is used in error messages.
func (m Mode) String() string {
	switch m {
	case ModeIDs:
		return "identifier list"
	case ModeListFile:
		return "list file"
	case ModeDocFile:
		return "request document"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Input is the raw request input.
//
// Exactly one of the fields must be set.
type Input struct {
	IDs      []string
	ListFile string
	DocFile  string
}

// Mode returns the only input source that is set.
func (in *Input) Mode() (Mode, error) {
	var set []Mode
	if len(in.IDs) > 0 {
		set = append(set, ModeIDs)
	}
	if in.ListFile != "" {
		set = append(set, ModeListFile)
	}
	if in.DocFile != "" {
		set = append(set, ModeDocFile)
	}
	switch len(set) {
	case 0:
		return 0, fmt.Errorf("%w: no identifiers given", errs.ErrRequestInput)
	case 1:
		return set[0], nil
	default:
		return 0, fmt.Errorf("%w: %s and %s are mutually exclusive", errs.ErrRequestInput, set[0], set[1])
	}
}

// ids resolves identifiers given directly or via a list file.
func (in *Input) ids(mode Mode) ([]string, error) {
	switch mode {
	case ModeIDs:
		return in.IDs, nil
	case ModeListFile:
		return ReadLines(in.ListFile)
	default:
		return nil, fmt.Errorf("%w: %s is not supported here", errs.ErrRequestInput, mode)
	}
}

// ReadLines reads one identifier per line.
//
// Each line is trimmed of surrounding whitespace. Lines that are empty after
// trimming are kept, so results line up with the file by index. A trailing
// newline doesn't add an entry.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrRequestInput, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(nil, maxLineLen)
	for sc.Scan() {
		out = append(out, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", errs.ErrRequestInput, path, err)
	}
	return out, nil
}

// ParseQueryDocument reads a text-format QueryRequest from a file.
func ParseQueryDocument(path string) (*seqrpb.QueryRequest, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrRequestInput, err)
	}
	req, err := ParseQueryText(blob)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// ParseQueryText parses a text-format QueryRequest.
func ParseQueryText(data []byte) (*seqrpb.QueryRequest, error) {
	m := seqrpb.NewQueryRequestMessage()
	if err := prototext.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrRequestParse, err)
	}
	return seqrpb.QueryRequestFromProto(m), nil
}

// LoadRequest builds a request for ScanService.Load.
//
// Load has no document form, only identifiers.
func LoadRequest(in *Input) (*scanpb.LoadRequest, error) {
	mode, err := in.Mode()
	if err != nil {
		return nil, err
	}
	paths, err := in.ids(mode)
	if err != nil {
		return nil, err
	}
	return &scanpb.LoadRequest{BlobPaths: paths}, nil
}

// QueryRequest builds a request for QueryService.Query.
//
// A non-nil maxResults overrides the bound of a request document. A nil one
// leaves the bound as is, which for identifier inputs means no bound.
func QueryRequest(in *Input, maxResults *int64) (*seqrpb.QueryRequest, error) {
	mode, err := in.Mode()
	if err != nil {
		return nil, err
	}

	var req *seqrpb.QueryRequest
	if mode == ModeDocFile {
		if req, err = ParseQueryDocument(in.DocFile); err != nil {
			return nil, err
		}
	} else {
		urls, err := in.ids(mode)
		if err != nil {
			return nil, err
		}
		req = &seqrpb.QueryRequest{ArrowURLs: urls}
	}

	if maxResults != nil {
		v := *maxResults
		req.MaxResults = &v
	}
	return req, nil
}

// FormatQuery renders the request in canonical text format.
func FormatQuery(req *seqrpb.QueryRequest) (string, error) {
	blob, err := prototext.MarshalOptions{Multiline: true}.Marshal(req.ToProto())
	if err != nil {
		return "", err
	}
	out, err := parser.Format(blob)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
