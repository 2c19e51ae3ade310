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

// Package load implements 'load' subcommand.
package load

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/maruel/subcommands"

	"go.chromium.org/arrowscan/api/scanpb"
	"go.chromium.org/arrowscan/cli/base"
	"go.chromium.org/arrowscan/common/cli"
	"go.chromium.org/arrowscan/common/flag"
	"go.chromium.org/arrowscan/common/logging"
	"go.chromium.org/arrowscan/decode"
	"go.chromium.org/arrowscan/errs"
	"go.chromium.org/arrowscan/request"
)

// Cmd is 'load' subcommand.
func Cmd(params base.Parameters) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "load -url URL (-blob-path PATH... | -blob-path-file FILE)",
		ShortDesc: "asks the scan service for sizes of blobs",
		LongDesc: `Asks the scan service for sizes of blobs.

Blobs are given either via one or more -blob-path flags or via a file with one
path per line. Prints "<path>: <size>" for every given path, in order.

Identity tokens are minted for the -url audience using the service account key
given via -service-account-json (or $GOOGLE_APPLICATION_CREDENTIALS), or using
the GCE metadata server otherwise.
`,
		CommandRun: func() subcommands.CommandRun {
			lr := &loadRun{}
			lr.Init(params)
			lr.AddServiceFlag(true)
			lr.Flags.Var(flag.StringSlice(&lr.in.IDs), "blob-path", "A blob to get the size of. Can be used multiple times.")
			lr.Flags.StringVar(&lr.in.ListFile, "blob-path-file", "", "A file with blob paths, one per line.")
			lr.Flags.BoolVar(&lr.human, "human", false, "Print sizes in a human readable form.")
			return lr
		},
	}
}

type loadRun struct {
	base.Subcommand

	in    request.Input
	human bool
}

type blobSize struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

type loadResult struct {
	Blobs []blobSize `json:"blobs"`
}

func (lr *loadRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	lr.Start(a, env)
	if !lr.CheckArgs(args, 0, 0) {
		return 1
	}
	ctx := cli.GetContext(a, lr, env)
	return lr.Done(lr.run(ctx))
}

func (lr *loadRun) run(ctx context.Context) (*loadResult, error) {
	if err := base.ExpandPath(&lr.in.ListFile); err != nil {
		return nil, errs.InStage(errs.StageRequest, fmt.Errorf("%w: %w", errs.ErrRequestInput, err))
	}
	req, err := request.LoadRequest(&lr.in)
	if err != nil {
		return nil, errs.InStage(errs.StageRequest, err)
	}

	s, err := lr.OpenSession(ctx, false)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var resp *scanpb.LoadResponse
	err = lr.Invoke(ctx, scanpb.ScanService_Load_FullMethodName, func(ctx context.Context) (err error) {
		resp, err = scanpb.NewScanServiceClient(s.Conn).Load(ctx, req)
		return
	})
	if err != nil {
		return nil, err
	}

	pairs, err := decode.PairSizes(req.BlobPaths, resp.GetBlobSizes())
	if err != nil {
		return nil, errs.InStage(errs.StageDecode, err)
	}
	logging.Debugf(ctx, "Got sizes of %d blobs", len(pairs))

	res := &loadResult{Blobs: make([]blobSize, len(pairs))}
	for i, p := range pairs {
		res.Blobs[i] = blobSize{Path: p.ID, Size: p.Value}
	}
	lr.print(lr.Out(), res)
	return res, nil
}

func (lr *loadRun) print(w io.Writer, res *loadResult) {
	for _, b := range res.Blobs {
		if lr.human && b.Size >= 0 {
			fmt.Fprintf(w, "%s: %s\n", b.Path, humanize.IBytes(uint64(b.Size)))
		} else {
			fmt.Fprintf(w, "%s: %d\n", b.Path, b.Size)
		}
	}
}
