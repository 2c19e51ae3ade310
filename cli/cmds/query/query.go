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

// Package query implements 'query' subcommand.
package query

import (
	"context"
	"fmt"

	"github.com/maruel/subcommands"

	"go.chromium.org/arrowscan/api/seqrpb"
	"go.chromium.org/arrowscan/cli/base"
	"go.chromium.org/arrowscan/common/cli"
	"go.chromium.org/arrowscan/common/flag"
	"go.chromium.org/arrowscan/errs"
	"go.chromium.org/arrowscan/request"
)

// Cmd is 'query' subcommand.
func Cmd(params base.Parameters) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "query [-url URL] (-query-file FILE | -arrow-url URL... | -arrow-url-file FILE)",
		ShortDesc: "runs a query over Arrow files",
		LongDesc: `Runs a query over Arrow files.

The request is either a text-format QueryRequest (-query-file) or is built
from one or more -arrow-url flags or a file with one URL per line, plus an
optional -max-results bound. -max-results 0 is a bound of zero, not "no bound".

Depending on the deployment, the service responds either with a row count per
URL, printed as "<url>: <rows>", or with a single table, whose row count is
printed as "number of rows: <rows>".

Without -url, connects to the service running locally on localhost:8080,
without authentication.
`,
		CommandRun: func() subcommands.CommandRun {
			qr := &queryRun{}
			qr.Init(params)
			qr.AddServiceFlag(false)
			qr.Flags.StringVar(&qr.in.DocFile, "query-file", "", "A text-format QueryRequest to send.")
			qr.Flags.Var(flag.StringSlice(&qr.in.IDs), "arrow-url", "An Arrow file to query. Can be used multiple times.")
			qr.Flags.StringVar(&qr.in.ListFile, "arrow-url-file", "", "A file with Arrow file URLs, one per line.")
			qr.Flags.Var(flag.OptionalInt64(&qr.maxResults), "max-results", "Maximum number of results to return. Overrides the one in -query-file.")
			qr.Flags.BoolVar(&qr.dryRun, "dry-run", false, "Print the request instead of sending it.")
			qr.Flags.BoolVar(&qr.printSchema, "print-schema", false, "Print the schema of the returned table.")
			return qr
		},
	}
}

type queryRun struct {
	base.Subcommand

	in          request.Input
	maxResults  *int64
	dryRun      bool
	printSchema bool
}

type urlCount struct {
	URL  string `json:"url"`
	Rows int64  `json:"rows"`
}

type queryResult struct {
	// Request is the text-format request, if -dry-run was used.
	Request string `json:"request,omitempty"`
	// Counts are per URL row counts, if the service returned them.
	Counts []urlCount `json:"counts,omitempty"`
	// NumRows is the size of the returned table, if the service returned one.
	NumRows *int64 `json:"num_rows,omitempty"`
	// Schema is the schema of the returned table.
	Schema string `json:"schema,omitempty"`
}

func (qr *queryRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	qr.Start(a, env)
	if !qr.CheckArgs(args, 0, 0) {
		return 1
	}
	ctx := cli.GetContext(a, qr, env)
	return qr.Done(qr.run(ctx))
}

func (qr *queryRun) run(ctx context.Context) (*queryResult, error) {
	for _, p := range []*string{&qr.in.ListFile, &qr.in.DocFile} {
		if err := base.ExpandPath(p); err != nil {
			return nil, errs.InStage(errs.StageRequest, fmt.Errorf("%w: %w", errs.ErrRequestInput, err))
		}
	}
	req, err := request.QueryRequest(&qr.in, qr.maxResults)
	if err != nil {
		return nil, errs.InStage(errs.StageRequest, err)
	}

	if qr.dryRun {
		txt, err := request.FormatQuery(req)
		if err != nil {
			return nil, errs.InStage(errs.StageRequest, err)
		}
		fmt.Fprint(qr.Out(), txt)
		return &queryResult{Request: txt}, nil
	}

	s, err := qr.OpenSession(ctx, true)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var resp *seqrpb.QueryResponse
	err = qr.Invoke(ctx, seqrpb.QueryService_Query_FullMethodName, func(ctx context.Context) (err error) {
		resp, err = seqrpb.NewQueryServiceClient(s.Conn).Query(ctx, req)
		return
	})
	if err != nil {
		return nil, err
	}

	dec, err := qr.Decoder().Query(ctx, resp, req.ArrowURLs)
	if err != nil {
		return nil, errs.InStage(errs.StageDecode, err)
	}
	defer dec.Release()

	res := &queryResult{}
	out := qr.Out()
	if dec.Table == nil {
		res.Counts = make([]urlCount, len(dec.Counts))
		for i, p := range dec.Counts {
			res.Counts[i] = urlCount{URL: p.ID, Rows: p.Value}
			fmt.Fprintf(out, "%s: %d\n", p.ID, p.Value)
		}
		return res, nil
	}

	n := dec.Table.NumRows()
	res.NumRows = &n
	res.Schema = dec.Table.Schema().String()
	fmt.Fprintf(out, "number of rows: %d\n", n)
	if qr.printSchema {
		fmt.Fprintln(out, res.Schema)
	}
	return res, nil
}
