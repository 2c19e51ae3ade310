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

// Package decode interprets responses of the scan and query services.
package decode

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
	"github.com/apache/arrow/go/v15/arrow/ipc"
	"github.com/apache/arrow/go/v15/arrow/memory"
	"github.com/jonboulle/clockwork"

	"go.chromium.org/arrowscan/api/seqrpb"
	"go.chromium.org/arrowscan/common/logging"
	"go.chromium.org/arrowscan/errs"
)

// Pair is a requested identifier and its result.
type Pair struct {
	ID    string
	Value int64
}

// PairSizes matches blob paths with the sizes reported for them.
//
// Sizes are positional. A list of a different length is rejected, never
// truncated.
func PairSizes(paths []string, sizes []int64) ([]Pair, error) {
	return pair(paths, sizes)
}

// PairCounts matches Arrow URLs with the row counts reported for them.
func PairCounts(urls []string, counts []int64) ([]Pair, error) {
	return pair(urls, counts)
}

func pair(ids []string, vals []int64) ([]Pair, error) {
	if len(ids) != len(vals) {
		return nil, &errs.ResponseLengthMismatchError{
			Requested: len(ids),
			Returned:  len(vals),
		}
	}
	out := make([]Pair, len(ids))
	for i, id := range ids {
		out[i] = Pair{ID: id, Value: vals[i]}
	}
	return out, nil
}

// Decoder decodes Arrow payloads.
//
// The zero value uses the Go allocator and the real clock.
type Decoder struct {
	// Mem allocates decoded buffers.
	Mem memory.Allocator
	// Clock times deserialization.
	Clock clockwork.Clock
	// MaxAlloc caps the bytes allocated while decoding one payload.
	//
	// Zero means DefaultAllocFactor times the payload size plus
	// DefaultAllocSlack.
	MaxAlloc int64
}

func (d *Decoder) mem() memory.Allocator {
	if d.Mem != nil {
		return d.Mem
	}
	return memory.DefaultAllocator
}

func (d *Decoder) allocLimit(payload int) int64 {
	if d.MaxAlloc > 0 {
		return d.MaxAlloc
	}
	return DefaultAllocFactor*int64(payload) + DefaultAllocSlack
}

func (d *Decoder) clock() clockwork.Clock {
	if d.Clock != nil {
		return d.Clock
	}
	return clockwork.NewRealClock()
}

// Table reads an Arrow IPC file into a single table.
//
// The table must have exactly `declared` rows. The caller must release the
// returned table.
func (d *Decoder) Table(ctx context.Context, payload []byte, declared int64) (arrow.Table, error) {
	tbl, _, err := d.table(ctx, payload, declared)
	return tbl, err
}

func (d *Decoder) table(ctx context.Context, payload []byte, declared int64) (tbl arrow.Table, took time.Duration, err error) {
	if len(payload) == 0 {
		return nil, 0, fmt.Errorf("%w: empty payload", errs.ErrMalformedTable)
	}

	// The IPC reader trusts offsets in the payload and may panic on garbage,
	// including when mem refuses an oversized buffer. It may also leak buffers
	// when it fails.
	mem := newBoundedAllocator(d.mem(), d.allocLimit(len(payload)))
	defer func() {
		if r := recover(); r != nil {
			if tbl != nil {
				tbl.Release()
			}
			tbl, err = nil, fmt.Errorf("%w: %v", errs.ErrMalformedTable, r)
		}
		if err != nil {
			mem.freeAll()
		}
	}()

	clk := d.clock()
	started := clk.Now()

	rdr, err := ipc.NewFileReader(bytes.NewReader(payload), ipc.WithAllocator(mem))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errs.ErrMalformedTable, err)
	}
	defer rdr.Close()

	recs := make([]arrow.Record, 0, rdr.NumRecords())
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	for i := 0; i < rdr.NumRecords(); i++ {
		rec, err := rdr.Record(i)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: record batch %d: %w", errs.ErrMalformedTable, i, err)
		}
		// The reader reuses the record on the next call.
		rec.Retain()
		recs = append(recs, rec)
	}

	tbl = array.NewTableFromRecords(rdr.Schema(), recs)
	took = clk.Now().Sub(started)
	logging.Infof(ctx, "Table deserialization took %s", took)

	if tbl.NumRows() != declared {
		n := tbl.NumRows()
		tbl.Release()
		return nil, took, &errs.RowCountMismatchError{Declared: declared, Materialized: n}
	}
	return tbl, took, nil
}

// QueryResult is a decoded QueryResponse.
//
// Exactly one of Counts and Table is set.
type QueryResult struct {
	// Counts are per URL row counts, in request order.
	Counts []Pair
	// Table is the decoded table.
	Table arrow.Table
	// DecodeTime is how long decoding Table took.
	DecodeTime time.Duration
}

// Release releases the table, if any.
func (r *QueryResult) Release() {
	if r != nil && r.Table != nil {
		r.Table.Release()
		r.Table = nil
	}
}

// Query decodes a response to a request for the given URLs.
//
// A response with a payload carries a table and its declared row count. A
// response without one carries a row count per URL.
func (d *Decoder) Query(ctx context.Context, resp *seqrpb.QueryResponse, urls []string) (*QueryResult, error) {
	if len(resp.RecordBatches) == 0 {
		counts, err := PairCounts(urls, resp.NumRows)
		if err != nil {
			return nil, err
		}
		return &QueryResult{Counts: counts}, nil
	}

	// A zero row count is not on the wire at all.
	var declared int64
	switch len(resp.NumRows) {
	case 0:
	case 1:
		declared = resp.NumRows[0]
	default:
		return nil, fmt.Errorf("%w: a table response declares %d row counts, want one", errs.ErrMalformedResponse, len(resp.NumRows))
	}

	tbl, took, err := d.table(ctx, resp.RecordBatches, declared)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Table: tbl, DecodeTime: took}, nil
}
