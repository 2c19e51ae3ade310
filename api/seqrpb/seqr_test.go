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

package seqrpb

import (
	"context"
	"net"
	"os"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"

	"go.chromium.org/arrowscan/api/internal/descutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQueryRequest(t *testing.T) {
	t.Parallel()

	Convey("max_results presence", t, func() {
		Convey("unset is not encoded", func() {
			blob, err := proto.Marshal((&QueryRequest{ArrowURLs: []string{"u"}}).ToProto())
			So(err, ShouldBeNil)
			So(blob, ShouldResemble, []byte{0x0a, 0x01, 'u'})

			m := NewQueryRequestMessage()
			So(proto.Unmarshal(blob, m), ShouldBeNil)
			So(QueryRequestFromProto(m).HasMaxResults(), ShouldBeFalse)
		})

		Convey("zero is encoded and survives decoding", func() {
			zero := int64(0)
			blob, err := proto.Marshal((&QueryRequest{MaxResults: &zero}).ToProto())
			So(err, ShouldBeNil)
			So(blob, ShouldResemble, []byte{0x10, 0x00})

			m := NewQueryRequestMessage()
			So(proto.Unmarshal(blob, m), ShouldBeNil)
			got := QueryRequestFromProto(m)
			So(got.HasMaxResults(), ShouldBeTrue)
			So(*got.MaxResults, ShouldEqual, 0)
		})
	})

	Convey("Text format", t, func() {
		m := NewQueryRequestMessage()
		So(prototext.Unmarshal([]byte(`arrow_urls: "gs://a/1" arrow_urls: "gs://a/2" max_results: 7`), m), ShouldBeNil)
		req := QueryRequestFromProto(m)
		So(req.ArrowURLs, ShouldResemble, []string{"gs://a/1", "gs://a/2"})
		So(*req.MaxResults, ShouldEqual, 7)
	})
}

func TestQueryResponse(t *testing.T) {
	t.Parallel()

	Convey("Counts variant", t, func() {
		blob, err := proto.Marshal((&QueryResponse{NumRows: []int64{1, 2, 3}}).ToProto())
		So(err, ShouldBeNil)
		m := NewQueryResponseMessage()
		So(proto.Unmarshal(blob, m), ShouldBeNil)
		So(QueryResponseFromProto(m), ShouldResemble, &QueryResponse{NumRows: []int64{1, 2, 3}})
	})

	Convey("Table variant with a scalar num_rows on the wire", t, func() {
		// num_rows = 5 as a plain varint, record_batches = "xyz".
		blob := []byte{0x08, 0x05, 0x12, 0x03, 'x', 'y', 'z'}
		m := NewQueryResponseMessage()
		So(proto.Unmarshal(blob, m), ShouldBeNil)
		So(QueryResponseFromProto(m), ShouldResemble, &QueryResponse{
			NumRows:       []int64{5},
			RecordBatches: []byte("xyz"),
		})
	})
}

type countingServer struct {
	UnimplementedQueryServiceServer
	got *QueryRequest
}

func (s *countingServer) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	s.got = req
	resp := &QueryResponse{}
	for range req.ArrowURLs {
		resp.NumRows = append(resp.NumRows, 4)
	}
	return resp, nil
}

func TestService(t *testing.T) {
	t.Parallel()

	Convey("Query round trips", t, func() {
		lis := bufconn.Listen(1024 * 1024)
		impl := &countingServer{}
		srv := grpc.NewServer()
		RegisterQueryServiceServer(srv, impl)
		go func() { _ = srv.Serve(lis) }()
		defer srv.Stop()

		conn, err := grpc.NewClient("passthrough:///bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		So(err, ShouldBeNil)
		defer conn.Close()

		zero := int64(0)
		resp, err := NewQueryServiceClient(conn).Query(context.Background(), &QueryRequest{
			ArrowURLs:  []string{"a", "b"},
			MaxResults: &zero,
		})
		So(err, ShouldBeNil)
		So(resp.NumRows, ShouldResemble, []int64{4, 4})
		So(impl.got.HasMaxResults(), ShouldBeTrue)
		So(*impl.got.MaxResults, ShouldEqual, 0)
	})
}

func TestSchema(t *testing.T) {
	t.Parallel()

	Convey("Descriptors match seqr_query_service.proto", t, func() {
		src, err := os.ReadFile("seqr_query_service.proto")
		So(err, ShouldBeNil)
		So(descutil.Outline(File_seqr_query_service_proto), ShouldResemble, descutil.OutlineSource(src))
	})
}
