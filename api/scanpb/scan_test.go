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

package scanpb

import (
	"context"
	"net"
	"os"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"

	"go.chromium.org/arrowscan/api/internal/descutil"

	. "github.com/smartystreets/goconvey/convey"
)

type echoSizes struct {
	UnimplementedScanServiceServer
}

func (echoSizes) Load(ctx context.Context, req *LoadRequest) (*LoadResponse, error) {
	if len(req.BlobPaths) == 0 {
		return nil, status.Error(codes.InvalidArgument, "no blob paths")
	}
	resp := &LoadResponse{}
	for _, p := range req.BlobPaths {
		resp.BlobSizes = append(resp.BlobSizes, int64(len(p)))
	}
	return resp, nil
}

func TestWireFormat(t *testing.T) {
	t.Parallel()

	Convey("LoadRequest encodes as field 1 strings", t, func() {
		blob, err := proto.Marshal((&LoadRequest{BlobPaths: []string{"a", "bc"}}).ToProto())
		So(err, ShouldBeNil)
		So(blob, ShouldResemble, []byte{0x0a, 0x01, 'a', 0x0a, 0x02, 'b', 'c'})

		m := NewLoadRequestMessage()
		So(proto.Unmarshal(blob, m), ShouldBeNil)
		So(LoadRequestFromProto(m), ShouldResemble, &LoadRequest{BlobPaths: []string{"a", "bc"}})
	})

	Convey("LoadResponse encodes as packed int64", t, func() {
		blob, err := proto.Marshal((&LoadResponse{BlobSizes: []int64{10, 20}}).ToProto())
		So(err, ShouldBeNil)
		So(blob, ShouldResemble, []byte{0x0a, 0x02, 10, 20})

		m := NewLoadResponseMessage()
		So(proto.Unmarshal(blob, m), ShouldBeNil)
		So(LoadResponseFromProto(m).BlobSizes, ShouldResemble, []int64{10, 20})
	})

	Convey("Unpacked sizes decode too", t, func() {
		m := NewLoadResponseMessage()
		So(proto.Unmarshal([]byte{0x08, 10, 0x08, 20}, m), ShouldBeNil)
		So(LoadResponseFromProto(m).BlobSizes, ShouldResemble, []int64{10, 20})
	})

	Convey("Empty messages", t, func() {
		var nilReq *LoadRequest
		So(nilReq.GetBlobPaths(), ShouldBeNil)
		So(LoadResponseFromProto(NewLoadResponseMessage()).BlobSizes, ShouldBeNil)
	})
}

func TestService(t *testing.T) {
	t.Parallel()

	Convey("With a ScanService server", t, func() {
		lis := bufconn.Listen(1024 * 1024)
		srv := grpc.NewServer()
		RegisterScanServiceServer(srv, echoSizes{})
		go func() { _ = srv.Serve(lis) }()
		defer srv.Stop()

		conn, err := grpc.NewClient("passthrough:///bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		So(err, ShouldBeNil)
		defer conn.Close()

		client := NewScanServiceClient(conn)
		ctx := context.Background()

		Convey("Load round trips", func() {
			resp, err := client.Load(ctx, &LoadRequest{BlobPaths: []string{"gs://a/1", "gs://a/22", "gs://a/1"}})
			So(err, ShouldBeNil)
			So(resp.BlobSizes, ShouldResemble, []int64{8, 9, 8})
		})

		Convey("Errors come back as statuses", func() {
			_, err := client.Load(ctx, &LoadRequest{})
			So(status.Code(err), ShouldEqual, codes.InvalidArgument)
		})
	})
}

func TestSchema(t *testing.T) {
	t.Parallel()

	Convey("Descriptors match scan_service.proto", t, func() {
		src, err := os.ReadFile("scan_service.proto")
		So(err, ShouldBeNil)
		So(descutil.Outline(File_scan_service_proto), ShouldResemble, descutil.OutlineSource(src))
	})
}
