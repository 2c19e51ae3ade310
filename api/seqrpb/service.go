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

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// QueryService_Query_FullMethodName is the gRPC method name of
// QueryService.Query.
const QueryService_Query_FullMethodName = "/seqr.QueryService/Query"

// QueryServiceClient is the client API for QueryService.
type QueryServiceClient interface {
	Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error)
}

type queryServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewQueryServiceClient returns a client that sends calls over cc.
func NewQueryServiceClient(cc grpc.ClientConnInterface) QueryServiceClient {
	return &queryServiceClient{cc}
}

func (c *queryServiceClient) Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error) {
	out := NewQueryResponseMessage()
	if err := c.cc.Invoke(ctx, QueryService_Query_FullMethodName, in.ToProto(), out, opts...); err != nil {
		return nil, err
	}
	return QueryResponseFromProto(out), nil
}

// QueryServiceServer is the server API for QueryService.
type QueryServiceServer interface {
	Query(context.Context, *QueryRequest) (*QueryResponse, error)
}

// UnimplementedQueryServiceServer can be embedded to have forward compatible
// implementations.
type UnimplementedQueryServiceServer struct{}

func (UnimplementedQueryServiceServer) Query(context.Context, *QueryRequest) (*QueryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Query not implemented")
}

// RegisterQueryServiceServer registers the service on a gRPC server.
func RegisterQueryServiceServer(s grpc.ServiceRegistrar, srv QueryServiceServer) {
	s.RegisterService(&QueryService_ServiceDesc, srv)
}

func _QueryService_Query_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := NewQueryRequestMessage()
	if err := dec(in); err != nil {
		return nil, err
	}
	call := func(ctx context.Context, req any) (any, error) {
		resp, err := srv.(QueryServiceServer).Query(ctx, QueryRequestFromProto(req.(protoreflect.ProtoMessage).ProtoReflect()))
		if err != nil {
			return nil, err
		}
		return resp.ToProto(), nil
	}
	if interceptor == nil {
		return call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryService_Query_FullMethodName}
	return interceptor(ctx, in, info, call)
}

// QueryService_ServiceDesc is the grpc.ServiceDesc for QueryService.
var QueryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "seqr.QueryService",
	HandlerType: (*QueryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Query", Handler: _QueryService_Query_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "seqr_query_service.proto",
}
