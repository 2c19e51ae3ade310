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

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ScanService_Load_FullMethodName is the gRPC method name of ScanService.Load.
const ScanService_Load_FullMethodName = "/scan.ScanService/Load"

// ScanServiceClient is the client API for ScanService.
type ScanServiceClient interface {
	Load(ctx context.Context, in *LoadRequest, opts ...grpc.CallOption) (*LoadResponse, error)
}

type scanServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewScanServiceClient returns a client that sends calls over cc.
func NewScanServiceClient(cc grpc.ClientConnInterface) ScanServiceClient {
	return &scanServiceClient{cc}
}

func (c *scanServiceClient) Load(ctx context.Context, in *LoadRequest, opts ...grpc.CallOption) (*LoadResponse, error) {
	out := NewLoadResponseMessage()
	if err := c.cc.Invoke(ctx, ScanService_Load_FullMethodName, in.ToProto(), out, opts...); err != nil {
		return nil, err
	}
	return LoadResponseFromProto(out), nil
}

// ScanServiceServer is the server API for ScanService.
//
// This module only implements it in tests and local fakes.
type ScanServiceServer interface {
	Load(context.Context, *LoadRequest) (*LoadResponse, error)
}

// UnimplementedScanServiceServer can be embedded to have forward compatible
// implementations.
type UnimplementedScanServiceServer struct{}

func (UnimplementedScanServiceServer) Load(context.Context, *LoadRequest) (*LoadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Load not implemented")
}

// RegisterScanServiceServer registers the service on a gRPC server.
func RegisterScanServiceServer(s grpc.ServiceRegistrar, srv ScanServiceServer) {
	s.RegisterService(&ScanService_ServiceDesc, srv)
}

func _ScanService_Load_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := NewLoadRequestMessage()
	if err := dec(in); err != nil {
		return nil, err
	}
	call := func(ctx context.Context, req any) (any, error) {
		resp, err := srv.(ScanServiceServer).Load(ctx, LoadRequestFromProto(req.(protoreflect.ProtoMessage).ProtoReflect()))
		if err != nil {
			return nil, err
		}
		return resp.ToProto(), nil
	}
	if interceptor == nil {
		return call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScanService_Load_FullMethodName}
	return interceptor(ctx, in, info, call)
}

// ScanService_ServiceDesc is the grpc.ServiceDesc for ScanService.
var ScanService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "scan.ScanService",
	HandlerType: (*ScanServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Load", Handler: _ScanService_Load_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scan_service.proto",
}
