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

// Package scanpb contains the wire schema of the scan service.
//
// The schema mirrors scan_service.proto. Keep them in sync.
// TestSchema compares the two, and go generate checks that protoc accepts
// the .proto file.
package scanpb

//go:generate protoc --proto_path=. --descriptor_set_out=/dev/null scan_service.proto

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"go.chromium.org/arrowscan/api/internal/descutil"
)

var (
	// File_scan_service_proto describes scan_service.proto.
	File_scan_service_proto = descutil.MustBuild(&descriptorpb.FileDescriptorProto{
		Name:    proto.String("scan_service.proto"),
		Package: proto.String("scan"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("LoadRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					descutil.Repeated("blob_paths", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name: proto.String("LoadResponse"),
				Field: []*descriptorpb.FieldDescriptorProto{
					descutil.Repeated("blob_sizes", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				},
			},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("ScanService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					descutil.Method("scan", "Load", "LoadRequest", "LoadResponse"),
				},
			},
		},
	})

	loadRequestDesc  = File_scan_service_proto.Messages().ByName("LoadRequest")
	loadResponseDesc = File_scan_service_proto.Messages().ByName("LoadResponse")

	blobPathsField = loadRequestDesc.Fields().ByName("blob_paths")
	blobSizesField = loadResponseDesc.Fields().ByName("blob_sizes")
)

// LoadRequest names the blobs to load.
type LoadRequest struct {
	BlobPaths []string
}

// ToProto converts the request to its wire form.
func (r *LoadRequest) ToProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(loadRequestDesc)
	if len(r.GetBlobPaths()) > 0 {
		l := m.Mutable(blobPathsField).List()
		for _, p := range r.BlobPaths {
			l.Append(protoreflect.ValueOfString(p))
		}
	}
	return m
}

// GetBlobPaths returns BlobPaths or nil if r is nil.
func (r *LoadRequest) GetBlobPaths() []string {
	if r == nil {
		return nil
	}
	return r.BlobPaths
}

// NewLoadRequestMessage returns an empty LoadRequest in its wire form.
func NewLoadRequestMessage() *dynamicpb.Message {
	return dynamicpb.NewMessage(loadRequestDesc)
}

// LoadRequestFromProto converts the wire form of a LoadRequest.
func LoadRequestFromProto(m protoreflect.Message) *LoadRequest {
	l := m.Get(blobPathsField).List()
	r := &LoadRequest{}
	if l.Len() > 0 {
		r.BlobPaths = make([]string, l.Len())
		for i := range r.BlobPaths {
			r.BlobPaths[i] = l.Get(i).String()
		}
	}
	return r
}

// LoadResponse carries the sizes of the loaded blobs.
type LoadResponse struct {
	BlobSizes []int64
}

// ToProto converts the response to its wire form.
func (r *LoadResponse) ToProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(loadResponseDesc)
	if len(r.GetBlobSizes()) > 0 {
		l := m.Mutable(blobSizesField).List()
		for _, s := range r.BlobSizes {
			l.Append(protoreflect.ValueOfInt64(s))
		}
	}
	return m
}

// GetBlobSizes returns BlobSizes or nil if r is nil.
func (r *LoadResponse) GetBlobSizes() []int64 {
	if r == nil {
		return nil
	}
	return r.BlobSizes
}

// NewLoadResponseMessage returns an empty LoadResponse in its wire form.
func NewLoadResponseMessage() *dynamicpb.Message {
	return dynamicpb.NewMessage(loadResponseDesc)
}

// LoadResponseFromProto converts the wire form of a LoadResponse.
func LoadResponseFromProto(m protoreflect.Message) *LoadResponse {
	l := m.Get(blobSizesField).List()
	r := &LoadResponse{}
	if l.Len() > 0 {
		r.BlobSizes = make([]int64, l.Len())
		for i := range r.BlobSizes {
			r.BlobSizes[i] = l.Get(i).Int()
		}
	}
	return r
}
