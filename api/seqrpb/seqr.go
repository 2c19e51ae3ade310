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

// Package seqrpb contains the wire schema of the seqr query service.
//
// The schema mirrors seqr_query_service.proto. Keep them in sync.
// TestSchema compares the two, and go generate checks that protoc accepts
// the .proto file.
package seqrpb

//go:generate protoc --proto_path=. --descriptor_set_out=/dev/null seqr_query_service.proto

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"go.chromium.org/arrowscan/api/internal/descutil"
)

var (
	// File_seqr_query_service_proto describes seqr_query_service.proto.
	File_seqr_query_service_proto = descutil.MustBuild(&descriptorpb.FileDescriptorProto{
		Name:    proto.String("seqr_query_service.proto"),
		Package: proto.String("seqr"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("QueryRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					descutil.Repeated("arrow_urls", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					descutil.Optional("max_results", 2, descriptorpb.FieldDescriptorProto_TYPE_INT64, 0),
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{
					{Name: proto.String("_max_results")},
				},
			},
			{
				Name: proto.String("QueryResponse"),
				Field: []*descriptorpb.FieldDescriptorProto{
					descutil.Repeated("num_rows", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
					descutil.Singular("record_batches", 2, descriptorpb.FieldDescriptorProto_TYPE_BYTES),
				},
			},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("QueryService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					descutil.Method("seqr", "Query", "QueryRequest", "QueryResponse"),
				},
			},
		},
	})

	queryRequestDesc  = File_seqr_query_service_proto.Messages().ByName("QueryRequest")
	queryResponseDesc = File_seqr_query_service_proto.Messages().ByName("QueryResponse")

	arrowURLsField     = queryRequestDesc.Fields().ByName("arrow_urls")
	maxResultsField    = queryRequestDesc.Fields().ByName("max_results")
	numRowsField       = queryResponseDesc.Fields().ByName("num_rows")
	recordBatchesField = queryResponseDesc.Fields().ByName("record_batches")
)

// QueryRequest names the Arrow files to scan.
type QueryRequest struct {
	ArrowURLs []string
	// MaxResults is nil if unset. Unset and zero are different bounds.
	MaxResults *int64
}

// GetArrowURLs returns ArrowURLs or nil if r is nil.
func (r *QueryRequest) GetArrowURLs() []string {
	if r == nil {
		return nil
	}
	return r.ArrowURLs
}

// HasMaxResults reports whether the bound is set.
func (r *QueryRequest) HasMaxResults() bool {
	return r != nil && r.MaxResults != nil
}

// ToProto converts the request to its wire form.
func (r *QueryRequest) ToProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(queryRequestDesc)
	if len(r.GetArrowURLs()) > 0 {
		l := m.Mutable(arrowURLsField).List()
		for _, u := range r.ArrowURLs {
			l.Append(protoreflect.ValueOfString(u))
		}
	}
	if r.HasMaxResults() {
		m.Set(maxResultsField, protoreflect.ValueOfInt64(*r.MaxResults))
	}
	return m
}

// NewQueryRequestMessage returns an empty QueryRequest in its wire form.
//
// Use it as a target for proto.Unmarshal or prototext.Unmarshal.
func NewQueryRequestMessage() *dynamicpb.Message {
	return dynamicpb.NewMessage(queryRequestDesc)
}

// QueryRequestFromProto converts the wire form of a QueryRequest.
func QueryRequestFromProto(m protoreflect.Message) *QueryRequest {
	r := &QueryRequest{}
	if l := m.Get(arrowURLsField).List(); l.Len() > 0 {
		r.ArrowURLs = make([]string, l.Len())
		for i := range r.ArrowURLs {
			r.ArrowURLs[i] = l.Get(i).String()
		}
	}
	if m.Has(maxResultsField) {
		v := m.Get(maxResultsField).Int()
		r.MaxResults = &v
	}
	return r
}

// QueryResponse is the result of a query.
//
// See seqr_query_service.proto for how deployments fill it in.
type QueryResponse struct {
	NumRows       []int64
	RecordBatches []byte
}

// ToProto converts the response to its wire form.
func (r *QueryResponse) ToProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(queryResponseDesc)
	if r == nil {
		return m
	}
	if len(r.NumRows) > 0 {
		l := m.Mutable(numRowsField).List()
		for _, n := range r.NumRows {
			l.Append(protoreflect.ValueOfInt64(n))
		}
	}
	if len(r.RecordBatches) > 0 {
		m.Set(recordBatchesField, protoreflect.ValueOfBytes(r.RecordBatches))
	}
	return m
}

// NewQueryResponseMessage returns an empty QueryResponse in its wire form.
func NewQueryResponseMessage() *dynamicpb.Message {
	return dynamicpb.NewMessage(queryResponseDesc)
}

// QueryResponseFromProto converts the wire form of a QueryResponse.
func QueryResponseFromProto(m protoreflect.Message) *QueryResponse {
	r := &QueryResponse{}
	if l := m.Get(numRowsField).List(); l.Len() > 0 {
		r.NumRows = make([]int64, l.Len())
		for i := range r.NumRows {
			r.NumRows[i] = l.Get(i).Int()
		}
	}
	if b := m.Get(recordBatchesField).Bytes(); len(b) > 0 {
		r.RecordBatches = b
	}
	return r
}
