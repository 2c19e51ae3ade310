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

package descutil

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMustBuild(t *testing.T) {
	t.Parallel()

	Convey("Builds a proto3 file with an optional field", t, func() {
		fd := MustBuild(&descriptorpb.FileDescriptorProto{
			Name:    proto.String("test.proto"),
			Package: proto.String("test"),
			Syntax:  proto.String("proto3"),
			MessageType: []*descriptorpb.DescriptorProto{
				{
					Name: proto.String("Req"),
					Field: []*descriptorpb.FieldDescriptorProto{
						Repeated("some_ids", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
						Optional("max_count", 2, descriptorpb.FieldDescriptorProto_TYPE_INT64, 0),
					},
					OneofDecl: []*descriptorpb.OneofDescriptorProto{
						{Name: proto.String("_max_count")},
					},
				},
				{Name: proto.String("Resp")},
			},
			Service: []*descriptorpb.ServiceDescriptorProto{
				{
					Name:   proto.String("Svc"),
					Method: []*descriptorpb.MethodDescriptorProto{Method("test", "Do", "Req", "Resp")},
				},
			},
		})

		req := fd.Messages().ByName("Req")
		So(req, ShouldNotBeNil)
		So(req.Fields().ByName("some_ids").JSONName(), ShouldEqual, "someIds")
		So(req.Fields().ByName("some_ids").IsList(), ShouldBeTrue)
		So(req.Fields().ByName("max_count").HasPresence(), ShouldBeTrue)

		m := fd.Services().ByName("Svc").Methods().ByName("Do")
		So(string(m.Input().FullName()), ShouldEqual, "test.Req")
		So(string(m.Output().FullName()), ShouldEqual, "test.Resp")

		Convey("Outline matches the source", func() {
			src := `
syntax = "proto3";

package test;

// Svc does things.
service Svc {
  rpc Do(Req) returns (Resp) {}
}

message Req {
  repeated string some_ids = 1;  // any order
  optional   int64 max_count = 2;
}

message Resp {
}
`
			So(Outline(fd), ShouldResemble, OutlineSource([]byte(src)))
		})
	})

	Convey("Panics on broken descriptors", t, func() {
		So(func() {
			MustBuild(&descriptorpb.FileDescriptorProto{
				Name:   proto.String("broken.proto"),
				Syntax: proto.String("proto3"),
				Service: []*descriptorpb.ServiceDescriptorProto{
					{
						Name:   proto.String("Svc"),
						Method: []*descriptorpb.MethodDescriptorProto{Method("nope", "Do", "Missing", "Missing")},
					},
				},
			})
		}, ShouldPanic)
	})
}
