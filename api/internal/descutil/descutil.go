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

// Package descutil builds protobuf file descriptors at runtime.
//
// The services this module talks to publish their schema only as .proto
// files. Rather than checking in protoc output, the api/* packages describe
// the same schema with descriptorpb and work with dynamicpb messages, which
// serialize identically on the wire and in text format.
package descutil

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Repeated declares a repeated scalar field.
func Repeated(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return field(name, number, typ, descriptorpb.FieldDescriptorProto_LABEL_REPEATED)
}

// Singular declares a singular scalar field without presence tracking.
func Singular(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return field(name, number, typ, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)
}

// Optional declares a proto3 `optional` scalar field.
//
// oneofIndex is the index of the synthetic oneof that must be declared in the
// message (by convention named "_" + name) after all real oneofs.
func Optional(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, oneofIndex int32) *descriptorpb.FieldDescriptorProto {
	f := field(name, number, typ, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)
	f.OneofIndex = proto.Int32(oneofIndex)
	f.Proto3Optional = proto.Bool(true)
	return f
}

// Method declares a unary method of a service in the given proto package.
func Method(pkg, name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + pkg + "." + in),
		OutputType: proto.String("." + pkg + "." + out),
	}
}

// MustBuild validates the file descriptor and returns its reflective form.
//
// Panics if the descriptor is invalid. It is supposed to be called from
// package initialization with a static descriptor.
func MustBuild(fdp *descriptorpb.FileDescriptorProto) protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(fdp, new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("bad descriptor of %q: %s", fdp.GetName(), err))
	}
	return fd
}

// Outline renders the declarations of a file as .proto statements, one per
// line, without comments or indentation.
//
// Only what this package can declare is rendered: scalar fields and unary
// methods.
func Outline(fd protoreflect.FileDescriptor) []string {
	out := []string{
		fmt.Sprintf("syntax = %q;", fd.Syntax()),
		fmt.Sprintf("package %s;", fd.Package()),
	}
	for i := 0; i < fd.Services().Len(); i++ {
		svc := fd.Services().Get(i)
		out = append(out, fmt.Sprintf("service %s {", svc.Name()))
		for j := 0; j < svc.Methods().Len(); j++ {
			m := svc.Methods().Get(j)
			out = append(out, fmt.Sprintf("rpc %s(%s) returns (%s) {}", m.Name(), m.Input().Name(), m.Output().Name()))
		}
		out = append(out, "}")
	}
	for i := 0; i < fd.Messages().Len(); i++ {
		msg := fd.Messages().Get(i)
		out = append(out, fmt.Sprintf("message %s {", msg.Name()))
		for j := 0; j < msg.Fields().Len(); j++ {
			f := msg.Fields().Get(j)
			label := ""
			switch {
			case f.IsList():
				label = "repeated "
			case f.HasOptionalKeyword():
				label = "optional "
			}
			out = append(out, fmt.Sprintf("%s%s %s = %d;", label, f.Kind(), f.Name(), f.Number()))
		}
		out = append(out, "}")
	}
	return out
}

// OutlineSource returns the statements of a .proto file in the form Outline
// renders them.
func OutlineSource(src []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "//"); i != -1 {
			line = line[:i]
		}
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, label descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(jsonName(name)),
		Number:   proto.Int32(number),
		Label:    label.Enum(),
		Type:     typ.Enum(),
	}
}

// jsonName converts snake_case to lowerCamelCase the same way protoc does.
func jsonName(name string) string {
	out := make([]byte, 0, len(name))
	upper := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_':
			upper = true
		case upper && 'a' <= c && c <= 'z':
			out = append(out, c-'a'+'A')
			upper = false
		default:
			out = append(out, c)
			upper = false
		}
	}
	return string(out)
}
