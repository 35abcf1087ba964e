package paymentpb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// FileName is the registered name of the provider's proto file.
const FileName = "storefront/payment/v1/payment.proto"

const protoPackage = "storefront.payment.v1"

var (
	file protoreflect.FileDescriptor

	lineItemDesc                      protoreflect.MessageDescriptor
	createCheckoutSessionRequestDesc  protoreflect.MessageDescriptor
	createCheckoutSessionResponseDesc protoreflect.MessageDescriptor
	getSessionStatusRequestDesc       protoreflect.MessageDescriptor
	getSessionStatusResponseDesc      protoreflect.MessageDescriptor
	completeSessionRequestDesc        protoreflect.MessageDescriptor
	completeSessionResponseDesc       protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("paymentpb: invalid descriptor: %v", err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("paymentpb: register descriptor: %v", err))
	}
	file = fd

	msgs := fd.Messages()
	lineItemDesc = msgs.ByName("LineItem")
	createCheckoutSessionRequestDesc = msgs.ByName("CreateCheckoutSessionRequest")
	createCheckoutSessionResponseDesc = msgs.ByName("CreateCheckoutSessionResponse")
	getSessionStatusRequestDesc = msgs.ByName("GetSessionStatusRequest")
	getSessionStatusResponseDesc = msgs.ByName("GetSessionStatusResponse")
	completeSessionRequestDesc = msgs.ByName("CompleteSessionRequest")
	completeSessionResponseDesc = msgs.ByName("CompleteSessionResponse")
}

// File returns the descriptor of the provider's proto file.
func File() protoreflect.FileDescriptor {
	return file
}

// fileDescriptorProto is payment.proto:
//
//	syntax = "proto3";
//	package storefront.payment.v1;
//
//	message LineItem {
//	  string product_id = 1; string name = 2; string description = 3;
//	  int64 unit_amount = 4; int64 quantity = 5; string currency = 6;
//	}
//	message CreateCheckoutSessionRequest { repeated LineItem line_items = 1; string success_url = 2; string cancel_url = 3; }
//	message CreateCheckoutSessionResponse { string session_id = 1; string url = 2; }
//	message GetSessionStatusRequest { string session_id = 1; }
//	message GetSessionStatusResponse { string session_id = 1; string outcome = 2; string customer_ref = 3; string details = 4; }
//	message CompleteSessionRequest { string session_id = 1; string outcome = 2; }
//	message CompleteSessionResponse { string session_id = 1; string outcome = 2; }
//
//	service PaymentProvider {
//	  rpc CreateCheckoutSession(CreateCheckoutSessionRequest) returns (CreateCheckoutSessionResponse);
//	  rpc GetSessionStatus(GetSessionStatusRequest) returns (GetSessionStatusResponse);
//	  rpc CompleteSession(CompleteSessionRequest) returns (CompleteSessionResponse);
//	}
func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	str := descriptorpb.FieldDescriptorProto_TYPE_STRING
	i64 := descriptorpb.FieldDescriptorProto_TYPE_INT64

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/fjod/go_storefront/pkg/paymentpb"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("LineItem",
				scalar("product_id", 1, str),
				scalar("name", 2, str),
				scalar("description", 3, str),
				scalar("unit_amount", 4, i64),
				scalar("quantity", 5, i64),
				scalar("currency", 6, str),
			),
			message("CreateCheckoutSessionRequest",
				&descriptorpb.FieldDescriptorProto{
					Name:     proto.String("line_items"),
					Number:   proto.Int32(1),
					Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
					Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
					TypeName: proto.String("." + protoPackage + ".LineItem"),
				},
				scalar("success_url", 2, str),
				scalar("cancel_url", 3, str),
			),
			message("CreateCheckoutSessionResponse",
				scalar("session_id", 1, str),
				scalar("url", 2, str),
			),
			message("GetSessionStatusRequest",
				scalar("session_id", 1, str),
			),
			message("GetSessionStatusResponse",
				scalar("session_id", 1, str),
				scalar("outcome", 2, str),
				scalar("customer_ref", 3, str),
				scalar("details", 4, str),
			),
			message("CompleteSessionRequest",
				scalar("session_id", 1, str),
				scalar("outcome", 2, str),
			),
			message("CompleteSessionResponse",
				scalar("session_id", 1, str),
				scalar("outcome", 2, str),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("PaymentProvider"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("CreateCheckoutSession"),
				method("GetSessionStatus"),
				method("CompleteSession"),
			},
		}},
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func method(name string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + protoPackage + "." + name + "Request"),
		OutputType: proto.String("." + protoPackage + "." + name + "Response"),
	}
}
