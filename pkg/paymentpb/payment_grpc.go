package paymentpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	ServiceName                                          = "storefront.payment.v1.PaymentProvider"
	PaymentProvider_CreateCheckoutSession_FullMethodName = "/" + ServiceName + "/CreateCheckoutSession"
	PaymentProvider_GetSessionStatus_FullMethodName      = "/" + ServiceName + "/GetSessionStatus"
	PaymentProvider_CompleteSession_FullMethodName       = "/" + ServiceName + "/CompleteSession"
)

type PaymentProviderClient interface {
	CreateCheckoutSession(ctx context.Context, in *CreateCheckoutSessionRequest, opts ...grpc.CallOption) (*CreateCheckoutSessionResponse, error)
	GetSessionStatus(ctx context.Context, in *GetSessionStatusRequest, opts ...grpc.CallOption) (*GetSessionStatusResponse, error)
	CompleteSession(ctx context.Context, in *CompleteSessionRequest, opts ...grpc.CallOption) (*CompleteSessionResponse, error)
}

type paymentProviderClient struct {
	cc grpc.ClientConnInterface
}

func NewPaymentProviderClient(cc grpc.ClientConnInterface) PaymentProviderClient {
	return &paymentProviderClient{cc}
}

func (c *paymentProviderClient) CreateCheckoutSession(ctx context.Context, in *CreateCheckoutSessionRequest, opts ...grpc.CallOption) (*CreateCheckoutSessionResponse, error) {
	if in == nil {
		in = &CreateCheckoutSessionRequest{}
	}
	out := new(CreateCheckoutSessionResponse)
	if err := invoke(ctx, c.cc, PaymentProvider_CreateCheckoutSession_FullMethodName, in, out, createCheckoutSessionResponseDesc, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentProviderClient) GetSessionStatus(ctx context.Context, in *GetSessionStatusRequest, opts ...grpc.CallOption) (*GetSessionStatusResponse, error) {
	if in == nil {
		in = &GetSessionStatusRequest{}
	}
	out := new(GetSessionStatusResponse)
	if err := invoke(ctx, c.cc, PaymentProvider_GetSessionStatus_FullMethodName, in, out, getSessionStatusResponseDesc, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *paymentProviderClient) CompleteSession(ctx context.Context, in *CompleteSessionRequest, opts ...grpc.CallOption) (*CompleteSessionResponse, error) {
	if in == nil {
		in = &CompleteSessionRequest{}
	}
	out := new(CompleteSessionResponse)
	if err := invoke(ctx, c.cc, PaymentProvider_CompleteSession_FullMethodName, in, out, completeSessionResponseDesc, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// invoke sends in as its protobuf form and decodes the reply into out.
func invoke(ctx context.Context, cc grpc.ClientConnInterface, method string, in, out wireMessage, replyDesc protoreflect.MessageDescriptor, opts []grpc.CallOption) error {
	reply := dynamicpb.NewMessage(replyDesc)
	if err := cc.Invoke(ctx, method, in.toProto(), reply, opts...); err != nil {
		return err
	}
	out.fromProto(reply)
	return nil
}

func decode(dec func(any) error, desc protoreflect.MessageDescriptor, in wireMessage) error {
	m := dynamicpb.NewMessage(desc)
	if err := dec(m); err != nil {
		return err
	}
	in.fromProto(m)
	return nil
}

func reply[T wireMessage](resp T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return resp.toProto(), nil
}

// PaymentProviderServer is the server API for the provider. Implementations embed
// UnimplementedPaymentProviderServer.
type PaymentProviderServer interface {
	CreateCheckoutSession(context.Context, *CreateCheckoutSessionRequest) (*CreateCheckoutSessionResponse, error)
	GetSessionStatus(context.Context, *GetSessionStatusRequest) (*GetSessionStatusResponse, error)
	CompleteSession(context.Context, *CompleteSessionRequest) (*CompleteSessionResponse, error)
	mustEmbedUnimplementedPaymentProviderServer()
}

type UnimplementedPaymentProviderServer struct{}

func (UnimplementedPaymentProviderServer) CreateCheckoutSession(context.Context, *CreateCheckoutSessionRequest) (*CreateCheckoutSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateCheckoutSession not implemented")
}

func (UnimplementedPaymentProviderServer) GetSessionStatus(context.Context, *GetSessionStatusRequest) (*GetSessionStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSessionStatus not implemented")
}

func (UnimplementedPaymentProviderServer) CompleteSession(context.Context, *CompleteSessionRequest) (*CompleteSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteSession not implemented")
}

func (UnimplementedPaymentProviderServer) mustEmbedUnimplementedPaymentProviderServer() {}

func RegisterPaymentProviderServer(s grpc.ServiceRegistrar, srv PaymentProviderServer) {
	s.RegisterService(&PaymentProvider_ServiceDesc, srv)
}

func _PaymentProvider_CreateCheckoutSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateCheckoutSessionRequest)
	if err := decode(dec, createCheckoutSessionRequestDesc, in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return reply(srv.(PaymentProviderServer).CreateCheckoutSession(ctx, req.(*CreateCheckoutSessionRequest)))
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PaymentProvider_CreateCheckoutSession_FullMethodName,
	}
	return interceptor(ctx, in, info, handler)
}

func _PaymentProvider_GetSessionStatus_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSessionStatusRequest)
	if err := decode(dec, getSessionStatusRequestDesc, in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return reply(srv.(PaymentProviderServer).GetSessionStatus(ctx, req.(*GetSessionStatusRequest)))
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PaymentProvider_GetSessionStatus_FullMethodName,
	}
	return interceptor(ctx, in, info, handler)
}

func _PaymentProvider_CompleteSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CompleteSessionRequest)
	if err := decode(dec, completeSessionRequestDesc, in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return reply(srv.(PaymentProviderServer).CompleteSession(ctx, req.(*CompleteSessionRequest)))
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PaymentProvider_CompleteSession_FullMethodName,
	}
	return interceptor(ctx, in, info, handler)
}

var PaymentProvider_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaymentProviderServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateCheckoutSession",
			Handler:    _PaymentProvider_CreateCheckoutSession_Handler,
		},
		{
			MethodName: "GetSessionStatus",
			Handler:    _PaymentProvider_GetSessionStatus_Handler,
		},
		{
			MethodName: "CompleteSession",
			Handler:    _PaymentProvider_CompleteSession_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: FileName,
}
