package paymentpb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

func TestFileRegistered(t *testing.T) {
	d, err := protoregistry.GlobalFiles.FindDescriptorByName(ServiceName)
	require.NoError(t, err)

	svc, ok := d.(protoreflect.ServiceDescriptor)
	require.True(t, ok)
	assert.Equal(t, 3, svc.Methods().Len())
	assert.Equal(t, FileName, svc.ParentFile().Path())

	for _, m := range PaymentProvider_ServiceDesc.Methods {
		assert.NotNil(t, svc.Methods().ByName(protoreflect.Name(m.MethodName)), m.MethodName)
	}
}

func TestCreateCheckoutSessionRequest_Wire(t *testing.T) {
	in := &CreateCheckoutSessionRequest{
		LineItems: []*LineItem{
			{ProductId: "p1", Name: "Screen", UnitAmount: 2999, Quantity: 2, Currency: "USD"},
			{ProductId: "p2", Name: "Fan", Description: "Cooling", UnitAmount: 1250, Quantity: 1, Currency: "USD"},
		},
		SuccessUrl: "http://shop/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelUrl:  "http://shop/checkout/cancel?session_id={CHECKOUT_SESSION_ID}",
	}

	data, err := proto.Marshal(in.toProto())
	require.NoError(t, err)

	m := dynamicpb.NewMessage(createCheckoutSessionRequestDesc)
	require.NoError(t, proto.Unmarshal(data, m))
	out := &CreateCheckoutSessionRequest{}
	out.fromProto(m)

	assert.Equal(t, in, out)
}

func TestEmptyMessageEncodesToNothing(t *testing.T) {
	data, err := proto.Marshal((&GetSessionStatusResponse{}).toProto())
	require.NoError(t, err)
	assert.Empty(t, data)

	out := &CreateCheckoutSessionRequest{}
	out.fromProto(dynamicpb.NewMessage(createCheckoutSessionRequestDesc))
	assert.Empty(t, out.LineItems)
}

func TestNilMessageEncodesEmpty(t *testing.T) {
	var resp *GetSessionStatusResponse
	b, err := proto.Marshal(resp.toProto())
	require.NoError(t, err)
	assert.Empty(t, b)
}
