// Package paymentpb defines the wire contract of the hosted payment provider.
// Messages travel as protobuf built from the payment.proto descriptor.
package paymentpb

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Outcome values reported by GetSessionStatus.
const (
	OutcomeOpen      = "open"
	OutcomePaid      = "paid"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

type LineItem struct {
	ProductId   string
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
	Currency    string
}

type CreateCheckoutSessionRequest struct {
	LineItems  []*LineItem
	SuccessUrl string
	CancelUrl  string
}

func (r *CreateCheckoutSessionRequest) GetLineItems() []*LineItem {
	if r == nil {
		return nil
	}
	return r.LineItems
}

type CreateCheckoutSessionResponse struct {
	SessionId string
	Url       string
}

type GetSessionStatusRequest struct {
	SessionId string
}

type GetSessionStatusResponse struct {
	SessionId   string
	Outcome     string
	CustomerRef string
	Details     string
}

type CompleteSessionRequest struct {
	SessionId string
	// Outcome is paid, cancelled or failed.
	Outcome string
}

type CompleteSessionResponse struct {
	SessionId string
	Outcome   string
}

// wireMessage converts between the Go form and the protobuf form of a message.
type wireMessage interface {
	toProto() *dynamicpb.Message
	fromProto(m protoreflect.Message)
}

func (i *LineItem) fill(m protoreflect.Message) {
	setString(m, "product_id", i.ProductId)
	setString(m, "name", i.Name)
	setString(m, "description", i.Description)
	setInt64(m, "unit_amount", i.UnitAmount)
	setInt64(m, "quantity", i.Quantity)
	setString(m, "currency", i.Currency)
}

func (i *LineItem) fromProto(m protoreflect.Message) {
	i.ProductId = getString(m, "product_id")
	i.Name = getString(m, "name")
	i.Description = getString(m, "description")
	i.UnitAmount = getInt64(m, "unit_amount")
	i.Quantity = getInt64(m, "quantity")
	i.Currency = getString(m, "currency")
}

func (r *CreateCheckoutSessionRequest) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(createCheckoutSessionRequestDesc)
	if r == nil {
		return m
	}
	if len(r.LineItems) > 0 {
		list := m.Mutable(fieldOf(m, "line_items")).List()
		for _, item := range r.LineItems {
			if item == nil {
				continue
			}
			elem := list.NewElement()
			item.fill(elem.Message())
			list.Append(elem)
		}
	}
	setString(m, "success_url", r.SuccessUrl)
	setString(m, "cancel_url", r.CancelUrl)
	return m
}

func (r *CreateCheckoutSessionRequest) fromProto(m protoreflect.Message) {
	list := m.Get(fieldOf(m, "line_items")).List()
	r.LineItems = make([]*LineItem, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		item := &LineItem{}
		item.fromProto(list.Get(i).Message())
		r.LineItems = append(r.LineItems, item)
	}
	r.SuccessUrl = getString(m, "success_url")
	r.CancelUrl = getString(m, "cancel_url")
}

func (r *CreateCheckoutSessionResponse) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(createCheckoutSessionResponseDesc)
	if r == nil {
		return m
	}
	setString(m, "session_id", r.SessionId)
	setString(m, "url", r.Url)
	return m
}

func (r *CreateCheckoutSessionResponse) fromProto(m protoreflect.Message) {
	r.SessionId = getString(m, "session_id")
	r.Url = getString(m, "url")
}

func (r *GetSessionStatusRequest) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(getSessionStatusRequestDesc)
	if r == nil {
		return m
	}
	setString(m, "session_id", r.SessionId)
	return m
}

func (r *GetSessionStatusRequest) fromProto(m protoreflect.Message) {
	r.SessionId = getString(m, "session_id")
}

func (r *GetSessionStatusResponse) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(getSessionStatusResponseDesc)
	if r == nil {
		return m
	}
	setString(m, "session_id", r.SessionId)
	setString(m, "outcome", r.Outcome)
	setString(m, "customer_ref", r.CustomerRef)
	setString(m, "details", r.Details)
	return m
}

func (r *GetSessionStatusResponse) fromProto(m protoreflect.Message) {
	r.SessionId = getString(m, "session_id")
	r.Outcome = getString(m, "outcome")
	r.CustomerRef = getString(m, "customer_ref")
	r.Details = getString(m, "details")
}

func (r *CompleteSessionRequest) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(completeSessionRequestDesc)
	if r == nil {
		return m
	}
	setString(m, "session_id", r.SessionId)
	setString(m, "outcome", r.Outcome)
	return m
}

func (r *CompleteSessionRequest) fromProto(m protoreflect.Message) {
	r.SessionId = getString(m, "session_id")
	r.Outcome = getString(m, "outcome")
}

func (r *CompleteSessionResponse) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(completeSessionResponseDesc)
	if r == nil {
		return m
	}
	setString(m, "session_id", r.SessionId)
	setString(m, "outcome", r.Outcome)
	return m
}

func (r *CompleteSessionResponse) fromProto(m protoreflect.Message) {
	r.SessionId = getString(m, "session_id")
	r.Outcome = getString(m, "outcome")
}

func fieldOf(m protoreflect.Message, name string) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(protoreflect.Name(name))
}

// Zero values are left unset, as proto3 does not encode them.
func setString(m protoreflect.Message, name, v string) {
	if v != "" {
		m.Set(fieldOf(m, name), protoreflect.ValueOfString(v))
	}
}

func setInt64(m protoreflect.Message, name string, v int64) {
	if v != 0 {
		m.Set(fieldOf(m, name), protoreflect.ValueOfInt64(v))
	}
}

func getString(m protoreflect.Message, name string) string {
	return m.Get(fieldOf(m, name)).String()
}

func getInt64(m protoreflect.Message, name string) int64 {
	return m.Get(fieldOf(m, name)).Int()
}
