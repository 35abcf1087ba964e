package domain

import "time"

// OrderStatusChangedEvent is the outbox event written on every terminal transition.
const OrderStatusChangedEvent = "order.status_changed"

type OrderEvent struct {
	EventType          string      `json:"event_type"`
	OrderID            string      `json:"order_id"`
	UserRef            string      `json:"user_ref"`
	Status             OrderStatus `json:"status"`
	CheckoutSessionRef string      `json:"checkout_session_ref"`
	OccurredAt         time.Time   `json:"occurred_at"`
}
