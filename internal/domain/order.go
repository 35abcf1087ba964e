package domain

import "time"

type Order struct {
	ID                 string      `json:"id"`
	UserRef            string      `json:"user_ref"`
	Status             OrderStatus `json:"status"`
	TotalAmountCents   int64       `json:"total_amount_cents"`
	Currency           string      `json:"currency"`
	Items              []LineItem  `json:"items"`
	CheckoutSessionRef string      `json:"checkout_session_ref"`
	RedirectURL        string      `json:"-"`
	IdempotencyKey     string      `json:"idempotency_key,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}
