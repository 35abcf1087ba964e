package domain

import "time"

// DefaultCurrency is used for every provider line item.
const DefaultCurrency = "USD"

// LineItem is the provider-facing form of a cart line.
type LineItem struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int64  `json:"quantity"`
	Currency       string `json:"currency"`
}

func (i LineItem) Subtotal() int64 {
	return i.UnitPriceCents * i.Quantity
}

// CartSnapshot represents the full cart state at checkout time
type CartSnapshot struct {
	Items            []LineItem `json:"items"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	Currency         string     `json:"currency"`
	CapturedAt       time.Time  `json:"captured_at"`
}
