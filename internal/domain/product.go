package domain

import "time"

// Product is a catalog entry as seen by the storefront.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot captures the product fields a cart line keeps.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:           p.Name,
		Description:    p.Description,
		UnitPriceCents: p.PriceCents,
	}
}

type ProductSnapshot struct {
	Name           string `json:"name" bson:"name"`
	Description    string `json:"description" bson:"description"`
	UnitPriceCents int64  `json:"unit_price_cents" bson:"unit_price_cents"`
}
