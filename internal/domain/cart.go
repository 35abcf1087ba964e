package domain

import (
	"math"
	"time"
)

const (
	// CartStorageName is the default key of the persisted cart record.
	CartStorageName = "cart-storage"
	// CartSchemaVersion is bumped whenever CartRecord changes shape.
	CartSchemaVersion = 1
)

type CartLine struct {
	ProductID string          `json:"product_id" bson:"product_id"`
	Product   ProductSnapshot `json:"product" bson:"product"`
	Quantity  int             `json:"quantity" bson:"quantity"`
}

func (l CartLine) Subtotal() int64 {
	return l.Product.UnitPriceCents * int64(l.Quantity)
}

// CartRecord is the durable form of a cart: the ordered lines plus a schema version.
// CheckoutSessionRef names the last checkout session started from this cart; a paid
// event for that session empties the cart.
type CartRecord struct {
	SchemaVersion      int        `json:"schema_version" bson:"schema_version"`
	Lines              []CartLine `json:"lines" bson:"lines"`
	CheckoutSessionRef string     `json:"checkout_session_ref,omitempty" bson:"checkout_session_ref,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at" bson:"updated_at"`
}

// AddAmount returns total + unit*quantity, or false when any step leaves int64.
func AddAmount(total, unit, quantity int64) (int64, bool) {
	if unit < 0 || quantity < 0 || total < 0 {
		return 0, false
	}
	if unit != 0 && quantity > math.MaxInt64/unit {
		return 0, false
	}
	sub := unit * quantity
	if total > math.MaxInt64-sub {
		return 0, false
	}
	return total + sub, true
}
