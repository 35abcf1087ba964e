package checkout

import (
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

// BuildSnapshot converts cart lines into provider line items in cart order.
// prices overrides a line's snapshot price when it holds the product id.
func BuildSnapshot(lines []domain.CartLine, prices map[string]int64, now time.Time) (*domain.CartSnapshot, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty, nothing to checkout", domain.ErrValidation)
	}

	snapshot := &domain.CartSnapshot{
		Items:      make([]domain.LineItem, 0, len(lines)),
		Currency:   domain.DefaultCurrency,
		CapturedAt: now,
	}
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, fmt.Errorf("%w: cart line without product id", domain.ErrValidation)
		}
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity of %s must be positive", domain.ErrValidation, l.ProductID)
		}
		if l.Product.Name == "" {
			return nil, fmt.Errorf("%w: product data missing for %s", domain.ErrValidation, l.ProductID)
		}

		price := l.Product.UnitPriceCents
		if p, ok := prices[l.ProductID]; ok {
			price = p
		}
		if price < 0 {
			return nil, fmt.Errorf("%w: price of %s must not be negative", domain.ErrValidation, l.ProductID)
		}

		item := domain.LineItem{
			ProductID:      l.ProductID,
			Name:           l.Product.Name,
			Description:    l.Product.Description,
			UnitPriceCents: price,
			Quantity:       int64(l.Quantity),
			Currency:       domain.DefaultCurrency,
		}
		total, ok := domain.AddAmount(snapshot.TotalAmountCents, item.UnitPriceCents, item.Quantity)
		if !ok {
			return nil, fmt.Errorf("%w: amount of %s is too large", domain.ErrValidation, l.ProductID)
		}
		snapshot.Items = append(snapshot.Items, item)
		snapshot.TotalAmountCents = total
	}
	return snapshot, nil
}
