package cart

import (
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
)

// upgrade brings a stored record to the current schema. Records written before the
// version field existed (version 0) may hold duplicate or non-positive lines; those
// are merged and dropped so the loaded cart satisfies the store invariants.
func upgrade(rec *domain.CartRecord) (*domain.CartRecord, error) {
	switch {
	case rec.SchemaVersion > domain.CartSchemaVersion:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, rec.SchemaVersion)
	case rec.SchemaVersion == domain.CartSchemaVersion:
		return rec, nil
	}

	lines := make([]domain.CartLine, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		if i := indexOf(lines, l.ProductID); i >= 0 {
			lines[i].Quantity += l.Quantity
			continue
		}
		lines = append(lines, l)
	}

	return &domain.CartRecord{
		SchemaVersion:      domain.CartSchemaVersion,
		Lines:              lines,
		CheckoutSessionRef: rec.CheckoutSessionRef,
		UpdatedAt:          rec.UpdatedAt,
	}, nil
}
