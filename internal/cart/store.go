package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/rs/zerolog"
)

// Persister is the single persistence seam of the cart.
// Consumers define this interface, not the storage implementations.
type Persister interface {
	// Load returns ErrNoRecord when nothing was saved yet.
	Load(ctx context.Context) (*domain.CartRecord, error)
	// Save replaces the stored record in one write.
	Save(ctx context.Context, record *domain.CartRecord) error
}

// Store holds one shopper's pending selections. Every mutation is persisted before it
// becomes visible in memory, so a failed write leaves both copies unchanged.
type Store struct {
	mu        sync.Mutex
	persister Persister
	record    domain.CartRecord
	log       zerolog.Logger
	now       func() time.Time
}

// NewStore loads the persisted record, or starts empty when there is none.
func NewStore(ctx context.Context, p Persister, log zerolog.Logger) (*Store, error) {
	s := &Store{
		persister: p,
		log:       log,
		now:       time.Now,
		record:    domain.CartRecord{SchemaVersion: domain.CartSchemaVersion},
	}

	rec, err := p.Load(ctx)
	if errors.Is(err, ErrNoRecord) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	upgraded, err := upgrade(rec)
	if err != nil {
		return nil, err
	}
	s.record = *upgraded
	log.Debug().Int("lines", len(s.record.Lines)).Msg("cart loaded")
	return s, nil
}

func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if product.ID == "" {
		return fmt.Errorf("%w: product id is required", domain.ErrValidation)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}
	if product.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}

	return s.mutate(ctx, func(lines []domain.CartLine) ([]domain.CartLine, bool, error) {
		if i := indexOf(lines, product.ID); i >= 0 {
			if quantity > math.MaxInt-lines[i].Quantity {
				return nil, false, fmt.Errorf("%w: quantity of %s is too large", domain.ErrValidation, product.ID)
			}
			lines[i].Quantity += quantity
			return lines, true, nil
		}
		return append(lines, domain.CartLine{
			ProductID: product.ID,
			Product:   product.Snapshot(),
			Quantity:  quantity,
		}), true, nil
	})
}

// UpdateQuantity replaces the quantity of a line in place. A quantity of zero or
// less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	return s.mutate(ctx, func(lines []domain.CartLine) ([]domain.CartLine, bool, error) {
		i := indexOf(lines, productID)
		if i < 0 || lines[i].Quantity == quantity {
			return lines, false, nil
		}
		lines[i].Quantity = quantity
		return lines, true, nil
	})
}

// RemoveItem drops the line for productID. Removing an absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	return s.mutate(ctx, func(lines []domain.CartLine) ([]domain.CartLine, bool, error) {
		i := indexOf(lines, productID)
		if i < 0 {
			return lines, false, nil
		}
		return append(lines[:i], lines[i+1:]...), true, nil
	})
}

// Clear empties the cart and forgets the pending checkout session.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, nil, "")
}

// ClearIfSession empties the cart only when sessionID is the checkout session last
// started from it. It reports whether the cart was cleared.
func (s *Store) ClearIfSession(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sessionID == "" || s.record.CheckoutSessionRef != sessionID {
		return false, nil
	}
	if err := s.commit(ctx, nil, ""); err != nil {
		return false, err
	}
	return true, nil
}

// MarkCheckout remembers the checkout session started from the current lines.
func (s *Store) MarkCheckout(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.CheckoutSessionRef == sessionID {
		return nil
	}
	return s.commit(ctx, cloneLines(s.record.Lines), sessionID)
}

func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.record.Lines)
}

func (s *Store) CheckoutSessionRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.CheckoutSessionRef
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.record.Lines) == 0
}

// Total is recomputed from the current lines on every call.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, l := range s.record.Lines {
		total += l.Subtotal()
	}
	return total
}

func (s *Store) mutate(ctx context.Context, fn func([]domain.CartLine) ([]domain.CartLine, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := fn(cloneLines(s.record.Lines))
	if err != nil || !changed {
		return err
	}
	if err := checkAmounts(next); err != nil {
		return err
	}
	return s.commit(ctx, next, s.record.CheckoutSessionRef)
}

// checkAmounts rejects lines whose subtotals or total do not fit in int64 cents.
func checkAmounts(lines []domain.CartLine) error {
	var total int64
	for _, l := range lines {
		var ok bool
		total, ok = domain.AddAmount(total, l.Product.UnitPriceCents, int64(l.Quantity))
		if !ok {
			return fmt.Errorf("%w: amount of %s is too large", domain.ErrValidation, l.ProductID)
		}
	}
	return nil
}

// commit must be called with s.mu held.
func (s *Store) commit(ctx context.Context, lines []domain.CartLine, sessionRef string) error {
	next := domain.CartRecord{
		SchemaVersion:      domain.CartSchemaVersion,
		Lines:              lines,
		CheckoutSessionRef: sessionRef,
		UpdatedAt:          s.now().UTC(),
	}
	if next.Lines == nil {
		next.Lines = []domain.CartLine{}
	}
	if err := s.persister.Save(ctx, &next); err != nil {
		s.log.Error().Err(err).Msg("cart persist failed")
		return fmt.Errorf("persist cart: %w", err)
	}
	s.record = next
	return nil
}

func indexOf(lines []domain.CartLine, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}
