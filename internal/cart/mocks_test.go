package cart

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

type mockPersister struct {
	m       sync.Mutex
	record  *domain.CartRecord
	loadErr error
	saveErr error
	saves   int
}

func (p *mockPersister) Load(context.Context) (*domain.CartRecord, error) {
	p.m.Lock()
	defer p.m.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	if p.record == nil {
		return nil, ErrNoRecord
	}
	cp := *p.record
	cp.Lines = cloneLines(p.record.Lines)
	return &cp, nil
}

func (p *mockPersister) Save(_ context.Context, record *domain.CartRecord) error {
	p.m.Lock()
	defer p.m.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	cp := *record
	cp.Lines = cloneLines(record.Lines)
	p.record = &cp
	p.saves++
	return nil
}

func (p *mockPersister) saved() *domain.CartRecord {
	p.m.Lock()
	defer p.m.Unlock()
	return p.record
}

func (p *mockPersister) saveCount() int {
	p.m.Lock()
	defer p.m.Unlock()
	return p.saves
}

func (p *mockPersister) failSaves(err error) {
	p.m.Lock()
	defer p.m.Unlock()
	p.saveErr = err
}

func product(id string, priceCents int64) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        "Product " + id,
		Description: "Description of " + id,
		PriceCents:  priceCents,
		Active:      true,
	}
}
