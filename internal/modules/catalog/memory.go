package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

type memoryRepository struct {
	mu       sync.RWMutex
	products map[string]*Product
}

// NewMemoryRepository creates an in-memory product repository keyed by the
// lower-cased product id.
func NewMemoryRepository() Repository {
	return &memoryRepository{products: make(map[string]*Product)}
}

func (r *memoryRepository) Create(ctx context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key(p.ID)
	if _, exists := r.products[key]; exists {
		return apperr.DuplicateKey(apperr.ObjectProduct, p.ID)
	}
	r.products[key] = p
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[Key(id)]
	if !ok {
		return nil, apperr.UnknownKey(apperr.ObjectProduct, id)
	}
	return p, nil
}

func (r *memoryRepository) List(ctx context.Context) ([]*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	products := make([]*Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b *Product) int {
		return strings.Compare(Key(a.ID), Key(b.ID))
	})
	return products, nil
}

func (r *memoryRepository) Update(ctx context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key(p.ID)
	if _, ok := r.products[key]; !ok {
		return apperr.UnknownKey(apperr.ObjectProduct, p.ID)
	}
	r.products[key] = p
	return nil
}
