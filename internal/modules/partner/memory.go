package partner

import (
	"context"
	"slices"
	"sync"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

type memoryRepository struct {
	mu       sync.RWMutex
	partners map[string]*Partner
}

// NewMemoryRepository creates an in-memory partner registry keyed by Key.
func NewMemoryRepository() Repository {
	return &memoryRepository{partners: make(map[string]*Partner)}
}

func (r *memoryRepository) Create(ctx context.Context, p *Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.partners[p.Key()]; exists {
		return apperr.DuplicateKey(apperr.ObjectPartner, p.ID())
	}
	r.partners[p.Key()] = p
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.partners[Key(id)]
	if !ok {
		return nil, apperr.UnknownKey(apperr.ObjectPartner, id)
	}
	return p, nil
}

func (r *memoryRepository) List(ctx context.Context) ([]*Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	partners := make([]*Partner, 0, len(r.partners))
	for _, p := range r.partners {
		partners = append(partners, p)
	}
	slices.SortFunc(partners, Compare)
	return partners, nil
}
