package inventory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

// memoryRepository is an arena of batches indexed by product.
type memoryRepository struct {
	mu        sync.RWMutex
	batches   map[uuid.UUID]*Batch
	byProduct map[string][]uuid.UUID
	seq       uint64
}

// NewMemoryRepository creates an empty in-memory stock.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		batches:   make(map[uuid.UUID]*Batch),
		byProduct: make(map[string][]uuid.UUID),
	}
}

func key(id string) string { return strings.ToLower(id) }

func (r *memoryRepository) Add(ctx context.Context, b *Batch) error {
	if b.Amount <= 0 {
		return apperr.Invalid("batch amount must be positive, got %d", b.Amount)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.batches[b.ID]; exists {
		return apperr.DuplicateKey(apperr.ObjectBatch, b.ID.String())
	}
	r.seq++
	stored := *b
	stored.seq = r.seq
	r.batches[b.ID] = &stored
	pk := key(b.ProductID)
	r.byProduct[pk] = append(r.byProduct[pk], b.ID)
	b.seq = stored.seq
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id uuid.UUID) (*Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.batches[id]
	if !ok {
		return nil, apperr.UnknownKey(apperr.ObjectBatch, id.String())
	}
	c := *b
	return &c, nil
}

func (r *memoryRepository) List(ctx context.Context, f Filter) ([]*Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []uuid.UUID
	if f.ProductID != "" {
		ids = r.byProduct[key(f.ProductID)]
	} else {
		ids = make([]uuid.UUID, 0, len(r.batches))
		for id := range r.batches {
			ids = append(ids, id)
		}
	}

	out := make([]*Batch, 0, len(ids))
	for _, id := range ids {
		b := r.batches[id]
		if b.Amount <= 0 {
			continue
		}
		if f.PartnerID != "" && key(b.PartnerID) != key(f.PartnerID) {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *Batch) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *memoryRepository) Count(ctx context.Context, partnerID, productID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, id := range r.byProduct[key(productID)] {
		b := r.batches[id]
		if key(b.PartnerID) == key(partnerID) {
			total += b.Amount
		}
	}
	return total, nil
}

func (r *memoryRepository) Take(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok {
		return 0, apperr.UnknownKey(apperr.ObjectBatch, id.String())
	}
	if qty <= 0 || qty > b.Amount {
		return b.Amount, apperr.Invalid("cannot take %d units from batch %s holding %d", qty, id, b.Amount)
	}
	b.Amount -= qty
	if b.Amount == 0 {
		r.remove(b)
	}
	return b.Amount, nil
}

func (r *memoryRepository) Restore(ctx context.Context, b *Batch, qty int) error {
	if qty <= 0 {
		return apperr.Invalid("cannot restore %d units to batch %s", qty, b.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.batches[b.ID]; ok {
		cur.Amount += qty
		return nil
	}
	stored := *b
	stored.Amount = qty
	r.batches[b.ID] = &stored
	pk := key(b.ProductID)
	r.byProduct[pk] = append(r.byProduct[pk], b.ID)
	return nil
}

// remove drops a spent batch from the arena. Caller holds the write lock.
func (r *memoryRepository) remove(b *Batch) {
	delete(r.batches, b.ID)
	pk := key(b.ProductID)
	ids := r.byProduct[pk]
	if i := slices.Index(ids, b.ID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	}
	if len(ids) == 0 {
		delete(r.byProduct, pk)
		return
	}
	r.byProduct[pk] = ids
}
