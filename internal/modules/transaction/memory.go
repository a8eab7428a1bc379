package transaction

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

type memoryRepo struct {
	mu    sync.RWMutex
	txs   map[uuid.UUID]*Transaction
	order []uuid.UUID
}

// NewMemoryRepository creates an append-only in-memory ledger.
func NewMemoryRepository() Repository {
	return &memoryRepo{txs: make(map[uuid.UUID]*Transaction)}
}

func (r *memoryRepo) Create(ctx context.Context, tx *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.txs[tx.ID]; exists {
		return apperr.DuplicateKey(apperr.ObjectTransaction, tx.ID.String())
	}
	stored := *tx
	r.txs[tx.ID] = &stored
	r.order = append(r.order, tx.ID)
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, apperr.UnknownKey(apperr.ObjectTransaction, id.String())
	}
	c := *tx
	return &c, nil
}

func (r *memoryRepo) ListByPartner(ctx context.Context, partnerID string) ([]*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var txs []*Transaction
	for _, id := range r.order {
		tx := r.txs[id]
		if strings.EqualFold(tx.PartnerID, partnerID) {
			c := *tx
			txs = append(txs, &c)
		}
	}
	return txs, nil
}

func (r *memoryRepo) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, apperr.UnknownKey(apperr.ObjectTransaction, id.String())
	}
	if tx.Type != TypeSale {
		return nil, apperr.Invalid("only %s transactions can be paid, got %s", TypeSale, tx.Type)
	}
	if tx.Paid {
		return nil, fmt.Errorf("transaction %s: %w", id, apperr.ErrAlreadyPaid)
	}
	tx.Paid = true
	tx.PaidAt = &at
	c := *tx
	return &c, nil
}
