package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch is a quantity of one product held by a partner at a uniform unit
// price. Amount never goes negative; a batch that reaches zero is removed
// from the arena by the repository.
type Batch struct {
	ID        uuid.UUID       `json:"id"`
	ProductID string          `json:"product_id"`
	PartnerID string          `json:"partner_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    int             `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`

	// seq records insertion order and breaks price ties deterministically.
	seq uint64
}

// Filter narrows a batch listing. Empty fields match everything.
type Filter struct {
	PartnerID string
	ProductID string
}

// AllocationLine records how many units a sale took from one batch.
type AllocationLine struct {
	BatchID   uuid.UUID       `json:"batch_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is UnitPrice * Quantity.
func (l AllocationLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Allocation is the outcome of selling a quantity of one product.
type Allocation struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Lines     []AllocationLine `json:"lines"`
	Total     decimal.Decimal  `json:"total"`

	// taken holds each consumed batch as it was before the sale, one per
	// line, so the allocation can be reverted.
	taken []*Batch
}
