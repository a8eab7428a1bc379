package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the stock collaborator: it owns every batch and their
// lifecycle. Listings return copies; Take is the only way to decrement.
type Repository interface {
	Add(ctx context.Context, b *Batch) error
	Get(ctx context.Context, id uuid.UUID) (*Batch, error)
	// List returns batches with remaining stock in insertion order.
	List(ctx context.Context, f Filter) ([]*Batch, error)
	// Count sums the remaining amount of a partner's batches of a product.
	Count(ctx context.Context, partnerID, productID string) (int, error)
	// Take removes qty units from a batch and returns what is left. A batch
	// left empty is removed.
	Take(ctx context.Context, id uuid.UUID, qty int) (int, error)
	// Restore gives qty units back to batch b, re-inserting it with its
	// original position if it had been spent.
	Restore(ctx context.Context, b *Batch, qty int) error
}
