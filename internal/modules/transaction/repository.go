package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the transaction ledger.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByPartner(ctx context.Context, partnerID string) ([]*Transaction, error)
	// MarkPaid flags a sale as paid. Paying twice fails with apperr.ErrAlreadyPaid.
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (*Transaction, error)
}
