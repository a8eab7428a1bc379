package inventory

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

// Service defines stock operations over partner-held batches.
type Service interface {
	AddBatch(ctx context.Context, req AddBatchRequest) (*Batch, error)
	GetBatch(ctx context.Context, id string) (*Batch, error)
	ListBatches(ctx context.Context, f Filter) ([]*Batch, error)
	Available(ctx context.Context, partnerID, productID string) (int, error)

	// Sell consumes amount units of a product from a partner's batches,
	// cheapest first, and returns what was taken and the total price.
	Sell(ctx context.Context, partnerID, productID string, amount int) (*Allocation, error)
	// Revert puts back every unit an allocation returned by Sell took.
	Revert(ctx context.Context, alloc *Allocation) error
	// RemoveBatch withdraws whatever is left of a batch.
	RemoveBatch(ctx context.Context, id uuid.UUID) error
}

// AddBatchRequest holds data for putting a new batch into stock.
type AddBatchRequest struct {
	PartnerID string
	ProductID string
	UnitPrice decimal.Decimal
	Amount    int
}

type service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new inventory service.
func NewService(repo Repository, log *slog.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) AddBatch(ctx context.Context, req AddBatchRequest) (*Batch, error) {
	if strings.TrimSpace(req.PartnerID) == "" || strings.TrimSpace(req.ProductID) == "" {
		return nil, apperr.Invalid("partner_id and product_id are required")
	}
	if !req.UnitPrice.IsPositive() {
		return nil, apperr.Invalid("unit price must be positive, got %s", req.UnitPrice)
	}
	if req.Amount <= 0 {
		return nil, apperr.Invalid("amount must be positive, got %d", req.Amount)
	}
	b := &Batch{
		ID:        uuid.New(),
		ProductID: req.ProductID,
		PartnerID: req.PartnerID,
		UnitPrice: req.UnitPrice,
		Amount:    req.Amount,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBatch(ctx context.Context, id string) (*Batch, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.UnknownKey(apperr.ObjectBatch, id)
	}
	return s.repo.Get(ctx, uid)
}

func (s *service) ListBatches(ctx context.Context, f Filter) ([]*Batch, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Available(ctx context.Context, partnerID, productID string) (int, error) {
	return s.repo.Count(ctx, partnerID, productID)
}

func (s *service) RemoveBatch(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.repo.Take(ctx, id, b.Amount)
	return err
}
