package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

// Service exposes read access to the ledger. Transactions are written by
// the partner service as part of its commands.
type Service interface {
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	ListPartnerTransactions(ctx context.Context, partnerID string) ([]*Transaction, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.UnknownKey(apperr.ObjectTransaction, id)
	}
	return s.repo.GetByID(ctx, uid)
}

func (s *service) ListPartnerTransactions(ctx context.Context, partnerID string) ([]*Transaction, error) {
	if partnerID == "" {
		return nil, apperr.Invalid("partner_id is required")
	}
	return s.repo.ListByPartner(ctx, partnerID)
}
