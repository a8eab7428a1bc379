package partner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/warehouse/internal/apperr"
	"github.com/georgemunganga/warehouse/internal/modules/catalog"
	"github.com/georgemunganga/warehouse/internal/modules/inventory"
	"github.com/georgemunganga/warehouse/internal/modules/transaction"
)

// Service defines partner commands and queries. Every command runs under a
// single lock so a sale and the points it earns are applied as one unit.
type Service interface {
	RegisterPartner(ctx context.Context, req RegisterPartnerRequest) (*Partner, error)
	GetPartner(ctx context.Context, id string) (*Partner, error)
	ListPartners(ctx context.Context) ([]*Partner, error)

	// Acquire puts a new batch into the partner's stock.
	Acquire(ctx context.Context, partnerID string, req AcquireRequest) (*transaction.Transaction, error)
	// Sell consumes the partner's cheapest batches and awards points.
	Sell(ctx context.Context, partnerID string, req SellRequest) (*transaction.Transaction, error)
	// PaySale settles one of the partner's sales.
	PaySale(ctx context.Context, partnerID, transactionID string) (*transaction.Transaction, error)
	// ApplyPenalty decays the partner's points for period elapsed periods.
	ApplyPenalty(ctx context.Context, partnerID string, period int) (*Partner, error)

	ListTransactions(ctx context.Context, partnerID string) ([]*transaction.Transaction, error)
}

// ProductLookup resolves product ids. catalog.Service satisfies it.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// RegisterPartnerRequest holds data for registering a partner.
type RegisterPartnerRequest struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// AcquireRequest holds data for an acquisition.
type AcquireRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    int             `json:"amount" validate:"gt=0"`
}

// SellRequest holds data for a sale.
type SellRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Amount    int    `json:"amount" validate:"gt=0"`
}

type service struct {
	mu sync.Mutex

	repo     Repository
	ladder   *Ladder
	products ProductLookup
	stock    inventory.Service
	ledger   transaction.Repository
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new partner service.
func NewService(repo Repository, ladder *Ladder, products ProductLookup, stock inventory.Service, ledger transaction.Repository, log *slog.Logger) Service {
	return &service{
		repo:     repo,
		ladder:   ladder,
		products: products,
		stock:    stock,
		ledger:   ledger,
		log:      log,
		now:      time.Now,
	}
}

func (s *service) RegisterPartner(ctx context.Context, req RegisterPartnerRequest) (*Partner, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, apperr.Invalid("partner id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := New(id, req.Name, req.Address, s.ladder)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("partner registered", slog.String("partner", p.ID()), slog.String("rank", p.Rank().Name))
	return p.clone(), nil
}

func (s *service) GetPartner(ctx context.Context, id string) (*Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.clone(), nil
}

func (s *service) ListPartners(ctx context.Context) ([]*Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	partners, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Partner, len(partners))
	for i, p := range partners {
		out[i] = p.clone()
	}
	return out, nil
}

func (s *service) Acquire(ctx context.Context, partnerID string, req AcquireRequest) (*transaction.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperr.Invalid("amount must be positive, got %d", req.Amount)
	}
	if !req.UnitPrice.IsPositive() {
		return nil, apperr.Invalid("unit_price must be positive, got %s", req.UnitPrice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	batch, err := s.stock.AddBatch(ctx, inventory.AddBatchRequest{
		PartnerID: p.ID(),
		ProductID: product.ID,
		UnitPrice: req.UnitPrice,
		Amount:    req.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("adding batch: %w", err)
	}

	now := s.now()
	tx := &transaction.Transaction{
		ID:        uuid.New(),
		Type:      transaction.TypeAcquisition,
		PartnerID: p.ID(),
		ProductID: product.ID,
		Quantity:  req.Amount,
		Amount:    batch.UnitPrice.Mul(decimal.NewFromInt(int64(batch.Amount))),
		Paid:      true,
		PaidAt:    &now,
		CreatedAt: now,
	}
	if err := s.ledger.Create(ctx, tx); err != nil {
		err = fmt.Errorf("recording acquisition: %w", err)
		if rerr := s.stock.RemoveBatch(ctx, batch.ID); rerr != nil {
			s.log.Error("withdrawing unrecorded batch failed", slog.String("batch", batch.ID.String()), slog.Any("error", rerr))
			return nil, errors.Join(err, rerr)
		}
		return nil, err
	}

	p.recordPurchase(tx.Amount)
	p.AddTransaction(tx.ID)
	s.log.Info("acquisition recorded",
		slog.String("partner", p.ID()),
		slog.String("product", product.ID),
		slog.Int("amount", req.Amount),
		slog.String("price", tx.Amount.String()),
	)
	return tx, nil
}

func (s *service) Sell(ctx context.Context, partnerID string, req SellRequest) (*transaction.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperr.Invalid("amount must be positive, got %d", req.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	alloc, err := s.stock.Sell(ctx, p.ID(), product.ID, req.Amount)
	if err != nil {
		return nil, err
	}
	points, err := p.pointsAfter(alloc.Total)
	if err != nil {
		return nil, s.undoSale(ctx, alloc, err)
	}

	now := s.now()
	tx := &transaction.Transaction{
		ID:        uuid.New(),
		Type:      transaction.TypeSale,
		PartnerID: p.ID(),
		ProductID: product.ID,
		Quantity:  alloc.Quantity,
		Amount:    alloc.Total,
		Lines:     alloc.Lines,
		CreatedAt: now,
	}
	if err := s.ledger.Create(ctx, tx); err != nil {
		return nil, s.undoSale(ctx, alloc, fmt.Errorf("recording sale: %w", err))
	}

	before := p.Rank()
	p.recordSale(alloc.Total)
	p.points = points
	p.updateRank()
	p.AddTransaction(tx.ID)

	s.log.Info("sale recorded",
		slog.String("partner", p.ID()),
		slog.String("product", product.ID),
		slog.Int("amount", req.Amount),
		slog.String("price", alloc.Total.String()),
		slog.Int("points", p.Points()),
	)
	s.logRankChange(p, before)
	return tx, nil
}

func (s *service) PaySale(ctx context.Context, partnerID, transactionID string) (*transaction.Transaction, error) {
	txID, err := uuid.Parse(transactionID)
	if err != nil {
		return nil, apperr.UnknownKey(apperr.ObjectTransaction, transactionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if !p.HasTransaction(txID) {
		return nil, apperr.UnknownKey(apperr.ObjectTransaction, transactionID)
	}

	tx, err := s.ledger.MarkPaid(ctx, txID, s.now())
	if err != nil {
		return nil, err
	}
	p.recordPayment(tx.Amount)
	s.log.Info("sale paid", slog.String("partner", p.ID()), slog.String("transaction", tx.ID.String()))
	return tx, nil
}

func (s *service) ApplyPenalty(ctx context.Context, partnerID string, period int) (*Partner, error) {
	if period < 0 {
		return nil, apperr.Invalid("period must not be negative, got %d", period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	before, points := p.Rank(), p.Points()
	if err := p.TakePoints(period); err != nil {
		return nil, err
	}
	s.log.Info("points penalty applied",
		slog.String("partner", p.ID()),
		slog.Int("period", period),
		slog.Int("points_before", points),
		slog.Int("points", p.Points()),
	)
	s.logRankChange(p, before)
	return p.clone(), nil
}

func (s *service) ListTransactions(ctx context.Context, partnerID string) ([]*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	txs, err := s.ledger.ListByPartner(ctx, p.ID())
	if err != nil {
		return nil, err
	}
	out := make([]*transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		if p.HasTransaction(tx.ID) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// undoSale returns the allocated units to stock after a later step of a sale
// failed, so the sale leaves nothing behind.
func (s *service) undoSale(ctx context.Context, alloc *inventory.Allocation, cause error) error {
	if err := s.stock.Revert(ctx, alloc); err != nil {
		s.log.Error("reverting sale failed", slog.String("product", alloc.ProductID), slog.Any("error", err))
		return errors.Join(cause, err)
	}
	return cause
}

func (s *service) logRankChange(p *Partner, before Rank) {
	if before.Name == p.Rank().Name {
		return
	}
	s.log.Info("partner rank changed",
		slog.String("partner", p.ID()),
		slog.String("from", before.Name),
		slog.String("to", p.Rank().Name),
		slog.Int("points", p.Points()),
	)
}
