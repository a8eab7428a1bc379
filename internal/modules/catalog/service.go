package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
}

// CreateProductRequest holds the data for registering a product.
type CreateProductRequest struct {
	ID          string `json:"id" validate:"required"`
	Description string `json:"description"`
}

// UpdateProductRequest holds the mutable product fields.
type UpdateProductRequest struct {
	Description string `json:"description"`
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, apperr.Invalid("product id is required")
	}
	now := time.Now()
	p := &Product{
		ID:          id,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *p
	updated.Description = req.Description
	updated.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
