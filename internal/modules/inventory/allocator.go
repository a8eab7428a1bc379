package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

// Sell runs the allocation in three stages:
//  1. Check the partner holds at least amount units; fail before touching
//     any batch otherwise.
//  2. Order the candidate batches by unit price, cheapest first. The sort is
//     stable so equal prices keep insertion order.
//  3. Take min(batch, remaining) from each batch until nothing remains.
func (s *service) Sell(ctx context.Context, partnerID, productID string, amount int) (*Allocation, error) {
	if amount <= 0 {
		return nil, apperr.Invalid("amount must be positive, got %d", amount)
	}

	available, err := s.repo.Count(ctx, partnerID, productID)
	if err != nil {
		return nil, fmt.Errorf("counting stock: %w", err)
	}
	if available < amount {
		return nil, &apperr.NotEnoughResourcesError{ProductID: productID, Requested: amount, Available: available}
	}

	candidates, err := s.repo.List(ctx, Filter{PartnerID: partnerID, ProductID: productID})
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	slices.SortStableFunc(candidates, byLowerPriceFirst)

	alloc := &Allocation{ProductID: productID, Quantity: amount, Total: decimal.Zero}
	remaining := amount
	for _, b := range candidates {
		taken := min(b.Amount, remaining)
		if _, err := s.repo.Take(ctx, b.ID, taken); err != nil {
			err = fmt.Errorf("taking %d from batch %s: %w", taken, b.ID, err)
			if rerr := s.Revert(ctx, alloc); rerr != nil {
				err = errors.Join(err, rerr)
			}
			return nil, err
		}
		line := AllocationLine{BatchID: b.ID, UnitPrice: b.UnitPrice, Quantity: taken}
		alloc.Lines = append(alloc.Lines, line)
		alloc.taken = append(alloc.taken, b)
		alloc.Total = alloc.Total.Add(line.Subtotal())
		remaining -= taken
		if remaining == 0 {
			break
		}
	}

	s.log.Debug("stock allocated",
		slog.String("partner", partnerID),
		slog.String("product", productID),
		slog.Int("amount", amount),
		slog.Int("batches", len(alloc.Lines)),
		slog.String("total", alloc.Total.String()),
	)
	return alloc, nil
}

func (s *service) Revert(ctx context.Context, alloc *Allocation) error {
	if len(alloc.taken) != len(alloc.Lines) {
		return apperr.Invalid("allocation of %s was not produced by Sell", alloc.ProductID)
	}
	for i, line := range alloc.Lines {
		if err := s.repo.Restore(ctx, alloc.taken[i], line.Quantity); err != nil {
			return fmt.Errorf("restoring batch %s: %w", line.BatchID, err)
		}
	}
	s.log.Debug("allocation reverted",
		slog.String("product", alloc.ProductID),
		slog.Int("amount", alloc.Quantity),
	)
	return nil
}

func byLowerPriceFirst(a, b *Batch) int {
	return a.UnitPrice.Cmp(b.UnitPrice)
}
