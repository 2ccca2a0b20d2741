package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tillpoint/tillpoint/internal/catalog/products"
	"github.com/tillpoint/tillpoint/internal/shared"
)

// Catalog resolves products at checkout. Soft-deleted products do not
// resolve, so they cannot be sold.
type Catalog interface {
	Get(ctx context.Context, id int64) (products.Product, error)
}

// CacheInvalidator is notified after writes that change report results.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Service owns the checkout workflow.
type Service struct {
	repo        Repository
	catalog     Catalog
	idempotency *shared.IdempotencyStore
	invalidator CacheInvalidator
	logger      *slog.Logger
}

func NewService(repo Repository, catalog Catalog, idem *shared.IdempotencyStore, invalidator CacheInvalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		catalog:     catalog,
		idempotency: idem,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Create records a sale: every line gets the product's current price as its
// snapshot, subtotals roll up into total_amount, and stock is decremented
// per line. The whole write runs in one transaction; a missing product
// fails the call before anything is committed.
func (s *Service) Create(ctx context.Context, req CreateSaleRequest, idempotencyKey string) (*Sale, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: sale requires at least one item", shared.ErrValidation)
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", shared.ErrValidation)
		}
	}

	if s.idempotency != nil && idempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, "sales"); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return nil, fmt.Errorf("%w: sale already recorded for this key", shared.ErrConflict)
			}
			return nil, err
		}
	}

	sale, err := s.create(ctx, req)
	if err != nil {
		if s.idempotency != nil && idempotencyKey != "" {
			if delErr := s.idempotency.Delete(ctx, idempotencyKey); delErr != nil {
				s.logger.Warn("release idempotency key", slog.String("key", idempotencyKey), slog.Any("error", delErr))
			}
		}
		return nil, err
	}

	s.bump(ctx)
	return sale, nil
}

func (s *Service) create(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	var total float64
	items := make([]SaleItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.catalog.Get(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("product %d not found: %w", line.ProductID, shared.ErrNotFound)
			}
			return nil, fmt.Errorf("resolve product %d: %w", line.ProductID, err)
		}
		subtotal := product.Price * float64(line.Quantity)
		total += subtotal
		items = append(items, SaleItem{
			ProductID:   line.ProductID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
		})
	}

	var saleID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertSale(ctx, Sale{
			TotalAmount:   total,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
		})
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		saleID = id

		for i := range items {
			items[i].SaleID = saleID
			itemID, err := tx.InsertItem(ctx, items[i])
			if err != nil {
				return fmt.Errorf("insert sale item: %w", err)
			}
			items[i].ID = itemID

			if err := tx.DecrementStock(ctx, items[i].ProductID, items[i].Quantity); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, saleID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid sale id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Sale, error) {
	return s.repo.List(ctx)
}

// ListRange returns sales created within [from, to], newest first.
func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]Sale, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end precedes start", shared.ErrValidation)
	}
	return s.repo.ListRange(ctx, from, to)
}

// Delete hard-deletes the sale. Stock consumed by the sale stays consumed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: invalid sale id", shared.ErrValidation)
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.bump(ctx)
	}
	return removed, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx); err != nil {
		s.logger.Warn("bump reports cache", slog.Any("error", err))
	}
}
