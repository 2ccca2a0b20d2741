package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/tillpoint/tillpoint/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, text string) ([]Product, error) {
	if strings.TrimSpace(text) == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, text)
}

func (s *Service) ListByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	if categoryID <= 0 {
		return nil, fmt.Errorf("%w: invalid category id", shared.ErrValidation)
	}
	return s.repo.ListByCategory(ctx, categoryID)
}

// ListLowStock surfaces reorder candidates, lowest quantity first.
func (s *Service) ListLowStock(ctx context.Context) ([]Product, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	if err := validateForm(form); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, form)
}

func (s *Service) Update(ctx context.Context, id int64, patch ProductPatch) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	if err := validatePatch(patch); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// AdjustQuantity applies a signed delta. Stock is allowed to go negative;
// oversells show up as negative quantities rather than failed sales.
func (s *Service) AdjustQuantity(ctx context.Context, id int64, delta int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.AdjustQuantity(ctx, id, delta)
}

func (s *Service) Restock(ctx context.Context, id int64, quantity int64, newCost *float64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	if quantity <= 0 {
		return Product{}, fmt.Errorf("%w: restock quantity must be positive", shared.ErrValidation)
	}
	if newCost != nil && *newCost < 0 {
		return Product{}, fmt.Errorf("%w: cost cannot be negative", shared.ErrValidation)
	}
	return s.repo.Restock(ctx, id, quantity, newCost)
}
