package products

import (
	"fmt"
	"strings"

	"github.com/tillpoint/tillpoint/internal/shared"
)

func validateForm(form ProductForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if form.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", shared.ErrValidation)
	}
	if form.Cost < 0 {
		return fmt.Errorf("%w: cost cannot be negative", shared.ErrValidation)
	}
	if form.MinQuantity < 0 {
		return fmt.Errorf("%w: min_quantity cannot be negative", shared.ErrValidation)
	}
	return nil
}

func validatePatch(patch ProductPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: product name cannot be empty", shared.ErrValidation)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", shared.ErrValidation)
	}
	if patch.Cost != nil && *patch.Cost < 0 {
		return fmt.Errorf("%w: cost cannot be negative", shared.ErrValidation)
	}
	if patch.MinQuantity != nil && *patch.MinQuantity < 0 {
		return fmt.Errorf("%w: min_quantity cannot be negative", shared.ErrValidation)
	}
	return nil
}
