package categories

import (
	"fmt"
	"strings"

	"github.com/tillpoint/tillpoint/internal/shared"
)

func validateForm(form CategoryForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}
	return nil
}

func validatePatch(patch CategoryPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: category name cannot be empty", shared.ErrValidation)
	}
	return nil
}
