package categories

import "time"

// Category groups products for navigation and filtering.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryForm carries the fields accepted when creating a category.
type CategoryForm struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// CategoryPatch lists optional fields for partial updates; nil means the
// field is left unchanged.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}
