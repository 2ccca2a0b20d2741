package products

// ProductForm carries the fields accepted when creating a product.
type ProductForm struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	SKU         *string `json:"sku"`
	Price       float64 `json:"price" validate:"gte=0"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	Quantity    int64   `json:"quantity"`
	MinQuantity int64   `json:"min_quantity" validate:"gte=0"`
	CategoryID  *int64  `json:"category_id"`
}

// ProductPatch lists optional fields for partial updates; nil means the
// field is left unchanged. An all-nil patch is a no-op and does not touch
// updated_at.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	SKU         *string  `json:"sku"`
	Price       *float64 `json:"price"`
	Cost        *float64 `json:"cost"`
	Quantity    *int64   `json:"quantity"`
	MinQuantity *int64   `json:"min_quantity"`
	CategoryID  *int64   `json:"category_id"`
}

// IsEmpty reports whether the patch carries no fields.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.SKU == nil &&
		p.Price == nil && p.Cost == nil && p.Quantity == nil &&
		p.MinQuantity == nil && p.CategoryID == nil
}

// AdjustRequest applies a signed delta to a product's quantity.
type AdjustRequest struct {
	Delta int64 `json:"delta"`
}

// RestockRequest increases quantity and optionally overwrites cost.
type RestockRequest struct {
	Quantity int64    `json:"quantity" validate:"gt=0"`
	Cost     *float64 `json:"cost"`
}
