package sales

// SaleLine is one requested product+quantity entry at checkout.
type SaleLine struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int64 `json:"quantity" validate:"gt=0"`
}

// CreateSaleRequest carries a checkout payload.
type CreateSaleRequest struct {
	Items         []SaleLine `json:"items" validate:"min=1,dive"`
	PaymentMethod *string    `json:"payment_method"`
	Notes         *string    `json:"notes"`
}
