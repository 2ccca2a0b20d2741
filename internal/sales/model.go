package sales

import "time"

// Sale is an immutable checkout record. total_amount is derived when the
// sale is created and never recomputed afterwards.
type Sale struct {
	ID            int64      `json:"id"`
	TotalAmount   float64    `json:"total_amount"`
	PaymentMethod *string    `json:"payment_method"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	Items         []SaleItem `json:"items,omitempty"`
}

// SaleItem is one product line within a sale. UnitPrice is a snapshot of
// the product price at sale time and is unaffected by later price changes.
type SaleItem struct {
	ID          int64   `json:"id"`
	SaleID      int64   `json:"sale_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}
