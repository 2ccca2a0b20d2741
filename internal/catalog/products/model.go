package products

import "time"

// Product is a sellable catalog item. Quantity is signed: sales are allowed
// to drive stock below zero and the deficit is surfaced by reports instead
// of blocking the till.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	SKU          *string   `json:"sku"`
	Price        float64   `json:"price"`
	Cost         float64   `json:"cost"`
	Quantity     int64     `json:"quantity"`
	MinQuantity  int64     `json:"min_quantity"`
	CategoryID   *int64    `json:"category_id"`
	CategoryName *string   `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LowStock reports whether the product has fallen to or below its reorder
// threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.MinQuantity
}
