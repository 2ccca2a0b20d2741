package reports

import "time"

// DaySales is one row of the per-day breakdown inside SalesReport.
type DaySales struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// SalesReport summarises sales inside an inclusive window.
type SalesReport struct {
	TotalSales   int64      `json:"total_sales"`
	TotalRevenue float64    `json:"total_revenue"`
	ItemsSold    int64      `json:"items_sold"`
	SalesByDay   []DaySales `json:"sales_by_day"`
}

// DaySummary is the count and revenue for a single calendar day.
type DaySummary struct {
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

// InventoryValue is the stock valuation at cost basis and at retail price.
type InventoryValue struct {
	TotalCost   float64 `json:"total_cost"`
	TotalRetail float64 `json:"total_retail"`
}

// TopSellingProduct aggregates sold quantity and revenue per product.
type TopSellingProduct struct {
	ProductID     int64   `json:"product_id"`
	ProductName   string  `json:"product_name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// NotSpecified is the label sales without a payment method are grouped
// under.
const NotSpecified = "Not specified"

// PaymentMethodBreakdown groups sales by payment method.
type PaymentMethodBreakdown struct {
	PaymentMethod string  `json:"payment_method"`
	Count         int64   `json:"count"`
	Total         float64 `json:"total"`
}

// ProductProfit is the per-product line of a ProfitReport. Cost basis uses
// the product's cost at report time, not at sale time.
type ProductProfit struct {
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"product_name"`
	QuantitySold int64   `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
	Cost         float64 `json:"cost"`
	Profit       float64 `json:"profit"`
}

// ProfitReport rolls product profits up into totals and a margin
// percentage. Margin is 0 when revenue is 0.
type ProfitReport struct {
	TotalRevenue float64         `json:"total_revenue"`
	TotalCost    float64         `json:"total_cost"`
	GrossProfit  float64         `json:"gross_profit"`
	ProfitMargin float64         `json:"profit_margin"`
	ByProduct    []ProductProfit `json:"by_product"`
}

// AverageSaleValue summarises total_amount over matching sales.
type AverageSaleValue struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
	Total   float64 `json:"total"`
}

// HistoryEntry is one past sale of a product.
type HistoryEntry struct {
	SaleID    int64     `json:"sale_id"`
	Date      time.Time `json:"date"`
	Quantity  int64     `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Subtotal  float64   `json:"subtotal"`
}

// ProductSalesHistory lists every sale of one product, newest first.
type ProductSalesHistory struct {
	ProductID     int64          `json:"product_id"`
	ProductName   string         `json:"product_name"`
	Sales         []HistoryEntry `json:"sales"`
	TotalQuantity int64          `json:"total_quantity"`
	TotalRevenue  float64        `json:"total_revenue"`
}
