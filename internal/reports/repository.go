package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentMethodRow is the raw grouping row before label normalisation.
type PaymentMethodRow struct {
	PaymentMethod *string
	Count         int64
	Total         float64
}

// Repository runs the aggregate queries reports are built from.
type Repository interface {
	SalesSummary(ctx context.Context, from, to time.Time) (count int64, revenue float64, err error)
	ItemsSold(ctx context.Context, from, to time.Time) (int64, error)
	SalesByDay(ctx context.Context, from, to time.Time) ([]DaySales, error)
	TodaysSales(ctx context.Context) (DaySummary, error)
	InventoryValue(ctx context.Context) (InventoryValue, error)
	TopSellingProducts(ctx context.Context, limit int, from, to *time.Time) ([]TopSellingProduct, error)
	SalesByPaymentMethod(ctx context.Context, from, to *time.Time) ([]PaymentMethodRow, error)
	ProfitByProduct(ctx context.Context, from, to *time.Time) ([]ProductProfit, error)
	AverageSaleValue(ctx context.Context, from, to *time.Time) (AverageSaleValue, error)
	ProductSales(ctx context.Context, productID int64) ([]HistoryEntry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) SalesSummary(ctx context.Context, from, to time.Time) (int64, float64, error) {
	var count int64
	var revenue float64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		 FROM sales WHERE created_at >= $1 AND created_at <= $2`,
		from, to).Scan(&count, &revenue)
	return count, revenue, err
}

func (r *repository) ItemsSold(ctx context.Context, from, to time.Time) (int64, error) {
	var items int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(si.quantity), 0)
		 FROM sale_items si
		 JOIN sales s ON si.sale_id = s.id
		 WHERE s.created_at >= $1 AND s.created_at <= $2`,
		from, to).Scan(&items)
	return items, err
}

func (r *repository) SalesByDay(ctx context.Context, from, to time.Time) ([]DaySales, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT created_at::date AS day, SUM(total_amount), COUNT(*)
		 FROM sales
		 WHERE created_at >= $1 AND created_at <= $2
		 GROUP BY created_at::date
		 ORDER BY day`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DaySales
	for rows.Next() {
		var day time.Time
		var d DaySales
		if err := rows.Scan(&day, &d.Total, &d.Count); err != nil {
			return nil, err
		}
		d.Date = day.Format("2006-01-02")
		days = append(days, d)
	}
	return days, rows.Err()
}

// TodaysSales pins the day boundary to UTC rather than the session
// timezone so it rolls over together with the UTC-dated cache key.
func (r *repository) TodaysSales(ctx context.Context) (DaySummary, error) {
	var s DaySummary
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		 FROM sales
		 WHERE (created_at AT TIME ZONE 'UTC')::date = (now() AT TIME ZONE 'UTC')::date`).Scan(&s.Count, &s.Total)
	return s, err
}

// InventoryValue scans every product row, tombstoned ones included, so
// the valuation still counts stock held for delisted products.
func (r *repository) InventoryValue(ctx context.Context) (InventoryValue, error) {
	var v InventoryValue
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(cost * quantity), 0), COALESCE(SUM(price * quantity), 0)
		 FROM products`).Scan(&v.TotalCost, &v.TotalRetail)
	return v, err
}

// saleWindow renders an optional inclusive window over s.created_at. The
// "OR s.id IS NULL" keeps never-sold products visible to the LEFT JOIN
// aggregates so that HAVING can exclude them by quantity instead.
func saleWindow(from, to *time.Time, argPos int) (string, []interface{}) {
	if from == nil || to == nil {
		return "", nil
	}
	clause := " WHERE (s.created_at >= $" + strconv.Itoa(argPos) +
		" AND s.created_at <= $" + strconv.Itoa(argPos+1) + ") OR s.id IS NULL"
	return clause, []interface{}{*from, *to}
}

func (r *repository) TopSellingProducts(ctx context.Context, limit int, from, to *time.Time) ([]TopSellingProduct, error) {
	query := `
		SELECT p.id, p.name,
		       COALESCE(SUM(si.quantity), 0) AS total_quantity,
		       COALESCE(SUM(si.subtotal), 0) AS total_revenue
		FROM products p
		LEFT JOIN sale_items si ON p.id = si.product_id
		LEFT JOIN sales s ON si.sale_id = s.id`
	clause, args := saleWindow(from, to, 1)
	query += clause
	query += `
		GROUP BY p.id, p.name
		HAVING COALESCE(SUM(si.quantity), 0) > 0
		ORDER BY total_quantity DESC
		LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []TopSellingProduct
	for rows.Next() {
		var t TopSellingProduct
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.TotalQuantity, &t.TotalRevenue); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

func (r *repository) SalesByPaymentMethod(ctx context.Context, from, to *time.Time) ([]PaymentMethodRow, error) {
	query := `SELECT payment_method, COUNT(*), COALESCE(SUM(total_amount), 0) AS total FROM sales`
	var args []interface{}
	if from != nil && to != nil {
		query += ` WHERE created_at >= $1 AND created_at <= $2`
		args = append(args, *from, *to)
	}
	query += ` GROUP BY payment_method ORDER BY total DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []PaymentMethodRow
	for rows.Next() {
		var g PaymentMethodRow
		if err := rows.Scan(&g.PaymentMethod, &g.Count, &g.Total); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *repository) ProfitByProduct(ctx context.Context, from, to *time.Time) ([]ProductProfit, error) {
	query := `
		SELECT p.id, p.name,
		       COALESCE(SUM(si.quantity), 0) AS quantity_sold,
		       COALESCE(SUM(si.subtotal), 0) AS revenue,
		       COALESCE(SUM(si.quantity * p.cost), 0) AS cost,
		       COALESCE(SUM(si.subtotal - (si.quantity * p.cost)), 0) AS profit
		FROM products p
		LEFT JOIN sale_items si ON p.id = si.product_id
		LEFT JOIN sales s ON si.sale_id = s.id`
	clause, args := saleWindow(from, to, 1)
	query += clause
	query += `
		GROUP BY p.id, p.name
		HAVING COALESCE(SUM(si.quantity), 0) > 0
		ORDER BY profit DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profits []ProductProfit
	for rows.Next() {
		var p ProductProfit
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.QuantitySold, &p.Revenue, &p.Cost, &p.Profit); err != nil {
			return nil, err
		}
		profits = append(profits, p)
	}
	return profits, rows.Err()
}

func (r *repository) AverageSaleValue(ctx context.Context, from, to *time.Time) (AverageSaleValue, error) {
	query := `SELECT COALESCE(AVG(total_amount), 0), COUNT(*), COALESCE(SUM(total_amount), 0) FROM sales`
	var args []interface{}
	if from != nil && to != nil {
		query += ` WHERE created_at >= $1 AND created_at <= $2`
		args = append(args, *from, *to)
	}

	var v AverageSaleValue
	err := r.pool.QueryRow(ctx, query, args...).Scan(&v.Average, &v.Count, &v.Total)
	return v, err
}

func (r *repository) ProductSales(ctx context.Context, productID int64) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT si.sale_id, s.created_at, si.quantity, si.unit_price, si.subtotal
		 FROM sale_items si
		 JOIN sales s ON si.sale_id = s.id
		 WHERE si.product_id = $1
		 ORDER BY s.created_at DESC`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.SaleID, &e.Date, &e.Quantity, &e.UnitPrice, &e.Subtotal); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
