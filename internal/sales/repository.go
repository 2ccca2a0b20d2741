package sales

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/shared"
)

// Repository persists sales and their line items.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (*Sale, error)
	List(ctx context.Context) ([]Sale, error)
	ListRange(ctx context.Context, from, to time.Time) ([]Sale, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// TxRepository groups the writes that make up a single sale.
type TxRepository interface {
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	InsertItem(ctx context.Context, item SaleItem) (int64, error)
	DecrementStock(ctx context.Context, productID, quantity int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const saleColumns = `id, total_amount, payment_method, notes, created_at`

func scanSales(rows pgx.Rows) ([]Sale, error) {
	defer rows.Close()
	var sales []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.TotalAmount, &s.PaymentMethod, &s.Notes, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Sale, error) {
	var s Sale
	err := r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id).
		Scan(&s.ID, &s.TotalAmount, &s.PaymentMethod, &s.Notes, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT si.id, si.sale_id, si.product_id, p.name, si.quantity, si.unit_price, si.subtotal
		 FROM sale_items si
		 JOIN products p ON si.product_id = p.id
		 WHERE si.sale_id = $1
		 ORDER BY si.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, err
		}
		s.Items = append(s.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]Sale, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return scanSales(rows)
}

func (r *repository) ListRange(ctx context.Context, from, to time.Time) ([]Sale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at DESC, id DESC`,
		from, to)
	if err != nil {
		return nil, err
	}
	return scanSales(rows)
}

// Delete removes the sale; its items cascade with it. Consumed stock is not
// restored.
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO sales (total_amount, payment_method, notes) VALUES ($1, $2, $3) RETURNING id`,
		sale.TotalAmount, sale.PaymentMethod, sale.Notes,
	).Scan(&id)
	return id, err
}

func (t *txRepository) InsertItem(ctx context.Context, item SaleItem) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	).Scan(&id)
	return id, err
}

// DecrementStock subtracts sold quantity. There is no floor check; the
// resulting quantity may go negative.
func (t *txRepository) DecrementStock(ctx context.Context, productID, quantity int64) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE products SET quantity = quantity - $1, updated_at = now() WHERE id = $2`,
		quantity, productID)
	return err
}
