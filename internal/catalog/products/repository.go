package products

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint/tillpoint/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Search(ctx context.Context, text string) ([]Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]Product, error)
	ListLowStock(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, form ProductForm) (Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	AdjustQuantity(ctx context.Context, id int64, delta int64) (Product, error)
	Restock(ctx context.Context, id int64, quantity int64, newCost *float64) (Product, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Standard reads exclude tombstoned rows and join the category name.
const selectProducts = `
	SELECT p.id, p.name, p.description, p.sku, p.price, p.cost,
	       p.quantity, p.min_quantity, p.category_id, c.name AS category_name,
	       p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	WHERE p.deleted_at IS NULL`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &p.Price, &p.Cost,
		&p.Quantity, &p.MinQuantity, &p.CategoryID, &p.CategoryName,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, selectProducts+` ORDER BY p.name`)
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectProducts+` AND p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Search(ctx context.Context, text string) ([]Product, error) {
	pattern := "%" + text + "%"
	return r.queryProducts(ctx,
		selectProducts+` AND (p.name ILIKE $1 OR p.sku ILIKE $1 OR c.name ILIKE $1) ORDER BY p.name`,
		pattern)
}

func (r *repository) ListByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	return r.queryProducts(ctx, selectProducts+` AND p.category_id = $1 ORDER BY p.name`, categoryID)
}

func (r *repository) ListLowStock(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, selectProducts+` AND p.quantity <= p.min_quantity ORDER BY p.quantity ASC`)
}

func (r *repository) Create(ctx context.Context, form ProductForm) (Product, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, description, sku, price, cost, quantity, min_quantity, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		form.Name, form.Description, form.SKU, form.Price, form.Cost,
		form.Quantity, form.MinQuantity, form.CategoryID,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, patch ProductPatch) (Product, error) {
	// An empty patch short-circuits before the updated_at refresh.
	if patch.IsEmpty() {
		return r.Get(ctx, id)
	}

	fields := []string{}
	args := []interface{}{}
	argCount := 0

	add := func(column string, value interface{}) {
		argCount++
		fields = append(fields, column+" = $"+strconv.Itoa(argCount))
		args = append(args, value)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.SKU != nil {
		add("sku", *patch.SKU)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Cost != nil {
		add("cost", *patch.Cost)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.MinQuantity != nil {
		add("min_quantity", *patch.MinQuantity)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}

	query := "UPDATE products SET " + fields[0]
	for _, f := range fields[1:] {
		query += ", " + f
	}
	query += ", updated_at = now()"
	argCount++
	query += " WHERE id = $" + strconv.Itoa(argCount) + " AND deleted_at IS NULL"
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return Product{}, err
	}
	if tag.RowsAffected() == 0 {
		return Product{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete tombstones the row. SKU uniqueness is enforced by a partial index
// over active rows, so the SKU value stays intact and becomes reusable.
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) AdjustQuantity(ctx context.Context, id int64, delta int64) (Product, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET quantity = quantity + $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL`,
		delta, id)
	if err != nil {
		return Product{}, err
	}
	if tag.RowsAffected() == 0 {
		return Product{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Restock(ctx context.Context, id int64, quantity int64, newCost *float64) (Product, error) {
	var tagQuery string
	var args []interface{}
	if newCost != nil {
		tagQuery = `UPDATE products SET quantity = quantity + $1, cost = $2, updated_at = now() WHERE id = $3 AND deleted_at IS NULL`
		args = []interface{}{quantity, *newCost, id}
	} else {
		tagQuery = `UPDATE products SET quantity = quantity + $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL`
		args = []interface{}{quantity, id}
	}
	tag, err := r.pool.Exec(ctx, tagQuery, args...)
	if err != nil {
		return Product{}, err
	}
	if tag.RowsAffected() == 0 {
		return Product{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}
