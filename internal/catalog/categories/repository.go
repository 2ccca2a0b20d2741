package categories

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, form CategoryForm) (Category, error)
	Update(ctx context.Context, id int64, patch CategoryPatch) (Category, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryColumns = `id, name, description, color, created_at`

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, form CategoryForm) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, description, color) VALUES ($1, $2, $3) RETURNING `+categoryColumns,
		form.Name, form.Description, form.Color,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, patch CategoryPatch) (Category, error) {
	fields := []string{}
	args := []interface{}{}
	argCount := 0

	if patch.Name != nil {
		argCount++
		fields = append(fields, "name = $"+strconv.Itoa(argCount))
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		argCount++
		fields = append(fields, "description = $"+strconv.Itoa(argCount))
		args = append(args, *patch.Description)
	}
	if patch.Color != nil {
		argCount++
		fields = append(fields, "color = $"+strconv.Itoa(argCount))
		args = append(args, *patch.Color)
	}

	if len(fields) == 0 {
		return r.Get(ctx, id)
	}

	query := "UPDATE categories SET " + fields[0]
	for _, f := range fields[1:] {
		query += ", " + f
	}
	argCount++
	query += " WHERE id = $" + strconv.Itoa(argCount)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return Category{}, err
	}
	if tag.RowsAffected() == 0 {
		return Category{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete nulls the category reference on products before removing the row.
// Deletion orphans products rather than cascading into them.
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE products SET category_id = NULL WHERE category_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected() > 0
		return nil
	})
	return removed, err
}
