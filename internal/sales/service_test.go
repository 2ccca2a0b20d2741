package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/catalog/products"
	"github.com/tillpoint/tillpoint/internal/shared"
)

type memoryRepo struct {
	sales  map[int64]*Sale
	stock  map[int64]int64
	nextID int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sales: make(map[int64]*Sale), stock: make(map[int64]int64)}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	// Writes land on shadow state and only merge on success, mirroring
	// transaction rollback.
	shadow := newMemoryRepo()
	shadow.nextID = r.nextID
	for id, s := range r.sales {
		copied := *s
		shadow.sales[id] = &copied
	}
	for id, q := range r.stock {
		shadow.stock[id] = q
	}
	if err := fn(ctx, &memoryTx{repo: shadow}); err != nil {
		return err
	}
	r.sales = shadow.sales
	r.stock = shadow.stock
	r.nextID = shadow.nextID
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *sale
	return &copied, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Sale, error) {
	out := make([]Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memoryRepo) ListRange(ctx context.Context, from, to time.Time) ([]Sale, error) {
	return r.List(ctx)
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.sales[id]; !ok {
		return false, nil
	}
	delete(r.sales, id)
	return true, nil
}

func (tx *memoryTx) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	tx.repo.nextID++
	sale.ID = tx.repo.nextID
	sale.CreatedAt = time.Now()
	tx.repo.sales[sale.ID] = &sale
	return sale.ID, nil
}

func (tx *memoryTx) InsertItem(ctx context.Context, item SaleItem) (int64, error) {
	tx.repo.nextID++
	item.ID = tx.repo.nextID
	sale := tx.repo.sales[item.SaleID]
	sale.Items = append(sale.Items, item)
	return item.ID, nil
}

func (tx *memoryTx) DecrementStock(ctx context.Context, productID, quantity int64) error {
	tx.repo.stock[productID] -= quantity
	return nil
}

type memoryCatalog struct {
	products map[int64]products.Product
}

func (c *memoryCatalog) Get(ctx context.Context, id int64) (products.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return products.Product{}, shared.ErrNotFound
	}
	return p, nil
}

type countingInvalidator struct {
	bumps int
}

func (i *countingInvalidator) Bump(ctx context.Context) error {
	i.bumps++
	return nil
}

func TestCreateSnapshotsPricesAndDecrementsStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 10
	catalog := &memoryCatalog{products: map[int64]products.Product{
		1: {ID: 1, Name: "Cold Brew Bottle", Price: 29.99, Quantity: 10},
	}}
	invalidator := &countingInvalidator{}
	svc := NewService(repo, catalog, nil, invalidator, nil)
	ctx := context.Background()

	sale, err := svc.Create(ctx, CreateSaleRequest{
		Items: []SaleLine{{ProductID: 1, Quantity: 2}},
	}, "")
	require.NoError(t, err)
	require.InDelta(t, 59.98, sale.TotalAmount, 0.0001)
	require.Len(t, sale.Items, 1)
	require.Equal(t, "Cold Brew Bottle", sale.Items[0].ProductName)
	require.InDelta(t, 29.99, sale.Items[0].UnitPrice, 0.0001)
	require.InDelta(t, 59.98, sale.Items[0].Subtotal, 0.0001)
	require.Equal(t, int64(8), repo.stock[1])
	require.Equal(t, 1, invalidator.bumps)
}

func TestCreateAllowsNegativeStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 1
	catalog := &memoryCatalog{products: map[int64]products.Product{
		1: {ID: 1, Name: "Sourdough Loaf", Price: 5.20, Quantity: 1},
	}}
	svc := NewService(repo, catalog, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		Items: []SaleLine{{ProductID: 1, Quantity: 3}},
	}, "")
	require.NoError(t, err)
	require.Equal(t, int64(-2), repo.stock[1])
}

func TestCreateFailsWholeSaleOnUnknownProduct(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 10
	catalog := &memoryCatalog{products: map[int64]products.Product{
		1: {ID: 1, Name: "Dark Chocolate Bar", Price: 3.40, Quantity: 10},
	}}
	svc := NewService(repo, catalog, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		Items: []SaleLine{
			{ProductID: 1, Quantity: 1},
			{ProductID: 999, Quantity: 1},
		},
	}, "")
	require.Error(t, err)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Contains(t, err.Error(), "product 999 not found")
	require.Empty(t, repo.sales)
	require.Equal(t, int64(10), repo.stock[1])
}

func TestCreateRejectsEmptyAndNonPositiveLines(t *testing.T) {
	svc := NewService(newMemoryRepo(), &memoryCatalog{}, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSaleRequest{}, "")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateSaleRequest{
		Items: []SaleLine{{ProductID: 1, Quantity: 0}},
	}, "")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteDoesNotRestoreStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 10
	catalog := &memoryCatalog{products: map[int64]products.Product{
		1: {ID: 1, Name: "Sea Salt Chips", Price: 2.90, Quantity: 10},
	}}
	invalidator := &countingInvalidator{}
	svc := NewService(repo, catalog, nil, invalidator, nil)
	ctx := context.Background()

	sale, err := svc.Create(ctx, CreateSaleRequest{
		Items: []SaleLine{{ProductID: 1, Quantity: 4}},
	}, "")
	require.NoError(t, err)
	require.Equal(t, int64(6), repo.stock[1])

	removed, err := svc.Delete(ctx, sale.ID)
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, int64(6), repo.stock[1])
	require.Equal(t, 2, invalidator.bumps)

	removed, err = svc.Delete(ctx, sale.ID)
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, 2, invalidator.bumps)
}
