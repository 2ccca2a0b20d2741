package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/catalog/products"
	"github.com/tillpoint/tillpoint/internal/shared"
)

type fakeRepo struct {
	count       int64
	revenue     float64
	items       int64
	days        []DaySales
	today       DaySummary
	inventory   InventoryValue
	top         []TopSellingProduct
	paymentRows []PaymentMethodRow
	profits     []ProductProfit
	average     AverageSaleValue
	history     []HistoryEntry
}

func (r *fakeRepo) SalesSummary(ctx context.Context, from, to time.Time) (int64, float64, error) {
	return r.count, r.revenue, nil
}

func (r *fakeRepo) ItemsSold(ctx context.Context, from, to time.Time) (int64, error) {
	return r.items, nil
}

func (r *fakeRepo) SalesByDay(ctx context.Context, from, to time.Time) ([]DaySales, error) {
	return r.days, nil
}

func (r *fakeRepo) TodaysSales(ctx context.Context) (DaySummary, error) {
	return r.today, nil
}

func (r *fakeRepo) InventoryValue(ctx context.Context) (InventoryValue, error) {
	return r.inventory, nil
}

func (r *fakeRepo) TopSellingProducts(ctx context.Context, limit int, from, to *time.Time) ([]TopSellingProduct, error) {
	if limit < len(r.top) {
		return r.top[:limit], nil
	}
	return r.top, nil
}

func (r *fakeRepo) SalesByPaymentMethod(ctx context.Context, from, to *time.Time) ([]PaymentMethodRow, error) {
	return r.paymentRows, nil
}

func (r *fakeRepo) ProfitByProduct(ctx context.Context, from, to *time.Time) ([]ProductProfit, error) {
	return r.profits, nil
}

func (r *fakeRepo) AverageSaleValue(ctx context.Context, from, to *time.Time) (AverageSaleValue, error) {
	return r.average, nil
}

func (r *fakeRepo) ProductSales(ctx context.Context, productID int64) ([]HistoryEntry, error) {
	return r.history, nil
}

type fakeCatalog struct {
	products map[int64]products.Product
}

func (c *fakeCatalog) Get(ctx context.Context, id int64) (products.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return products.Product{}, shared.ErrNotFound
	}
	return p, nil
}

func TestSalesReportRejectsInvertedWindow(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCatalog{}, nil)

	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, 7)
	_, err := svc.SalesReport(context.Background(), from, to)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSalesReportAssemblesBreakdown(t *testing.T) {
	repo := &fakeRepo{
		count:   3,
		revenue: 97.44,
		items:   7,
		days: []DaySales{
			{Date: "2025-06-01", Total: 59.98, Count: 2},
			{Date: "2025-06-02", Total: 37.46, Count: 1},
		},
	}
	svc := NewService(repo, &fakeCatalog{}, nil)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	report, err := svc.SalesReport(context.Background(), from, from.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Equal(t, int64(3), report.TotalSales)
	require.InDelta(t, 97.44, report.TotalRevenue, 0.0001)
	require.Equal(t, int64(7), report.ItemsSold)
	require.Len(t, report.SalesByDay, 2)
}

func TestTopSellingProductsDefaultsLimit(t *testing.T) {
	repo := &fakeRepo{}
	for i := 1; i <= 15; i++ {
		repo.top = append(repo.top, TopSellingProduct{ProductID: int64(i)})
	}
	svc := NewService(repo, &fakeCatalog{}, nil)

	top, err := svc.TopSellingProducts(context.Background(), 0, nil, nil)
	require.NoError(t, err)
	require.Len(t, top, 10)
}

func TestSalesByPaymentMethodNormalisesMissingLabel(t *testing.T) {
	card := "card"
	empty := ""
	repo := &fakeRepo{paymentRows: []PaymentMethodRow{
		{PaymentMethod: &card, Count: 5, Total: 120.50},
		{PaymentMethod: nil, Count: 2, Total: 9.80},
		{PaymentMethod: &empty, Count: 1, Total: 4.50},
	}}
	svc := NewService(repo, &fakeCatalog{}, nil)

	breakdown, err := svc.SalesByPaymentMethod(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, breakdown, 3)
	require.Equal(t, "card", breakdown[0].PaymentMethod)
	require.Equal(t, NotSpecified, breakdown[1].PaymentMethod)
	require.Equal(t, NotSpecified, breakdown[2].PaymentMethod)
}

func TestProfitReportComputesMargin(t *testing.T) {
	repo := &fakeRepo{profits: []ProductProfit{
		{ProductID: 1, ProductName: "Espresso Beans", QuantitySold: 4, Revenue: 74.00, Cost: 44.80, Profit: 29.20},
		{ProductID: 2, ProductName: "Croissant", QuantitySold: 10, Revenue: 26.00, Cost: 11.00, Profit: 15.00},
	}}
	svc := NewService(repo, &fakeCatalog{}, nil)

	report, err := svc.ProfitReport(context.Background(), nil, nil)
	require.NoError(t, err)
	require.InDelta(t, 100.00, report.TotalRevenue, 0.0001)
	require.InDelta(t, 55.80, report.TotalCost, 0.0001)
	require.InDelta(t, 44.20, report.GrossProfit, 0.0001)
	require.InDelta(t, 44.20, report.ProfitMargin, 0.0001)
}

func TestProfitReportZeroRevenueHasZeroMargin(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCatalog{}, nil)

	report, err := svc.ProfitReport(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Zero(t, report.ProfitMargin)
	require.NotNil(t, report.ByProduct)
	require.Empty(t, report.ByProduct)
}

func TestProductSalesHistoryComputesTotals(t *testing.T) {
	repo := &fakeRepo{history: []HistoryEntry{
		{SaleID: 2, Quantity: 3, UnitPrice: 2.60, Subtotal: 7.80},
		{SaleID: 1, Quantity: 1, UnitPrice: 2.60, Subtotal: 2.60},
	}}
	catalog := &fakeCatalog{products: map[int64]products.Product{
		7: {ID: 7, Name: "Butter Croissant"},
	}}
	svc := NewService(repo, catalog, nil)

	history, err := svc.ProductSalesHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Butter Croissant", history.ProductName)
	require.Equal(t, int64(4), history.TotalQuantity)
	require.InDelta(t, 10.40, history.TotalRevenue, 0.0001)
}

func TestProductSalesHistoryUnknownProduct(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCatalog{}, nil)

	_, err := svc.ProductSalesHistory(context.Background(), 404)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
