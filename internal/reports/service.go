package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tillpoint/tillpoint/internal/catalog/products"
	"github.com/tillpoint/tillpoint/internal/shared"
)

// Catalog resolves products for history lookups. The active-only getter
// means a soft-deleted product reads as not found here too.
type Catalog interface {
	Get(ctx context.Context, id int64) (products.Product, error)
}

// Service coordinates report queries with the cache layer. Concurrent
// requests for the same report collapse into one loader call.
type Service struct {
	repo    Repository
	catalog Catalog
	cache   *Cache
	group   singleflight.Group
}

func NewService(repo Repository, catalog Catalog, cache *Cache) *Service {
	return &Service{repo: repo, catalog: catalog, cache: cache}
}

// cached resolves keyParts through the cache, deduplicating concurrent
// loads per key, and unmarshals the result into dest.
func (s *Service) cached(ctx context.Context, keyParts []string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		return err
	}
	ch := s.group.DoChan(strings.Join(keyParts, ":"), func() (interface{}, error) {
		return nil, s.cache.FetchJSON(ctx, key, dest, loader)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		if res.Shared {
			// A shared result filled another caller's dest; reload from
			// the now-warm cache.
			return s.cache.FetchJSON(ctx, key, dest, loader)
		}
		return nil
	}
}

// SalesReport aggregates count, revenue, items sold and a per-day
// breakdown inside [from, to].
func (s *Service) SalesReport(ctx context.Context, from, to time.Time) (SalesReport, error) {
	if to.Before(from) {
		return SalesReport{}, fmt.Errorf("%w: range end precedes start", shared.ErrValidation)
	}
	var report SalesReport
	err := s.cached(ctx, keySalesReport(from, to), &report, func(ctx context.Context) (interface{}, error) {
		count, revenue, err := s.repo.SalesSummary(ctx, from, to)
		if err != nil {
			return nil, err
		}
		items, err := s.repo.ItemsSold(ctx, from, to)
		if err != nil {
			return nil, err
		}
		days, err := s.repo.SalesByDay(ctx, from, to)
		if err != nil {
			return nil, err
		}
		if days == nil {
			days = []DaySales{}
		}
		return SalesReport{
			TotalSales:   count,
			TotalRevenue: revenue,
			ItemsSold:    items,
			SalesByDay:   days,
		}, nil
	})
	return report, err
}

// TodaysSales reports the current UTC calendar day. Query and cache key
// share the UTC day boundary.
func (s *Service) TodaysSales(ctx context.Context) (DaySummary, error) {
	var summary DaySummary
	err := s.cached(ctx, keyToday(), &summary, func(ctx context.Context) (interface{}, error) {
		return s.repo.TodaysSales(ctx)
	})
	return summary, err
}

// InventoryValue is served uncached: it is a single-row scan and its
// inputs change on every stock movement.
func (s *Service) InventoryValue(ctx context.Context) (InventoryValue, error) {
	return s.repo.InventoryValue(ctx)
}

func (s *Service) TopSellingProducts(ctx context.Context, limit int, from, to *time.Time) ([]TopSellingProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	var top []TopSellingProduct
	err := s.cached(ctx, keyTopProducts(limit, from, to), &top, func(ctx context.Context) (interface{}, error) {
		rows, err := s.repo.TopSellingProducts(ctx, limit, from, to)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []TopSellingProduct{}
		}
		return rows, nil
	})
	return top, err
}

// SalesByPaymentMethod groups sales per payment method, normalising the
// absent method to the NotSpecified label.
func (s *Service) SalesByPaymentMethod(ctx context.Context, from, to *time.Time) ([]PaymentMethodBreakdown, error) {
	var breakdown []PaymentMethodBreakdown
	err := s.cached(ctx, keyPaymentMethods(from, to), &breakdown, func(ctx context.Context) (interface{}, error) {
		rows, err := s.repo.SalesByPaymentMethod(ctx, from, to)
		if err != nil {
			return nil, err
		}
		groups := make([]PaymentMethodBreakdown, 0, len(rows))
		for _, row := range rows {
			label := NotSpecified
			if row.PaymentMethod != nil && *row.PaymentMethod != "" {
				label = *row.PaymentMethod
			}
			groups = append(groups, PaymentMethodBreakdown{
				PaymentMethod: label,
				Count:         row.Count,
				Total:         row.Total,
			})
		}
		return groups, nil
	})
	return breakdown, err
}

// ProfitReport aggregates per-product profit into totals and a margin
// percentage.
func (s *Service) ProfitReport(ctx context.Context, from, to *time.Time) (ProfitReport, error) {
	var report ProfitReport
	err := s.cached(ctx, keyProfit(from, to), &report, func(ctx context.Context) (interface{}, error) {
		byProduct, err := s.repo.ProfitByProduct(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return buildProfitReport(byProduct), nil
	})
	return report, err
}

// buildProfitReport rolls per-product rows into report totals.
func buildProfitReport(byProduct []ProductProfit) ProfitReport {
	var totalRevenue, totalCost float64
	for _, p := range byProduct {
		totalRevenue += p.Revenue
		totalCost += p.Cost
	}
	grossProfit := totalRevenue - totalCost
	margin := 0.0
	if totalRevenue > 0 {
		margin = grossProfit / totalRevenue * 100
	}
	if byProduct == nil {
		byProduct = []ProductProfit{}
	}
	return ProfitReport{
		TotalRevenue: totalRevenue,
		TotalCost:    totalCost,
		GrossProfit:  grossProfit,
		ProfitMargin: margin,
		ByProduct:    byProduct,
	}
}

func (s *Service) AverageSaleValue(ctx context.Context, from, to *time.Time) (AverageSaleValue, error) {
	var value AverageSaleValue
	err := s.cached(ctx, keyAverage(from, to), &value, func(ctx context.Context) (interface{}, error) {
		return s.repo.AverageSaleValue(ctx, from, to)
	})
	return value, err
}

// ProductSalesHistory lists every recorded sale of a product plus totals.
// The product must resolve through the active-only catalog getter.
func (s *Service) ProductSalesHistory(ctx context.Context, productID int64) (ProductSalesHistory, error) {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return ProductSalesHistory{}, err
	}

	entries, err := s.repo.ProductSales(ctx, productID)
	if err != nil {
		return ProductSalesHistory{}, err
	}

	history := ProductSalesHistory{
		ProductID:   product.ID,
		ProductName: product.Name,
		Sales:       entries,
	}
	if history.Sales == nil {
		history.Sales = []HistoryEntry{}
	}
	for _, e := range entries {
		history.TotalQuantity += e.Quantity
		history.TotalRevenue += e.Subtotal
	}
	return history, nil
}
