package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tillpoint/tillpoint/internal/catalog/products"
)

// StockSource lists products that have fallen to their reorder threshold.
type StockSource interface {
	ListLowStock(ctx context.Context) ([]products.Product, error)
}

// LowStockScanJob reviews inventory and logs reorder candidates so the
// shop owner sees them in the worker output without opening the app.
type LowStockScanJob struct {
	Catalog StockSource
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(catalog StockSource, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{
		Catalog: catalog,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes low stock scan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Catalog == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("run_id", payload.RunID))
	logger.Info("starting low stock scan")

	start := j.now()
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	low, err := j.Catalog.ListLowStock(runCtx)
	if err != nil {
		logger.Error("list low stock", slog.Any("error", err))
		return err
	}
	if len(low) == 0 {
		logger.Info("no products below minimum quantity", slog.Duration("duration", time.Since(start)))
		return nil
	}
	for _, p := range low {
		logger.Warn("reorder candidate",
			slog.Int64("product_id", p.ID),
			slog.String("name", p.Name),
			slog.Int64("quantity", p.Quantity),
			slog.Int64("min_quantity", p.MinQuantity),
		)
	}
	logger.Info("completed low stock scan", slog.Int("candidates", len(low)), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskLowStockScan))
}

func (j *LowStockScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
