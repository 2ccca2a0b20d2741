package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tillpoint/tillpoint/internal/reports"
)

// ReportSource is the slice of the report service the warmup touches.
type ReportSource interface {
	SalesReport(ctx context.Context, from, to time.Time) (reports.SalesReport, error)
	TodaysSales(ctx context.Context) (reports.DaySummary, error)
	TopSellingProducts(ctx context.Context, limit int, from, to *time.Time) ([]reports.TopSellingProduct, error)
	SalesByPaymentMethod(ctx context.Context, from, to *time.Time) ([]reports.PaymentMethodBreakdown, error)
	ProfitReport(ctx context.Context, from, to *time.Time) (reports.ProfitReport, error)
	AverageSaleValue(ctx context.Context, from, to *time.Time) (reports.AverageSaleValue, error)
}

// ReportsWarmupJob pre-populates the report caches so the first dashboard
// request after a quiet period does not pay the aggregation cost.
type ReportsWarmupJob struct {
	Reports ReportSource
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(reportsSvc ReportSource, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{
		Reports: reportsSvc,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("run_id", payload.RunID))
	logger.Info("starting reports warmup")

	now := j.now()
	// The dashboard defaults to the trailing 30 days, so warm that window.
	from := now.AddDate(0, 0, -30)

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := j.Reports.SalesReport(runCtx, from, now); err != nil {
		logger.Error("warm sales report", slog.Any("error", err))
		return err
	}
	if _, err := j.Reports.TodaysSales(runCtx); err != nil {
		logger.Error("warm today summary", slog.Any("error", err))
		return err
	}
	if _, err := j.Reports.TopSellingProducts(runCtx, 10, nil, nil); err != nil {
		logger.Error("warm top products", slog.Any("error", err))
		return err
	}
	if _, err := j.Reports.SalesByPaymentMethod(runCtx, nil, nil); err != nil {
		logger.Error("warm payment methods", slog.Any("error", err))
		return err
	}
	if _, err := j.Reports.ProfitReport(runCtx, nil, nil); err != nil {
		logger.Error("warm profit report", slog.Any("error", err))
		return err
	}
	if _, err := j.Reports.AverageSaleValue(runCtx, nil, nil); err != nil {
		logger.Error("warm average sale", slog.Any("error", err))
		return err
	}

	logger.Info("completed reports warmup", slog.Duration("duration", time.Since(now)))
	return nil
}

func (j *ReportsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportsWarmup))
}

func (j *ReportsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
