package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/catalog/products"
)

type stubStockSource struct {
	low   []products.Product
	calls int
}

func (s *stubStockSource) ListLowStock(ctx context.Context) ([]products.Product, error) {
	s.calls++
	return s.low, nil
}

func TestLowStockScanListsCandidates(t *testing.T) {
	source := &stubStockSource{low: []products.Product{
		{ID: 1, Name: "Espresso Beans", Quantity: 2, MinQuantity: 10},
	}}
	job := NewLowStockScanJob(source, nil)

	task, err := NewLowStockScanTask("run-1", time.Now())
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, source.calls)
}

func TestLowStockScanLogsScanTiming(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	source := &stubStockSource{low: []products.Product{
		{ID: 1, Name: "Paper Towels", Quantity: 8, MinQuantity: 10},
	}}
	job := NewLowStockScanJob(source, logger)
	job.clock = func() time.Time {
		return time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	}

	task, err := NewLowStockScanTask("run-3", time.Now())
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	out := buf.String()
	require.Contains(t, out, "completed low stock scan")
	require.Contains(t, out, "duration=")
	require.Contains(t, out, "candidates=1")
}

func TestLowStockScanSkipsRetryOnBadPayload(t *testing.T) {
	job := NewLowStockScanJob(&stubStockSource{}, nil)

	task := asynq.NewTask(TaskLowStockScan, []byte("{not json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestLowStockScanTaskPayloadRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	task, err := NewLowStockScanTask("run-2", at)
	require.NoError(t, err)
	require.Equal(t, TaskLowStockScan, task.Type())

	var payload LowStockScanPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "run-2", payload.RunID)
	require.True(t, payload.ScheduledFor.Equal(at))
}
