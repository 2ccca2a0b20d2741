package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsWarmup pre-populates the report caches.
	TaskReportsWarmup = "reports:warmup"
	// TaskLowStockScan reviews inventory for products at or below their minimum quantity.
	TaskLowStockScan = "inventory:lowstock_scan"
)

// ReportsWarmupPayload carries scheduling metadata for cache warmup runs.
type ReportsWarmupPayload struct {
	RunID        string    `json:"run_id"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewReportsWarmupTask constructs an Asynq task for report cache warmup.
func NewReportsWarmupTask(runID string, at time.Time) (*asynq.Task, error) {
	payload := ReportsWarmupPayload{RunID: runID, ScheduledFor: at}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, body, asynq.Queue(QueueDefault)), nil
}

// LowStockScanPayload carries scheduling metadata for low stock scans.
type LowStockScanPayload struct {
	RunID        string    `json:"run_id"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewLowStockScanTask constructs an Asynq task for the low stock scan.
func NewLowStockScanTask(runID string, at time.Time) (*asynq.Task, error) {
	payload := LowStockScanPayload{RunID: runID, ScheduledFor: at}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}
