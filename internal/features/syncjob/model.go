package syncjob

import (
	"time"

	"sellersync/internal/common/models"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// SyncJob is the persisted, resumable record of a multi-page marketplace
// pull. Each scheduler tick processes one chunk of pages and writes the
// cursor back; Version and LeaseUntil give chunk processing compare-and-swap
// semantics so two concurrent ticks cannot advance the same job.
type SyncJob struct {
	JobID         string            `json:"job_id" bson:"job_id"`
	AdminID       string            `json:"admin_id" bson:"admin_id"`
	IntegrationID string            `json:"integration_id" bson:"integration_id"`
	DataType      models.DataType   `json:"data_type" bson:"data_type"`
	CronLabel     string            `json:"cron_label" bson:"cron_label"`
	CurrentPage   int               `json:"current_page" bson:"current_page"`
	PageSize      int               `json:"page_size" bson:"page_size"`
	PagesPerChunk int               `json:"pages_per_chunk" bson:"pages_per_chunk"`
	MaxPages      int               `json:"max_pages,omitempty" bson:"max_pages,omitempty"`
	DateFilter    map[string]string `json:"date_filter,omitempty" bson:"date_filter,omitempty"`
	TotalItems    int               `json:"total_items" bson:"total_items"`
	TotalErrors   int               `json:"total_errors" bson:"total_errors"`
	Status        string            `json:"status" bson:"status"`
	Version       int64             `json:"version" bson:"version"`
	LeaseUntil    time.Time         `json:"lease_until" bson:"lease_until"`
	Error         string            `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// CreateParams describe the job a cron policy wants running for one
// integration.
type CreateParams struct {
	AdminID       string
	IntegrationID string
	DataType      models.DataType
	CronLabel     string
	PagesPerChunk int
	PageSize      int
	MaxPages      int
	DateFilter    map[string]string
}

// ResumeResult is what CreateOrResume hands back to the runner.
type ResumeResult struct {
	JobID         string `json:"job_id"`
	ShouldProcess bool   `json:"should_process"`
	CurrentPage   int    `json:"current_page"`
	Resumed       bool   `json:"resumed"`
}

// ChunkResult summarizes one ProcessChunk invocation.
type ChunkResult struct {
	JobID          string `json:"job_id"`
	PagesProcessed int    `json:"pages_processed"`
	ItemsProcessed int    `json:"items_processed"`
	ItemsSaved     int    `json:"items_saved"`
	Errors         int    `json:"errors"`
	Completed      bool   `json:"completed"`
	LeaseHeld      bool   `json:"lease_held"`
}
