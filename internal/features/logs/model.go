package logs

import (
	"time"

	"sellersync/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ExecutionLog is the unified record every cron or manual run writes:
// created when the run starts, updated once when it finishes.
type ExecutionLog struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Trigger               models.Trigger     `json:"trigger" bson:"trigger"`
	Label                 string             `json:"label" bson:"label"`
	Status                string             `json:"status" bson:"status"`
	IntegrationsProcessed int                `json:"integrations_processed" bson:"integrations_processed"`
	IntegrationsFailed    int                `json:"integrations_failed" bson:"integrations_failed"`
	ItemsProcessed        int                `json:"items_processed" bson:"items_processed"`
	ErrorCount            int                `json:"error_count" bson:"error_count"`
	Message               string             `json:"message,omitempty" bson:"message,omitempty"`
	Details               []string           `json:"details,omitempty" bson:"details,omitempty"`
	StartedAt             time.Time          `json:"started_at" bson:"started_at"`
	FinishedAt            *time.Time         `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

// Query narrows the dashboard's log listing.
type Query struct {
	Label  string
	Status string
	Since  time.Time
	Limit  int64
}
