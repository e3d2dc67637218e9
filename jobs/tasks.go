package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLookupWarmup pre-populates the dropdown lookup caches.
	TaskLookupWarmup = "lookup:warmup"
	// TaskDashboardWarmup refreshes the cached dashboard payload.
	TaskDashboardWarmup = "dashboard:warmup"
)

// LookupWarmupPayload scopes a lookup warmup run.
type LookupWarmupPayload struct {
	// WithSubCategories walks every category and warms its sub-category
	// list too. Slower, used by the nightly run.
	WithSubCategories bool `json:"with_sub_categories"`
}

// NewLookupWarmupTask constructs an Asynq task.
func NewLookupWarmupTask(payload LookupWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLookupWarmup, data), nil
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskDashboardWarmup, nil)
}
