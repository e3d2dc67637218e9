package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shht-tools/tradedesk/internal/admin/dashboard"
	jobmetrics "github.com/shht-tools/tradedesk/internal/jobs"
)

// DashboardWarmupJob refreshes the cached dashboard payload on a schedule
// so the landing page stays warm between operator visits.
type DashboardWarmupJob struct {
	Dashboard *dashboard.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(svc *dashboard.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{Dashboard: svc, Logger: logger, Metrics: metrics}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}

	tracker := j.metrics().Track(TaskDashboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	_, env := j.Dashboard.Refresh(ctx)
	if !env.OK() {
		resultErr = fmt.Errorf("dashboard warmup: %s", env.ErrorMessage())
		j.logger().Error("dashboard warmup", slog.Int("code", env.Code), slog.String("message", env.ErrorMessage()))
		return resultErr
	}

	j.logger().Info("dashboard warmup complete")
	return resultErr
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
