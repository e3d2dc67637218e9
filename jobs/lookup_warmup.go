package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/shht-tools/tradedesk/internal/jobs"
	"github.com/shht-tools/tradedesk/internal/lookup"
)

// LookupWarmupJob pre-populates the dropdown caches so the first page an
// operator opens after an invalidation does not pay the upstream round trip.
type LookupWarmupJob struct {
	Lookups *lookup.Provider
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLookupWarmupJob wires dependencies for the warmup handler.
func NewLookupWarmupJob(lookups *lookup.Provider, logger *slog.Logger, metrics *jobmetrics.Metrics) *LookupWarmupJob {
	return &LookupWarmupJob{Lookups: lookups, Logger: logger, Metrics: metrics}
}

// Handle processes lookup warmup tasks.
func (j *LookupWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Lookups == nil {
		return errors.New("lookup warmup: handler not configured")
	}
	var payload LookupWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	tracker := j.metrics().Track(TaskLookupWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	warmed := 0

	categories, err := j.Lookups.Categories(ctx)
	if err != nil {
		resultErr = err
		logger.Error("warm categories", slog.Any("error", err))
		return resultErr
	}
	warmed++

	if payload.WithSubCategories {
		for _, category := range categories {
			if _, err := j.Lookups.SubCategories(ctx, category.ID); err != nil {
				logger.Warn("warm sub-categories", slog.Int64("category", category.ID), slog.Any("error", err))
				continue
			}
			warmed++
		}
	}

	for name, warm := range map[string]func(context.Context) ([]lookup.Option, error){
		"tags":     j.Lookups.Tags,
		"counters": j.Lookups.Counters,
		"clients":  j.Lookups.Clients,
	} {
		if _, err := warm(ctx); err != nil {
			logger.Warn("warm lookup", slog.String("lookup", name), slog.Any("error", err))
			continue
		}
		warmed++
	}

	logger.Info("lookup warmup complete", slog.Int("lists", warmed))
	return resultErr
}

func (j *LookupWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *LookupWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
