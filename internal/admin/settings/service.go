package settings

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	"github.com/shht-tools/tradedesk/internal/lookup"
	"github.com/shht-tools/tradedesk/internal/shared"
	"github.com/shht-tools/tradedesk/jobs"
)

// Warmer queues a background refill of the lookup cache after a
// mutation invalidates it.
type Warmer interface {
	EnqueueLookupWarmup(ctx context.Context, payload jobs.LookupWarmupPayload) (*asynq.TaskInfo, error)
}

// Service proxies the four lookup tables to the upstream API. Every
// mutation bumps the lookup cache so dropdowns elsewhere pick up the
// change.
type Service struct {
	api     *apiclient.Client
	loaders *listfetch.Registry
	lookups *lookup.Provider
	warmer  Warmer
	logger  *slog.Logger
}

func NewService(api *apiclient.Client, loaders *listfetch.Registry, lookups *lookup.Provider, warmer Warmer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, loaders: loaders, lookups: lookups, warmer: warmer, logger: logger}
}

// ListLoader returns the session's loader for one settings tab. The
// sub-category loader starts skipped and only fetches once a parent
// category is chosen.
func (s *Service) ListLoader(sess *shared.Session, entity Entity) *listfetch.Loader {
	return s.loaders.Get(sess.ID, "settings:"+entity.Key, func() *listfetch.Loader {
		return listfetch.NewLoader(s.fetchList(entity), ListRequest{Limit: shared.DefaultLimit}, listfetch.Options{
			DebounceDelay: listfetch.DebounceDelay,
			Skip:          entity.HasParent,
		})
	})
}

func (s *Service) fetchList(entity Entity) listfetch.FetchFunc {
	return func(ctx context.Context, body any) apiclient.Envelope {
		return s.api.Post(ctx, entity.Path+"/retrieve", body)
	}
}

// Create adds a lookup row.
func (s *Service) Create(ctx context.Context, entity Entity, req SaveRequest) apiclient.Envelope {
	env := s.api.Post(ctx, entity.Path+"/create", req)
	if env.OK() {
		s.invalidate(ctx)
	}
	return env
}

// Update renames a lookup row.
func (s *Service) Update(ctx context.Context, entity Entity, req SaveRequest) apiclient.Envelope {
	env := s.api.Post(ctx, apiclient.EntityPath(entity.Path, "update", req.ID), req)
	if env.OK() {
		s.invalidate(ctx)
	}
	return env
}

// Delete removes a lookup row. Rows referenced by clients or orders keep
// rendering upstream-side; there is no local cascade.
func (s *Service) Delete(ctx context.Context, entity Entity, id int64) apiclient.Envelope {
	env := s.api.Delete(ctx, apiclient.EntityPath(entity.Path, "delete", id))
	if env.OK() {
		s.invalidate(ctx)
	}
	return env
}

// invalidate bumps the lookup cache and queues a warmup so dropdowns
// repopulate without waiting for the next read.
func (s *Service) invalidate(ctx context.Context) {
	s.lookups.Invalidate(ctx)
	if s.warmer == nil {
		return
	}
	if _, err := s.warmer.EnqueueLookupWarmup(ctx, jobs.LookupWarmupPayload{WithSubCategories: true}); err != nil {
		s.logger.Error("enqueue lookup warmup", slog.Any("error", err))
	}
}
