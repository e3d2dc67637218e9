package clients

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

const basePath = "/clients"

// Warmer queues a background refill of the lookup cache after a
// mutation invalidates it.
type Warmer interface {
	EnqueueLookupWarmup(ctx context.Context, payload jobs.LookupWarmupPayload) (*asynq.TaskInfo, error)
}

// Service proxies client operations to the upstream API.
type Service struct {
	api     *apiclient.Client
	loaders *listfetch.Registry
	lookups *lookup.Provider
	warmer  Warmer
	logger  *slog.Logger
}

// NewService constructs the clients service.
func NewService(api *apiclient.Client, loaders *listfetch.Registry, lookups *lookup.Provider, warmer Warmer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, loaders: loaders, lookups: lookups, warmer: warmer, logger: logger}
}

// ListLoader returns the session's list loader for the clients table.
func (s *Service) ListLoader(sess *shared.Session) *listfetch.Loader {
	return s.loaders.Get(sess.ID, "clients", func() *listfetch.Loader {
		return listfetch.NewLoader(s.fetchList, ListRequest{Limit: shared.DefaultLimit}, listfetch.Options{
			DebounceDelay: listfetch.DebounceDelay,
		})
	})
}

func (s *Service) fetchList(ctx context.Context, body any) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/retrieve", body)
}

// Get fetches one client with its contact persons.
func (s *Service) Get(ctx context.Context, id int64) (Client, apiclient.Envelope) {
	env := s.api.Get(ctx, apiclient.EntityPath(basePath, "retrieve", id), nil)
	var client Client
	if env.OK() {
		if err := env.DecodeData(&client); err != nil {
			s.logger.Error("decode client", slog.Any("error", err))
		}
	}
	return client, env
}

// Create adds a client.
func (s *Service) Create(ctx context.Context, req CreateRequest) apiclient.Envelope {
	env := s.api.Post(ctx, basePath+"/create", req)
	if env.OK() {
		s.invalidate(ctx)
	}
	return env
}

// Update edits a client.
func (s *Service) Update(ctx context.Context, req UpdateRequest) apiclient.Envelope {
	env := s.api.Post(ctx, apiclient.EntityPath(basePath, "update", req.ID), req)
	if env.OK() {
		s.invalidate(ctx)
	}
	return env
}

// Delete removes a client. No client-side cascade: orders referencing the
// client keep rendering whatever the server returns for them.
func (s *Service) Delete(ctx context.Context, id int64) apiclient.Envelope {
	env := s.api.Delete(ctx, apiclient.EntityPath(basePath, "delete", id))
	if env.OK() {
		s.invalidate(ctx)
	}
	return env
}

// invalidate bumps the lookup cache and queues a warmup so the clients
// dropdown repopulates without waiting for the next read.
func (s *Service) invalidate(ctx context.Context) {
	s.lookups.Invalidate(ctx)
	if s.warmer == nil {
		return
	}
	if _, err := s.warmer.EnqueueLookupWarmup(ctx, jobs.LookupWarmupPayload{}); err != nil {
		s.logger.Error("enqueue lookup warmup", slog.Any("error", err))
	}
}

// Export asks upstream to produce a download for the current filter.
func (s *Service) Export(ctx context.Context, req ListRequest) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/export", req)
}
