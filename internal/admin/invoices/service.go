package invoices

import (
	"context"
	"log/slog"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	"github.com/shht-tools/tradedesk/internal/shared"
)

const basePath = "/invoice"

// Service proxies invoice operations to the upstream API.
type Service struct {
	api     *apiclient.Client
	loaders *listfetch.Registry
	logger  *slog.Logger
}

func NewService(api *apiclient.Client, loaders *listfetch.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, loaders: loaders, logger: logger}
}

// ListLoader returns the session's list loader for the invoices table.
func (s *Service) ListLoader(sess *shared.Session) *listfetch.Loader {
	return s.loaders.Get(sess.ID, "invoices", func() *listfetch.Loader {
		return listfetch.NewLoader(s.fetchList, ListRequest{Limit: shared.DefaultLimit}, listfetch.Options{
			DebounceDelay: listfetch.DebounceDelay,
		})
	})
}

func (s *Service) fetchList(ctx context.Context, body any) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/retrieve", body)
}

// Get fetches one invoice.
func (s *Service) Get(ctx context.Context, id int64) (Invoice, apiclient.Envelope) {
	env := s.api.Get(ctx, apiclient.EntityPath(basePath, "retrieve", id), nil)
	var invoice Invoice
	if env.OK() {
		if err := env.DecodeData(&invoice); err != nil {
			s.logger.Error("decode invoice", slog.Any("error", err))
		}
	}
	return invoice, env
}

// Create adds an invoice.
func (s *Service) Create(ctx context.Context, req CreateRequest) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/create", req)
}

// Update edits an invoice.
func (s *Service) Update(ctx context.Context, req UpdateRequest) apiclient.Envelope {
	return s.api.Post(ctx, apiclient.EntityPath(basePath, "update", req.ID), req)
}

// Delete removes an invoice.
func (s *Service) Delete(ctx context.Context, id int64) apiclient.Envelope {
	return s.api.Delete(ctx, apiclient.EntityPath(basePath, "delete", id))
}

// Export asks upstream to produce a download for the current filter.
func (s *Service) Export(ctx context.Context, req ListRequest) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/export", req)
}
