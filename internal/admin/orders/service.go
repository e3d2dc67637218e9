package orders

import (
	"context"
	"log/slog"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	"github.com/shht-tools/tradedesk/internal/shared"
)

const basePath = "/orders"

// Service proxies order operations to the upstream API.
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

// ListLoader returns the session's list loader for the orders table.
func (s *Service) ListLoader(sess *shared.Session) *listfetch.Loader {
	return s.loaders.Get(sess.ID, "orders", func() *listfetch.Loader {
		return listfetch.NewLoader(s.fetchList, ListRequest{Limit: shared.DefaultLimit}, listfetch.Options{
			DebounceDelay: listfetch.DebounceDelay,
		})
	})
}

func (s *Service) fetchList(ctx context.Context, body any) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/retrieve", body)
}

// Get fetches one order.
func (s *Service) Get(ctx context.Context, id int64) (Order, apiclient.Envelope) {
	env := s.api.Get(ctx, apiclient.EntityPath(basePath, "retrieve", id), nil)
	var order Order
	if env.OK() {
		if err := env.DecodeData(&order); err != nil {
			s.logger.Error("decode order", slog.Any("error", err))
		}
	}
	return order, env
}

// NextOrderID previews the order number the server would assign. The
// preview is not a reservation: two operators can see the same number
// and the server settles it at create time.
func (s *Service) NextOrderID(ctx context.Context) (string, apiclient.Envelope) {
	env := s.api.Post(ctx, basePath+"/get_order_id", struct{}{})
	var id string
	if env.OK() {
		if err := env.DecodeData(&id); err != nil {
			s.logger.Error("decode order id preview", slog.Any("error", err))
		}
	}
	return id, env
}

// Status fetches the current workflow position of an order.
func (s *Service) Status(ctx context.Context, id int64) (StatusInfo, apiclient.Envelope) {
	env := s.api.Get(ctx, apiclient.EntityPath(basePath, "get_order_status", id), nil)
	var info StatusInfo
	if env.OK() {
		if err := env.DecodeData(&info); err != nil {
			s.logger.Error("decode order status", slog.Any("error", err))
		}
	}
	return info, env
}

// ChangeStatus moves an order to the given status.
func (s *Service) ChangeStatus(ctx context.Context, id int64, req ChangeStatusRequest) apiclient.Envelope {
	return s.api.Post(ctx, apiclient.EntityPath(basePath, "change_status", id), req)
}

// Create adds an order.
func (s *Service) Create(ctx context.Context, req CreateRequest) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/create", req)
}

// Update edits an order.
func (s *Service) Update(ctx context.Context, req UpdateRequest) apiclient.Envelope {
	return s.api.Post(ctx, apiclient.EntityPath(basePath, "update", req.ID), req)
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id int64) apiclient.Envelope {
	return s.api.Delete(ctx, apiclient.EntityPath(basePath, "delete", id))
}

// Export asks upstream to produce a download for the current filter.
func (s *Service) Export(ctx context.Context, req ListRequest) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/export", req)
}
