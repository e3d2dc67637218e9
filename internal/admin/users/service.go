package users

import (
	"context"
	"log/slog"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	"github.com/shht-tools/tradedesk/internal/shared"
)

const basePath = "/users"

// Toggle columns the listing can flip directly.
const (
	ToggleStatus   = "change_status"
	ToggleEmail    = "email_status"
	ToggleWhatsapp = "whatsapp_status"
)

// Service proxies user administration to the upstream API.
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

// ListLoader returns the session's list loader for the users table.
func (s *Service) ListLoader(sess *shared.Session) *listfetch.Loader {
	return s.loaders.Get(sess.ID, "users", func() *listfetch.Loader {
		return listfetch.NewLoader(s.fetchList, ListRequest{Limit: shared.DefaultLimit}, listfetch.Options{
			DebounceDelay: listfetch.DebounceDelay,
		})
	})
}

func (s *Service) fetchList(ctx context.Context, body any) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/retrieve", body)
}

// Get fetches one user.
func (s *Service) Get(ctx context.Context, id int64) (User, apiclient.Envelope) {
	env := s.api.Get(ctx, apiclient.EntityPath(basePath, "retrieve", id), nil)
	var user User
	if env.OK() {
		if err := env.DecodeData(&user); err != nil {
			s.logger.Error("decode user", slog.Any("error", err))
		}
	}
	return user, env
}

// Create adds a user.
func (s *Service) Create(ctx context.Context, req CreateRequest) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/create", req)
}

// Update edits a user.
func (s *Service) Update(ctx context.Context, req UpdateRequest) apiclient.Envelope {
	return s.api.Post(ctx, apiclient.EntityPath(basePath, "update", req.ID), req)
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id int64) apiclient.Envelope {
	return s.api.Delete(ctx, apiclient.EntityPath(basePath, "delete", id))
}

// Toggle flips one of the boolean columns on a user. The server owns the
// resulting value; the listing re-reads it afterwards.
func (s *Service) Toggle(ctx context.Context, column string, id int64) apiclient.Envelope {
	return s.api.Post(ctx, apiclient.EntityPath(basePath, column, id), nil)
}

// Export asks upstream to produce a download for the current filter.
func (s *Service) Export(ctx context.Context, req ListRequest) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/export", req)
}

// ChangePassword changes the password of the signed-in user.
func (s *Service) ChangePassword(ctx context.Context, req ChangePasswordRequest) apiclient.Envelope {
	return s.api.Post(ctx, basePath+"/change_password", req)
}
