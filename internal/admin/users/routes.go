package users

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.ShowForm)
	r.Get("/export", h.Export)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.ShowEditForm)
	r.Post("/{id}/edit", h.Update)
	r.Post("/{id}/toggle/{column}", h.Toggle)
	r.Post("/{id}/delete", h.Delete)
}

// MountPasswordRoutes registers the self-service password change screen,
// mounted outside the admin-only users area.
func (h *Handler) MountPasswordRoutes(r chi.Router) {
	r.Get("/", h.ShowChangePassword)
	r.Post("/", h.ChangePassword)
}
