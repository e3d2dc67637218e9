package orders

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/export", h.Export)
	r.Get("/new", h.ShowForm)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.ShowEditForm)
	r.Post("/{id}/edit", h.Update)
	r.Get("/{id}/status", h.ShowStatus)
	r.Post("/{id}/status", h.ChangeStatus)
	r.Post("/{id}/delete", h.Delete)
}
