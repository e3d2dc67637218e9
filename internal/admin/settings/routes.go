package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/settings/"+Categories.Key, http.StatusSeeOther)
	})
	r.Get("/{entity}", h.List)
	r.Post("/{entity}", h.Create)
	r.Post("/{entity}/{id}/edit", h.Update)
	r.Post("/{entity}/{id}/delete", h.Delete)
}
