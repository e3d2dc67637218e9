package settings

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shht-tools/tradedesk/internal/admin/page"
	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	"github.com/shht-tools/tradedesk/internal/lookup"
	"github.com/shht-tools/tradedesk/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	presenter *page.Presenter
	lookups   *lookup.Provider
	validate  *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, presenter *page.Presenter, lookups *lookup.Provider) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		presenter: presenter,
		lookups:   lookups,
		validate:  validator.New(),
	}
}

// List renders one settings tab. The sub-category tab stays empty until a
// parent category is picked; choosing one unskips the loader.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entity, ok := EntityByKey(chi.URLParam(r, "entity"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	pageNum, perPage := shared.PageFromRequest(r)
	pagination := shared.NewPagination(pageNum, perPage, 0)

	req := ListRequest{
		Offset:   pagination.Offset(),
		Limit:    perPage,
		Search:   r.URL.Query().Get("search"),
		Category: queryID(r, "category"),
	}

	loader := h.service.ListLoader(sess, entity)
	loader.SetCallbacks(h.presenter.Auth.Unauthorized(sess), h.flashError(sess))
	if entity.HasParent {
		loader.SetSkip(req.Category == 0)
	}
	state := loader.Observe(r.Context(), req, req)
	if h.presenter.RequireUnauthorizedRedirect(w, r) {
		return
	}

	pagination = shared.NewPagination(pageNum, perPage, state.DataCount)
	var categories []lookup.Option
	if entity.HasParent {
		categories, _ = h.lookups.Categories(r.Context())
	}

	h.presenter.Render(w, r, "pages/settings.html", entity.DisplayName, map[string]any{
		"Entity":       entity,
		"Entities":     Entities,
		"Items":        listfetch.DecodeList[Item](state),
		"Pagination":   pagination,
		"IsLoading":    state.IsLoading,
		"IsError":      state.IsError,
		"ErrorMessage": state.ErrorMessage,
		"Search":       req.Search,
		"Category":     req.Category,
		"Categories":   categories,
		"PerPage":      perPage,
		"PerPageOpts":  shared.RowsPerPageOptions,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	entity, ok := EntityByKey(chi.URLParam(r, "entity"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	req := SaveRequest{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Category: formID(r, "category"),
	}
	tabPath := "/settings/" + entity.Key
	if entity.HasParent && req.Category == 0 {
		shared.FlashError(sess, "Category is invalid")
		http.Redirect(w, r, tabPath, http.StatusSeeOther)
		return
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, tabPath, http.StatusSeeOther)
		return
	}

	env := h.service.Create(r.Context(), entity, req)
	h.refetchOnOK(r, entity, env)
	h.presenter.HandleMutation(w, r, env, "Saved", tabPath)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	entity, ok := EntityByKey(chi.URLParam(r, "entity"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	req := SaveRequest{
		ID:       id,
		Name:     strings.TrimSpace(r.FormValue("name")),
		Category: formID(r, "category"),
	}
	tabPath := "/settings/" + entity.Key
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, tabPath, http.StatusSeeOther)
		return
	}

	env := h.service.Update(r.Context(), entity, req)
	h.refetchOnOK(r, entity, env)
	h.presenter.HandleMutation(w, r, env, "Saved", tabPath)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	entity, ok := EntityByKey(chi.URLParam(r, "entity"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	env := h.service.Delete(r.Context(), entity, id)
	h.refetchOnOK(r, entity, env)
	h.presenter.HandleMutation(w, r, env, "Deleted", "/settings/"+entity.Key)
}

func (h *Handler) refetchOnOK(r *http.Request, entity Entity, env apiclient.Envelope) {
	if !env.OK() {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	loader := h.service.ListLoader(sess, entity)
	loader.SetCallbacks(h.presenter.Auth.Unauthorized(sess), h.flashError(sess))
	loader.Refetch(r.Context())
}

func (h *Handler) flashError(sess *shared.Session) func(string) {
	return func(message string) {
		shared.FlashError(sess, message)
	}
}

func queryID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return id
}

func formID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.FormValue(name), 10, 64)
	return id
}
