package clients

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

// List renders the clients table. Typing in the search box posts back here
// with the search parameter; those requests share the session loader, so a
// burst of keystrokes collapses into one upstream call.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	pageNum, perPage := shared.PageFromRequest(r)
	pagination := shared.NewPagination(pageNum, perPage, 0)

	req := ListRequest{
		Offset:      pagination.Offset(),
		Limit:       perPage,
		Search:      r.URL.Query().Get("search"),
		Category:    queryID(r, "category"),
		SubCategory: queryID(r, "sub_category"),
		Tag:         queryID(r, "tag"),
	}

	loader := h.service.ListLoader(sess)
	loader.SetCallbacks(h.unauthorized(sess), h.flashError(sess))
	state := loader.Observe(r.Context(), req, req)
	if h.presenter.RequireUnauthorizedRedirect(w, r) {
		return
	}

	pagination = shared.NewPagination(pageNum, perPage, state.DataCount)
	categories, _ := h.lookups.Categories(r.Context())
	subCategories, _ := h.lookups.SubCategories(r.Context(), req.Category)
	tags, _ := h.lookups.Tags(r.Context())

	h.presenter.Render(w, r, "pages/clients_list.html", "Clients", map[string]any{
		"Clients":       listfetch.DecodeList[Client](state),
		"Pagination":    pagination,
		"IsLoading":     state.IsLoading,
		"IsError":       state.IsError,
		"ErrorMessage":  state.ErrorMessage,
		"Search":        req.Search,
		"Category":      req.Category,
		"SubCategory":   req.SubCategory,
		"Tag":           req.Tag,
		"Categories":    categories,
		"SubCategories": subCategories,
		"Tags":          tags,
		"PerPage":       perPage,
		"PerPageOpts":   shared.RowsPerPageOptions,
	})
}

func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	categories, _ := h.lookups.Categories(r.Context())
	tags, _ := h.lookups.Tags(r.Context())
	h.presenter.Render(w, r, "pages/client_form.html", "Add Client", map[string]any{
		"Categories": categories,
		"Tags":       tags,
	})
}

func (h *Handler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	client, env := h.service.Get(r.Context(), id)
	if !env.OK() {
		h.presenter.HandleMutation(w, r, env, "", "/clients")
		return
	}

	categories, _ := h.lookups.Categories(r.Context())
	tags, _ := h.lookups.Tags(r.Context())
	h.presenter.Render(w, r, "pages/client_form.html", "Edit Client", map[string]any{
		"Client":     client,
		"Categories": categories,
		"Tags":       tags,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	req := CreateRequest{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Category:    formID(r, "category"),
		SubCategory: formID(r, "sub_category"),
		Tags:        r.FormValue("tags"),
		City:        strings.TrimSpace(r.FormValue("city")),
		State:       strings.TrimSpace(r.FormValue("state")),
		RM:          strings.TrimSpace(r.FormValue("rm")),
		SalesPerson: strings.TrimSpace(r.FormValue("sales_person")),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/clients/new", http.StatusSeeOther)
		return
	}

	env := h.service.Create(r.Context(), req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Client added", "/clients")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	req := UpdateRequest{
		ID:          id,
		Name:        strings.TrimSpace(r.FormValue("name")),
		Category:    formID(r, "category"),
		SubCategory: formID(r, "sub_category"),
		Tags:        r.FormValue("tags"),
		City:        strings.TrimSpace(r.FormValue("city")),
		State:       strings.TrimSpace(r.FormValue("state")),
		RM:          strings.TrimSpace(r.FormValue("rm")),
		SalesPerson: strings.TrimSpace(r.FormValue("sales_person")),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/clients/"+chi.URLParam(r, "id")+"/edit", http.StatusSeeOther)
		return
	}

	env := h.service.Update(r.Context(), req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Client updated", "/clients")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	env := h.service.Delete(r.Context(), id)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Client deleted", "/clients")
}

// Export asks upstream for a download link covering the current filter
// and sends the browser to it.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{
		Search:      r.URL.Query().Get("search"),
		Category:    queryID(r, "category"),
		SubCategory: queryID(r, "sub_category"),
		Tag:         queryID(r, "tag"),
	}
	env := h.service.Export(r.Context(), req)
	h.presenter.HandleExport(w, r, env, "/clients")
}

func (h *Handler) refetchOnOK(r *http.Request, env apiclient.Envelope) {
	if !env.OK() {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	loader := h.service.ListLoader(sess)
	loader.SetCallbacks(h.unauthorized(sess), h.flashError(sess))
	loader.Refetch(r.Context())
}

func (h *Handler) unauthorized(sess *shared.Session) func(apiclient.Envelope) {
	return h.presenter.Auth.Unauthorized(sess)
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
