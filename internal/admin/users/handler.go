package users

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shht-tools/tradedesk/internal/admin/page"
	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	"github.com/shht-tools/tradedesk/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	presenter *page.Presenter
	validate  *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, presenter *page.Presenter) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		presenter: presenter,
		validate:  validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	pageNum, perPage := shared.PageFromRequest(r)
	pagination := shared.NewPagination(pageNum, perPage, 0)

	req := ListRequest{
		Offset: pagination.Offset(),
		Limit:  perPage,
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	}

	loader := h.service.ListLoader(sess)
	loader.SetCallbacks(h.presenter.Auth.Unauthorized(sess), h.flashError(sess))
	state := loader.Observe(r.Context(), req, req)
	if h.presenter.RequireUnauthorizedRedirect(w, r) {
		return
	}

	pagination = shared.NewPagination(pageNum, perPage, state.DataCount)
	h.presenter.Render(w, r, "pages/users_list.html", "Users", map[string]any{
		"Users":        listfetch.DecodeList[User](state),
		"Pagination":   pagination,
		"IsLoading":    state.IsLoading,
		"IsError":      state.IsError,
		"ErrorMessage": state.ErrorMessage,
		"Search":       req.Search,
		"Role":         req.Role,
		"Roles":        auth.RoleList,
		"PerPage":      perPage,
		"PerPageOpts":  shared.RowsPerPageOptions,
	})
}

func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.presenter.Render(w, r, "pages/user_form.html", "Add User", map[string]any{
		"Roles": auth.RoleList,
	})
}

func (h *Handler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, env := h.service.Get(r.Context(), id)
	if !env.OK() {
		h.presenter.HandleMutation(w, r, env, "", "/users")
		return
	}

	h.presenter.Render(w, r, "pages/user_form.html", "Edit User", map[string]any{
		"User":  user,
		"Roles": auth.RoleList,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	req := CreateRequest{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Mobile:   strings.TrimSpace(r.FormValue("mobile")),
		Role:     r.FormValue("role"),
		AccessTo: strings.Join(r.Form["access_to"], ","),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/users/new", http.StatusSeeOther)
		return
	}

	env := h.service.Create(r.Context(), req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "User added", "/users")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	req := UpdateRequest{
		ID:       id,
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Mobile:   strings.TrimSpace(r.FormValue("mobile")),
		Role:     r.FormValue("role"),
		AccessTo: strings.Join(r.Form["access_to"], ","),
		Password: r.FormValue("password"),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/users/"+chi.URLParam(r, "id")+"/edit", http.StatusSeeOther)
		return
	}

	env := h.service.Update(r.Context(), req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "User updated", "/users")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	env := h.service.Delete(r.Context(), id)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "User deleted", "/users")
}

// Toggle flips one boolean column named in the route.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	column := chi.URLParam(r, "column")
	switch column {
	case ToggleStatus, ToggleEmail, ToggleWhatsapp:
	default:
		http.Error(w, "Unknown toggle", http.StatusBadRequest)
		return
	}

	env := h.service.Toggle(r.Context(), column, id)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "User updated", "/users")
}

// Export asks upstream for a download link covering the current filter
// and sends the browser to it.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	}
	env := h.service.Export(r.Context(), req)
	h.presenter.HandleExport(w, r, env, "/users")
}

// ShowChangePassword renders the self-service password page. Reachable on
// every role, not only admin.
func (h *Handler) ShowChangePassword(w http.ResponseWriter, r *http.Request) {
	h.presenter.Render(w, r, "pages/change_password.html", "Change Password", nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	req := ChangePasswordRequest{
		OldPassword:     r.FormValue("old_password"),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/change-password", http.StatusSeeOther)
		return
	}

	env := h.service.ChangePassword(r.Context(), req)
	h.presenter.HandleMutation(w, r, env, "Password changed", "/change-password")
}

func (h *Handler) refetchOnOK(r *http.Request, env apiclient.Envelope) {
	if !env.OK() {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	loader := h.service.ListLoader(sess)
	loader.SetCallbacks(h.presenter.Auth.Unauthorized(sess), h.flashError(sess))
	loader.Refetch(r.Context())
}

func (h *Handler) flashError(sess *shared.Session) func(string) {
	return func(message string) {
		shared.FlashError(sess, message)
	}
}
