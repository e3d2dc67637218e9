package orders

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	pageNum, perPage := shared.PageFromRequest(r)
	pagination := shared.NewPagination(pageNum, perPage, 0)

	req := ListRequest{
		Offset:       pagination.Offset(),
		Limit:        perPage,
		Search:       r.URL.Query().Get("search"),
		Status:       r.URL.Query().Get("status"),
		ClientID:     queryID(r, "client"),
		CheckedBy:    queryID(r, "checked_by"),
		DispatchedBy: queryID(r, "dispatched_by"),
		DateFrom:     r.URL.Query().Get("date_from"),
		DateTo:       r.URL.Query().Get("date_to"),
	}

	loader := h.service.ListLoader(sess)
	loader.SetCallbacks(h.presenter.Auth.Unauthorized(sess), h.flashError(sess))
	state := loader.Observe(r.Context(), req, req)
	if h.presenter.RequireUnauthorizedRedirect(w, r) {
		return
	}

	pagination = shared.NewPagination(pageNum, perPage, state.DataCount)
	clientOpts, _ := h.lookups.Clients(r.Context())
	staff, _ := h.lookups.UsersByRole(r.Context(), "staff")
	dispatchers, _ := h.lookups.UsersByRole(r.Context(), "dispatch")

	h.presenter.Render(w, r, "pages/orders_list.html", "Orders", map[string]any{
		"Orders":       listfetch.DecodeList[Order](state),
		"Pagination":   pagination,
		"IsLoading":    state.IsLoading,
		"IsError":      state.IsError,
		"ErrorMessage": state.ErrorMessage,
		"Search":       req.Search,
		"Status":       req.Status,
		"Statuses":     Statuses,
		"Client":       req.ClientID,
		"CheckedBy":    req.CheckedBy,
		"DispatchedBy": req.DispatchedBy,
		"DateFrom":     req.DateFrom,
		"DateTo":       req.DateTo,
		"Clients":      clientOpts,
		"Staff":        staff,
		"Dispatchers":  dispatchers,
		"PerPage":      perPage,
		"PerPageOpts":  shared.RowsPerPageOptions,
	})
}

// ShowForm previews the next order number from the server so the operator
// sees it before submitting.
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	orderID, env := h.service.NextOrderID(r.Context())
	if env.Unauthorized() {
		h.presenter.HandleMutation(w, r, env, "", "/orders")
		return
	}

	clientOpts, _ := h.lookups.Clients(r.Context())
	counters, _ := h.lookups.Counters(r.Context())
	h.presenter.Render(w, r, "pages/order_form.html", "Add Order", map[string]any{
		"NextOrderID": orderID,
		"Clients":     clientOpts,
		"Counters":    counters,
	})
}

func (h *Handler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	order, env := h.service.Get(r.Context(), id)
	if !env.OK() {
		h.presenter.HandleMutation(w, r, env, "", "/orders")
		return
	}

	clientOpts, _ := h.lookups.Clients(r.Context())
	counters, _ := h.lookups.Counters(r.Context())
	h.presenter.Render(w, r, "pages/order_form.html", "Edit Order", map[string]any{
		"Order":    order,
		"Clients":  clientOpts,
		"Counters": counters,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	req := CreateRequest{
		OrderID:    strings.TrimSpace(r.FormValue("order_id")),
		ClientID:   formID(r, "client"),
		OrderDate:  r.FormValue("order_date"),
		OrderValue: formDecimal(r, "order_value"),
		Counter:    formID(r, "counter"),
		Remarks:    strings.TrimSpace(r.FormValue("remarks")),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/orders/new", http.StatusSeeOther)
		return
	}

	env := h.service.Create(r.Context(), req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Order added", "/orders")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	req := UpdateRequest{
		ID:         id,
		ClientID:   formID(r, "client"),
		OrderDate:  r.FormValue("order_date"),
		OrderValue: formDecimal(r, "order_value"),
		Counter:    formID(r, "counter"),
		Remarks:    strings.TrimSpace(r.FormValue("remarks")),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/orders/"+chi.URLParam(r, "id")+"/edit", http.StatusSeeOther)
		return
	}

	env := h.service.Update(r.Context(), req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Order updated", "/orders")
}

// ShowStatus renders the workflow dialog for one order with its server-side
// status, not the possibly stale row from the table.
func (h *Handler) ShowStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	order, env := h.service.Get(r.Context(), id)
	if !env.OK() {
		h.presenter.HandleMutation(w, r, env, "", "/orders")
		return
	}
	info, env := h.service.Status(r.Context(), id)
	if !env.OK() {
		h.presenter.HandleMutation(w, r, env, "", "/orders")
		return
	}

	staff, _ := h.lookups.UsersByRole(r.Context(), "staff")
	h.presenter.Render(w, r, "pages/order_status.html", "Order Status", map[string]any{
		"Order": order,
		"Info":  info,
		"Staff": staff,
	})
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	req := ChangeStatusRequest{
		OrderID: strings.TrimSpace(r.FormValue("order_id")),
		Status:  r.FormValue("status"),
	}
	switch req.Status {
	case StatusDispatched:
		req.OptionalFields = &StatusFields{DispatchedBy: formID(r, "dispatched_by")}
	case StatusInvoiced:
		req.OptionalFields = &StatusFields{
			InvoiceNumber: strings.TrimSpace(r.FormValue("invoice_number")),
			InvoiceDate:   r.FormValue("invoice_date"),
		}
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	env := h.service.ChangeStatus(r.Context(), id, req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Order status updated", "/orders")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	env := h.service.Delete(r.Context(), id)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Order deleted", "/orders")
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{
		Search:       r.URL.Query().Get("search"),
		Status:       r.URL.Query().Get("status"),
		ClientID:     queryID(r, "client"),
		CheckedBy:    queryID(r, "checked_by"),
		DispatchedBy: queryID(r, "dispatched_by"),
		DateFrom:     r.URL.Query().Get("date_from"),
		DateTo:       r.URL.Query().Get("date_to"),
	}
	env := h.service.Export(r.Context(), req)
	h.presenter.HandleExport(w, r, env, "/orders")
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

func queryID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return id
}

func formID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.FormValue(name), 10, 64)
	return id
}

func formDecimal(r *http.Request, name string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(r.FormValue(name)))
	if err != nil {
		return decimal.Zero
	}
	return value
}
