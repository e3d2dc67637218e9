package invoices

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
		Offset:        pagination.Offset(),
		Limit:         perPage,
		Search:        r.URL.Query().Get("search"),
		ClientID:      queryID(r, "client"),
		PaymentStatus: r.URL.Query().Get("payment_status"),
		DateFrom:      r.URL.Query().Get("date_from"),
		DateTo:        r.URL.Query().Get("date_to"),
	}

	loader := h.service.ListLoader(sess)
	loader.SetCallbacks(h.presenter.Auth.Unauthorized(sess), h.flashError(sess))
	state := loader.Observe(r.Context(), req, req)
	if h.presenter.RequireUnauthorizedRedirect(w, r) {
		return
	}

	pagination = shared.NewPagination(pageNum, perPage, state.DataCount)
	clientOpts, _ := h.lookups.Clients(r.Context())

	h.presenter.Render(w, r, "pages/invoices_list.html", "Invoices", map[string]any{
		"Invoices":        listfetch.DecodeList[Invoice](state),
		"Pagination":      pagination,
		"IsLoading":       state.IsLoading,
		"IsError":         state.IsError,
		"ErrorMessage":    state.ErrorMessage,
		"Search":          req.Search,
		"Client":          req.ClientID,
		"PaymentStatus":   req.PaymentStatus,
		"PaymentStatuses": PaymentStatuses,
		"DateFrom":        req.DateFrom,
		"DateTo":          req.DateTo,
		"Clients":         clientOpts,
		"PerPage":         perPage,
		"PerPageOpts":     shared.RowsPerPageOptions,
	})
}

func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	clientOpts, _ := h.lookups.Clients(r.Context())
	h.presenter.Render(w, r, "pages/invoice_form.html", "Add Invoice", map[string]any{
		"Clients": clientOpts,
	})
}

func (h *Handler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	invoice, env := h.service.Get(r.Context(), id)
	if !env.OK() {
		h.presenter.HandleMutation(w, r, env, "", "/invoices")
		return
	}

	clientOpts, _ := h.lookups.Clients(r.Context())
	h.presenter.Render(w, r, "pages/invoice_form.html", "Edit Invoice", map[string]any{
		"Invoice":         invoice,
		"Clients":         clientOpts,
		"PaymentStatuses": PaymentStatuses,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	req := CreateRequest{
		InvoiceNo:   strings.TrimSpace(r.FormValue("invoice_no")),
		ClientID:    formID(r, "client"),
		InvoiceDate: r.FormValue("invoice_date"),
		DueDate:     r.FormValue("due_date"),
		Amount:      formDecimal(r, "amount"),
		Remarks:     strings.TrimSpace(r.FormValue("remarks")),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/invoices/new", http.StatusSeeOther)
		return
	}

	env := h.service.Create(r.Context(), req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Invoice added", "/invoices")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	req := UpdateRequest{
		ID:            id,
		InvoiceNo:     strings.TrimSpace(r.FormValue("invoice_no")),
		ClientID:      formID(r, "client"),
		InvoiceDate:   r.FormValue("invoice_date"),
		DueDate:       r.FormValue("due_date"),
		Amount:        formDecimal(r, "amount"),
		AmountPaid:    formDecimal(r, "amount_paid"),
		PaymentStatus: r.FormValue("payment_status"),
		Remarks:       strings.TrimSpace(r.FormValue("remarks")),
	}
	if h.presenter.FlashValidation(sess, h.validate.Struct(req)) {
		http.Redirect(w, r, "/invoices/"+chi.URLParam(r, "id")+"/edit", http.StatusSeeOther)
		return
	}

	env := h.service.Update(r.Context(), req)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Invoice updated", "/invoices")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	env := h.service.Delete(r.Context(), id)
	h.refetchOnOK(r, env)
	h.presenter.HandleMutation(w, r, env, "Invoice deleted", "/invoices")
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{
		Search:        r.URL.Query().Get("search"),
		ClientID:      queryID(r, "client"),
		PaymentStatus: r.URL.Query().Get("payment_status"),
		DateFrom:      r.URL.Query().Get("date_from"),
		DateTo:        r.URL.Query().Get("date_to"),
	}
	env := h.service.Export(r.Context(), req)
	h.presenter.HandleExport(w, r, env, "/invoices")
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
