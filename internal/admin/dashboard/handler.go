package dashboard

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/shht-tools/tradedesk/internal/admin/dashboard/svg"
	"github.com/shht-tools/tradedesk/internal/admin/page"
	"github.com/shht-tools/tradedesk/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	presenter *page.Presenter
}

func NewHandler(logger *slog.Logger, service *Service, presenter *page.Presenter) *Handler {
	return &Handler{logger: logger, service: service, presenter: presenter}
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	stats, env := h.service.Stats(r.Context())
	if env.Unauthorized() {
		h.presenter.HandleMutation(w, r, env, "", "/")
		return
	}

	h.presenter.Render(w, r, "pages/dashboard.html", "Dashboard", map[string]any{
		"Stats":        stats,
		"IsError":      !env.OK(),
		"ErrorMessage": env.ErrorMessage(),
		"OrderChart":   h.orderChart(stats),
		"PaymentChart": h.paymentChart(stats),
	})
}

func (h *Handler) orderChart(stats Stats) template.HTML {
	if len(stats.Monthly) == 0 {
		return ""
	}
	series := make([]float64, len(stats.Monthly))
	labels := make([]string, len(stats.Monthly))
	for i, m := range stats.Monthly {
		series[i], _ = m.Value.Float64()
		labels[i] = m.Month
	}
	chart, err := svg.Bars(720, 240, series, labels, svg.BarOpts{
		Title:       "Order value by month",
		SeriesLabel: "Order value",
	})
	if err != nil {
		h.logger.Error("render order chart", slog.Any("error", err))
		return ""
	}
	return chart
}

func (h *Handler) paymentChart(stats Stats) template.HTML {
	if len(stats.Payments) == 0 {
		return ""
	}
	values := make([]float64, len(stats.Payments))
	labels := make([]string, len(stats.Payments))
	for i, p := range stats.Payments {
		values[i], _ = p.Amount.Float64()
		labels[i] = view.Humanize(p.Status)
	}
	chart, err := svg.Pie(240, values, labels, svg.PieOpts{
		Title: "Invoices by payment status",
	})
	if err != nil {
		h.logger.Error("render payment chart", slog.Any("error", err))
		return ""
	}
	return chart
}
