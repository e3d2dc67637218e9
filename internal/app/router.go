package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shht-tools/tradedesk/internal/admin/clients"
	"github.com/shht-tools/tradedesk/internal/admin/dashboard"
	"github.com/shht-tools/tradedesk/internal/admin/invoices"
	"github.com/shht-tools/tradedesk/internal/admin/orders"
	"github.com/shht-tools/tradedesk/internal/admin/page"
	"github.com/shht-tools/tradedesk/internal/admin/settings"
	"github.com/shht-tools/tradedesk/internal/admin/users"
	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/layout"
	"github.com/shht-tools/tradedesk/internal/nav"
	"github.com/shht-tools/tradedesk/internal/observability"
	"github.com/shht-tools/tradedesk/internal/shared"
	"github.com/shht-tools/tradedesk/jobs"
	"github.com/shht-tools/tradedesk/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Presenter        *page.Presenter
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	Gate             nav.Gate
	AuthHandler      *auth.Handler
	LayoutHandler    *layout.Handler
	DashboardHandler *dashboard.Handler
	OrdersHandler    *orders.Handler
	InvoicesHandler  *invoices.Handler
	ClientsHandler   *clients.Handler
	UsersHandler     *users.Handler
	SettingsHandler  *settings.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Tradedesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Get("/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		params.Presenter.Render(w, r, "pages/not_found.html", "Not Found", nil)
	})

	// Everything below requires a signed-in session.
	r.Group(func(r chi.Router) {
		r.Use(params.Gate.RequireLogin)

		r.Mount("/layout", params.LayoutHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireSection(nav.SectionDashboard))
			r.Get("/", params.DashboardHandler.Show)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireSection(nav.SectionOrders))
			r.Route("/orders", params.OrdersHandler.MountRoutes)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireSection(nav.SectionInvoices))
			r.Route("/invoices", params.InvoicesHandler.MountRoutes)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireSection(nav.SectionClients))
			r.Route("/clients", params.ClientsHandler.MountRoutes)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireSection(nav.SectionUsers))
			r.Route("/users", params.UsersHandler.MountRoutes)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireSection(nav.SectionSettings))
			r.Route("/settings", params.SettingsHandler.MountRoutes)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireSection(nav.SectionChangePassword))
			r.Route("/change-password", params.UsersHandler.MountPasswordRoutes)
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/404", http.StatusSeeOther)
	})

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
