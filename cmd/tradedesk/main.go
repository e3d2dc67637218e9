package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/admin/clients"
	"github.com/shht-tools/tradedesk/internal/admin/dashboard"
	"github.com/shht-tools/tradedesk/internal/admin/invoices"
	"github.com/shht-tools/tradedesk/internal/admin/orders"
	"github.com/shht-tools/tradedesk/internal/admin/page"
	"github.com/shht-tools/tradedesk/internal/admin/settings"
	"github.com/shht-tools/tradedesk/internal/admin/users"
	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/app"
	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/layout"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	"github.com/shht-tools/tradedesk/internal/lookup"
	"github.com/shht-tools/tradedesk/internal/nav"
	"github.com/shht-tools/tradedesk/internal/observability"
	"github.com/shht-tools/tradedesk/internal/shared"
	"github.com/shht-tools/tradedesk/internal/view"
	"github.com/shht-tools/tradedesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "tradedesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction(), logger)
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout, auth.TokenSource, logger)
	authService := auth.NewService(api, logger)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	loaders := listfetch.NewRegistry()
	layoutHandler := layout.NewHandler(logger)
	authService.OnLogout(func(sessionID string) {
		loaders.Drop(sessionID)
		layoutHandler.Drop(sessionID)
	})

	lookupCache := lookup.NewCache(redisClient, cfg.LookupCacheTTL)
	if err := lookupCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("lookup invalidation listener", slog.Any("error", err))
	}
	lookups := lookup.NewProvider(api, lookupCache, logger)

	gate := nav.Gate{Service: authService, Logger: logger}
	metrics := observability.NewMetrics()

	presenter := &page.Presenter{
		Templates: templates,
		Auth:      authService,
		Gate:      gate,
		CSRF:      csrfManager,
		Layout:    layoutHandler,
		Logger:    logger,
	}

	dashboardService := dashboard.NewService(api, redisClient, logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, presenter)

	ordersService := orders.NewService(api, loaders, logger)
	ordersHandler := orders.NewHandler(logger, ordersService, presenter, lookups)

	invoicesService := invoices.NewService(api, loaders, logger)
	invoicesHandler := invoices.NewHandler(logger, invoicesService, presenter, lookups)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	clientsService := clients.NewService(api, loaders, lookups, jobsClient, logger)
	clientsHandler := clients.NewHandler(logger, clientsService, presenter, lookups)

	usersService := users.NewService(api, loaders, logger)
	usersHandler := users.NewHandler(logger, usersService, presenter)

	settingsService := settings.NewService(api, loaders, lookups, jobsClient, logger)
	settingsHandler := settings.NewHandler(logger, settingsService, presenter, lookups)

	tamperWatcher := nav.NewTamperWatcher(redisClient, logger)
	tamperWatcher.OnRemoved(func(sessionID string) {
		loaders.Drop(sessionID)
		layoutHandler.Drop(sessionID)
	})
	go tamperWatcher.Run(ctx)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Presenter:        presenter,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Gate:             gate,
		AuthHandler:      authHandler,
		LayoutHandler:    layoutHandler,
		DashboardHandler: dashboardHandler,
		OrdersHandler:    ordersHandler,
		InvoicesHandler:  invoicesHandler,
		ClientsHandler:   clientsHandler,
		UsersHandler:     usersHandler,
		SettingsHandler:  settingsHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
