package clients_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/admin/clients"
	"github.com/shht-tools/tradedesk/internal/admin/page"
	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/layout"
	"github.com/shht-tools/tradedesk/internal/listfetch"
	"github.com/shht-tools/tradedesk/internal/lookup"
	"github.com/shht-tools/tradedesk/internal/nav"
	"github.com/shht-tools/tradedesk/internal/shared"
	"github.com/shht-tools/tradedesk/internal/view"
	_ "github.com/shht-tools/tradedesk/testing"
)

// newClientsScreen wires the full rendering stack against a fake upstream
// so List exercises the same path as production requests.
func newClientsScreen(t *testing.T, upstream http.Handler) (*clients.Handler, *shared.Session) {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	shared.Set(sess, auth.SessionKeyLoggedIn, true)
	shared.Set(sess, auth.SessionKeyUserInfo, auth.UserInfo{
		ID: 1, Name: "Asha", Role: auth.RoleAdmin, AccessTo: auth.AccessAll, Token: "tok",
	})

	logger := slog.Default()
	client := apiclient.NewClient(server.URL, time.Second, nil, logger)
	authService := auth.NewService(client, logger)
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	lookups := lookup.NewProvider(client, lookup.NewCache(redisClient, time.Minute), logger)
	presenter := &page.Presenter{
		Templates: templates,
		Auth:      authService,
		Gate:      nav.Gate{Service: authService, Logger: logger},
		CSRF:      shared.NewCSRFManager("csrfsecret"),
		Layout:    layout.NewHandler(logger),
		Logger:    logger,
	}
	service := clients.NewService(client, listfetch.NewRegistry(), lookups, nil, logger)
	return clients.NewHandler(logger, service, presenter, lookups), sess
}

func fakeTradingAPI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clients/retrieve":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 200, "success": true, "total": 1,
				"data": []map[string]any{{
					"id": 7, "name": "Sunrise Traders", "category": "Retail",
					"city": "Pune", "tags": []string{"priority"},
				}},
			})
		default:
			// Lookup endpoints.
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 200, "success": true, "total": 0, "data": []any{},
			})
		}
	})
}

func TestListRendersClientsTable(t *testing.T) {
	handler, sess := newClientsScreen(t, fakeTradingAPI())

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()

	handler.List(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	body := res.Body.String()
	if !strings.Contains(body, "Sunrise Traders") {
		t.Fatalf("client row missing:\n%s", body)
	}
	if !strings.Contains(body, "Clients") {
		t.Fatalf("page chrome missing:\n%s", body)
	}
}

func TestListRedirectsWhenUpstreamExpiresSession(t *testing.T) {
	handler, sess := newClientsScreen(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 401, "message": "Session expired"})
	}))

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()

	handler.List(res, req)

	if res.Code != http.StatusSeeOther || res.Header().Get("Location") != "/auth/login" {
		t.Fatalf("expected redirect to login, got %d %s", res.Code, res.Header().Get("Location"))
	}
}

func TestExportRedirectsToUpstreamFile(t *testing.T) {
	handler, sess := newClientsScreen(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clients/export" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 200, "success": true,
			"data": map[string]any{"file_url": "https://files.example.com/clients.xlsx"},
		})
	}))

	req := httptest.NewRequest(http.MethodGet, "/clients/export", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()

	handler.Export(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "https://files.example.com/clients.xlsx" {
		t.Fatalf("expected redirect to the upstream file, got %q", loc)
	}
	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "success" {
		t.Fatalf("expected a success flash, got %+v", flash)
	}
}

func TestExportWithoutFileURLFlashesError(t *testing.T) {
	handler, sess := newClientsScreen(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "success": true, "data": map[string]any{}})
	}))

	req := httptest.NewRequest(http.MethodGet, "/clients/export", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()

	handler.Export(res, req)

	if res.Code != http.StatusSeeOther || res.Header().Get("Location") != "/clients" {
		t.Fatalf("expected redirect back to the listing, got %d %s", res.Code, res.Header().Get("Location"))
	}
	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "error" {
		t.Fatalf("expected an error flash, got %+v", flash)
	}
}
