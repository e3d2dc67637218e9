package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/shared"
	"github.com/shht-tools/tradedesk/internal/view"
)

func newLoginHandler(t *testing.T, upstream http.HandlerFunc) (*auth.Handler, *auth.Service, *shared.SessionManager) {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)
	api := apiclient.NewClient(server.URL, time.Second, nil, nil)
	service := auth.NewService(api, nil)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false, nil)
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	handler := auth.NewHandler(nil, service, templates, sessionManager, shared.NewCSRFManager("csrfsecret"))
	return handler, service, sessionManager
}

func requestWithSession(t *testing.T, sm *shared.SessionManager, method, target string, body string) (*http.Request, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess)), sess
}

func TestLoginPageRendersForm(t *testing.T) {
	handler, _, sm := newLoginHandler(t, successfulLogin(t))

	req, sess := requestWithSession(t, sm, http.MethodGet, "/auth/login", "")
	res := httptest.NewRecorder()
	handler.ShowLoginForTest(res, req)
	if err := sm.Commit(req.Context(), res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, "<form") || !strings.Contains(body, `name="csrf_token"`) {
		t.Fatalf("expected login form with csrf token in body")
	}
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	handler, service, sm := newLoginHandler(t, successfulLogin(t))

	req, sess := requestWithSession(t, sm, http.MethodGet, "/auth/login", "")
	if !service.Login(context.Background(), sess, auth.Credentials{Username: "asha", Password: "pw"}) {
		t.Fatalf("login failed")
	}

	res := httptest.NewRecorder()
	handler.ShowLoginForTest(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect home, got %q", loc)
	}
}

func TestLoginFailureRendersUnauthorized(t *testing.T) {
	handler, _, sm := newLoginHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":400,"success":false,"message":"Invalid credentials"}`))
	})

	form := url.Values{}
	form.Set("username", "asha")
	form.Set("password", "wrongpass")
	req, sess := requestWithSession(t, sm, http.MethodPost, "/auth/login", form.Encode())

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)
	if err := sm.Commit(req.Context(), res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, "Invalid credentials") {
		t.Fatalf("expected the server message in the response")
	}
	if !strings.Contains(body, `value="asha"`) {
		t.Fatalf("expected the username to be kept in the form")
	}
}

func TestLoginMissingFieldsRendersValidation(t *testing.T) {
	handler, _, sm := newLoginHandler(t, successfulLogin(t))

	form := url.Values{}
	form.Set("username", "asha")
	req, sess := requestWithSession(t, sm, http.MethodPost, "/auth/login", form.Encode())

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)
	if err := sm.Commit(req.Context(), res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Password is required") {
		t.Fatalf("expected a field error for the missing password")
	}
}
