package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/shared"
	_ "github.com/shht-tools/tradedesk/testing"
)

func newTestSession(t *testing.T) *shared.Session {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess
}

func loginUpstream(t *testing.T, handler http.HandlerFunc) *auth.Service {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)
	client := apiclient.NewClient(upstream.URL, time.Second, nil, nil)
	return auth.NewService(client, nil)
}

func successfulLogin(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":    200,
			"success": true,
			"message": "Login Success",
			"data": map[string]any{
				"id":        3,
				"name":      "Asha",
				"username":  "asha",
				"role":      "admin",
				"access_to": "orders,clients",
				"token":     "tok-xyz",
			},
		})
	}
}

func TestLoginSuccessGrantsFullAccess(t *testing.T) {
	service := loginUpstream(t, successfulLogin(t))
	sess := newTestSession(t)

	if !service.Login(context.Background(), sess, auth.Credentials{Username: "asha", Password: "pw"}) {
		t.Fatalf("expected login to succeed")
	}
	if !service.IsLoggedIn(sess) {
		t.Fatalf("login flag not persisted")
	}

	info, ok := service.CurrentUser(sess)
	if !ok || info.Token != "tok-xyz" {
		t.Fatalf("profile not persisted: %+v", info)
	}
	// Whatever scope the server hands out, a fresh login gets everything.
	if info.AccessTo != auth.AccessAll {
		t.Fatalf("expected universal access after login, got %q", info.AccessTo)
	}

	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "success" {
		t.Fatalf("expected a success flash, got %+v", flash)
	}
}

func TestLoginFailureStaysLoggedOut(t *testing.T) {
	service := loginUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 400, "success": false, "message": "Invalid credentials",
		})
	})
	sess := newTestSession(t)

	if service.Login(context.Background(), sess, auth.Credentials{Username: "asha", Password: "wrong"}) {
		t.Fatalf("expected login to fail")
	}
	if service.IsLoggedIn(sess) {
		t.Fatalf("failed login must not persist the login flag")
	}
	if _, ok := service.CurrentUser(sess); ok {
		t.Fatalf("failed login must not persist a profile")
	}

	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "error" || flash.Message != "Invalid credentials" {
		t.Fatalf("expected the server message as an error flash, got %+v", flash)
	}
}

func TestExpiredSessionNotifiesOnce(t *testing.T) {
	service := loginUpstream(t, successfulLogin(t))
	sess := newTestSession(t)

	if !service.Login(context.Background(), sess, auth.Credentials{Username: "asha", Password: "pw"}) {
		t.Fatalf("login failed")
	}
	sess.PopFlash() // drop the login flash

	expired := apiclient.Envelope{Code: apiclient.CodeUnauthorized, Message: "Session expired"}
	service.Logout(sess, &expired)
	service.Logout(sess, &expired)
	service.Logout(sess, &expired)

	first := sess.PopFlash()
	if first == nil || first.Message != "Session expired" {
		t.Fatalf("expected one expiry notification, got %+v", first)
	}
	if extra := sess.PopFlash(); extra != nil {
		t.Fatalf("repeated 401s must not stack notifications, got %+v", extra)
	}

	// A fresh login re-arms the notification.
	if !service.Login(context.Background(), sess, auth.Credentials{Username: "asha", Password: "pw"}) {
		t.Fatalf("relogin failed")
	}
	sess.PopFlash()
	service.Logout(sess, &expired)
	if again := sess.PopFlash(); again == nil {
		t.Fatalf("expected the notification to fire again after relogin")
	}
}

func TestForceLogoutClearsBothKeysAndTellsWhy(t *testing.T) {
	service := loginUpstream(t, successfulLogin(t))
	sess := newTestSession(t)

	if !service.Login(context.Background(), sess, auth.Credentials{Username: "asha", Password: "pw"}) {
		t.Fatalf("login failed")
	}
	sess.PopFlash()

	var droppedSession string
	service.OnLogout(func(id string) { droppedSession = id })

	service.ForceLogout(sess)
	if service.IsLoggedIn(sess) {
		t.Fatalf("force logout must clear the login flag")
	}
	if _, ok := service.CurrentUser(sess); ok {
		t.Fatalf("force logout must clear the profile")
	}
	if droppedSession != sess.ID {
		t.Fatalf("logout callback not invoked with the session id")
	}

	flash := sess.PopFlash()
	if flash == nil || flash.Message != "Session storage changed." {
		t.Fatalf("expected the tamper notification, got %+v", flash)
	}
}

func TestTokenSourceReadsSessionProfile(t *testing.T) {
	sess := newTestSession(t)
	shared.Set(sess, auth.SessionKeyUserInfo, auth.UserInfo{ID: 3, Token: "tok-ctx"})

	ctx := shared.ContextWithSession(context.Background(), sess)
	if got := auth.TokenSource(ctx); got != "tok-ctx" {
		t.Fatalf("expected the session token, got %q", got)
	}
	if got := auth.TokenSource(context.Background()); got != "" {
		t.Fatalf("expected empty token without a session, got %q", got)
	}
}

func TestAccessList(t *testing.T) {
	info := auth.UserInfo{AccessTo: "orders,clients"}
	if !info.HasAccess("orders") || info.HasAccess("users") {
		t.Fatalf("access list misread: %+v", info.AccessList())
	}
	all := auth.UserInfo{AccessTo: auth.AccessAll}
	if !all.HasAccess("users") {
		t.Fatalf("universal scope must grant every key")
	}
	if got := (auth.UserInfo{}).AccessList(); len(got) != 0 {
		t.Fatalf("empty scope must yield an empty list, got %v", got)
	}
}
