package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/shared"
	_ "github.com/shht-tools/tradedesk/testing"
)

func newSessionManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "test_session", "secret", time.Hour, false, nil)
}

func loadSession(t *testing.T, sm *shared.SessionManager, cookie *http.Cookie) (*shared.Session, *http.Request) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess, req
}

func commitSession(t *testing.T, sm *shared.SessionManager, req *http.Request, sess *shared.Session) *http.Cookie {
	t.Helper()
	res := httptest.NewRecorder()
	if err := sm.Commit(context.Background(), res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	for _, c := range res.Result().Cookies() {
		if c.Name == sm.CookieName() {
			return c
		}
	}
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newSessionManager(t)

	sess, req := loadSession(t, sm, nil)
	sess.SetRaw("theme", "dark")
	cookie := commitSession(t, sm, req, sess)
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("expected a session cookie after commit")
	}

	reloaded, _ := loadSession(t, sm, cookie)
	if reloaded.ID != sess.ID {
		t.Fatalf("session id changed across requests: %s vs %s", reloaded.ID, sess.ID)
	}
	got, ok := reloaded.GetRaw("theme")
	if !ok || got != "dark" {
		t.Fatalf("expected stored value to survive the round trip, got %q (present=%v)", got, ok)
	}
}

func TestFlashSurvivesRedirect(t *testing.T) {
	sm := newSessionManager(t)

	// The mutating request queues the flash and redirects.
	sess, req := loadSession(t, sm, nil)
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Order added"})
	cookie := commitSession(t, sm, req, sess)

	// The follow-up render pops it.
	next, nextReq := loadSession(t, sm, cookie)
	flash := next.PopFlash()
	if flash == nil || flash.Message != "Order added" || flash.Kind != "success" {
		t.Fatalf("expected the queued flash on the next request, got %+v", flash)
	}
	commitSession(t, sm, nextReq, next)

	// Popped once, gone for good.
	last, _ := loadSession(t, sm, cookie)
	if extra := last.PopFlash(); extra != nil {
		t.Fatalf("flash should not repeat after being shown, got %+v", extra)
	}
}

func TestDestroyClearsStorageAndCookie(t *testing.T) {
	sm := newSessionManager(t)

	sess, req := loadSession(t, sm, nil)
	sess.SetRaw("isLoggedIn", "true")
	cookie := commitSession(t, sm, req, sess)

	again, againReq := loadSession(t, sm, cookie)
	sm.Destroy(again)
	cleared := commitSession(t, sm, againReq, again)
	if cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("expected an expiring cookie after destroy, got %+v", cleared)
	}

	fresh, _ := loadSession(t, sm, cookie)
	if _, ok := fresh.GetRaw("isLoggedIn"); ok {
		t.Fatalf("destroyed session must not retain values")
	}
}

func TestMissingStorageDegradesToFreshSession(t *testing.T) {
	sm := newSessionManager(t)

	cookie := &http.Cookie{Name: "test_session", Value: "gone-from-redis"}
	sess, _ := loadSession(t, sm, cookie)
	if sess.ID != "gone-from-redis" {
		t.Fatalf("expected the cookie id to be kept, got %s", sess.ID)
	}
	if _, ok := sess.GetRaw("anything"); ok {
		t.Fatalf("expected an empty session for an unknown cookie")
	}
}
