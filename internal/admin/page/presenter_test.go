package page_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/admin/page"
	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/shared"
	_ "github.com/shht-tools/tradedesk/testing"
)

func newPresenter(t *testing.T) (*page.Presenter, *auth.Service) {
	t.Helper()
	client := apiclient.NewClient("http://upstream.invalid", time.Second, nil, nil)
	service := auth.NewService(client, nil)
	return &page.Presenter{Auth: service}, service
}

func newSession(t *testing.T) *shared.Session {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess
}

func mutationRequest(sess *shared.Session, referer string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	return httptest.NewRecorder(), req
}

func TestFlashValidationHumanizesFieldNames(t *testing.T) {
	presenter, _ := newPresenter(t)
	sess := newSession(t)

	type form struct {
		OrderDate string `validate:"required"`
	}
	err := validator.New().Struct(form{})
	if !presenter.FlashValidation(sess, err) {
		t.Fatalf("expected validation failure to be reported")
	}

	flash := sess.PopFlash()
	if flash == nil || flash.Message != "Order Date is invalid" {
		t.Fatalf("expected a humanized field message, got %+v", flash)
	}
}

func TestFlashValidationPassesCleanForms(t *testing.T) {
	presenter, _ := newPresenter(t)
	sess := newSession(t)
	if presenter.FlashValidation(sess, nil) {
		t.Fatalf("nil error must not flag the form")
	}
	if sess.PopFlash() != nil {
		t.Fatalf("no flash expected for a clean form")
	}
}

func TestHandleMutationSuccessRedirectsToListing(t *testing.T) {
	presenter, _ := newPresenter(t)
	sess := newSession(t)
	res, req := mutationRequest(sess, "")

	env := apiclient.Envelope{Code: apiclient.CodeOK, Success: true, Message: "Order saved"}
	presenter.HandleMutation(res, req, env, "Order added", "/orders")

	if loc := res.Header().Get("Location"); loc != "/orders" {
		t.Fatalf("expected redirect to listing, got %q", loc)
	}
	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "success" || flash.Message != "Order saved" {
		t.Fatalf("server message should win over the default, got %+v", flash)
	}
}

func TestHandleMutationFailureReturnsToForm(t *testing.T) {
	presenter, _ := newPresenter(t)
	sess := newSession(t)
	res, req := mutationRequest(sess, "/orders/new")

	env := apiclient.Envelope{Code: 422, Message: "Order ID already used"}
	presenter.HandleMutation(res, req, env, "Order added", "/orders")

	if loc := res.Header().Get("Location"); loc != "/orders/new" {
		t.Fatalf("failures go back to the origin, got %q", loc)
	}
	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "error" || flash.Message != "Order ID already used" {
		t.Fatalf("expected the server error flashed, got %+v", flash)
	}
}

func TestHandleMutationUnauthorizedLogsOut(t *testing.T) {
	presenter, service := newPresenter(t)
	sess := newSession(t)
	shared.Set(sess, auth.SessionKeyLoggedIn, true)
	shared.Set(sess, auth.SessionKeyUserInfo, auth.UserInfo{ID: 1, Token: "tok"})
	res, req := mutationRequest(sess, "/orders/new")

	env := apiclient.Envelope{Code: apiclient.CodeUnauthorized, Message: "Session expired"}
	presenter.HandleMutation(res, req, env, "Order added", "/orders")

	if loc := res.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
	if service.IsLoggedIn(sess) {
		t.Fatalf("401 must clear the login state")
	}
}
