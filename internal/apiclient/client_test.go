package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	_ "github.com/shht-tools/tradedesk/testing"
)

func TestPostParsesEnvelopeAndSendsBearer(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":    200,
			"success": true,
			"data":    []map[string]any{{"id": 1, "name": "Hand Tools"}},
			"total":   "1",
		})
	}))
	defer upstream.Close()

	client := apiclient.NewClient(upstream.URL, time.Second, func(context.Context) string { return "tok-123" }, nil)
	env := client.Post(context.Background(), "/category/retrieve", map[string]any{"offset": 0, "limit": 10})

	if !env.OK() || !env.Success {
		t.Fatalf("expected success envelope, got %+v", env)
	}
	if env.Total.Int() != 1 {
		t.Fatalf("expected coerced total 1, got %d", env.Total.Int())
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("bearer token not forwarded, got %q", gotAuth)
	}
	if gotBody["limit"] != float64(10) {
		t.Fatalf("request body not forwarded: %v", gotBody)
	}
}

func TestNonEnvelopeBodyCarriesHTTPStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream maintenance"))
	}))
	defer upstream.Close()

	client := apiclient.NewClient(upstream.URL, time.Second, nil, nil)
	env := client.Get(context.Background(), "/dashboard", nil)
	if env.Code != http.StatusBadGateway {
		t.Fatalf("expected HTTP status carried through, got %d", env.Code)
	}
	if env.Message != "upstream maintenance" {
		t.Fatalf("expected body as message, got %q", env.Message)
	}
}

func TestTransportFailureBecomesSyntheticEnvelope(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused from here on

	client := apiclient.NewClient(upstream.URL, time.Second, nil, nil)
	env := client.Post(context.Background(), "/orders/retrieve", map[string]any{})
	if env.Code != apiclient.CodeNetwork {
		t.Fatalf("expected synthetic network code, got %d", env.Code)
	}
	if env.ErrorMessage() != apiclient.GenericMessage {
		t.Fatalf("expected generic message, got %q", env.ErrorMessage())
	}
}

func TestUnauthenticatedClientOmitsAuthHeader(t *testing.T) {
	var sawHeader bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader = r.Header.Get("Authorization") != ""
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "success": true})
	}))
	defer upstream.Close()

	client := apiclient.NewClient(upstream.URL, time.Second, nil, nil)
	if env := client.Get(context.Background(), "/dashboard", nil); !env.OK() {
		t.Fatalf("expected success, got %+v", env)
	}
	if sawHeader {
		t.Fatalf("nil token source must not send an Authorization header")
	}
}
