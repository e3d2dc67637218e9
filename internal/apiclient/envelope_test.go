package apiclient_test

import (
	"encoding/json"
	"testing"

	"github.com/shht-tools/tradedesk/internal/apiclient"
)

func TestEnvelopeTotalCoercion(t *testing.T) {
	// The upstream API is inconsistent about totals: sometimes a number,
	// sometimes a numeric string, sometimes absent.
	var env apiclient.Envelope
	if err := json.Unmarshal([]byte(`{"code":200,"success":true,"data":[],"total":"42"}`), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Total.Int() != 42 {
		t.Fatalf("string total not coerced, got %d", env.Total.Int())
	}

	if err := json.Unmarshal([]byte(`{"code":200,"success":true,"total":7}`), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Total.Int() != 7 {
		t.Fatalf("numeric total mangled, got %d", env.Total.Int())
	}

	if err := json.Unmarshal([]byte(`{"code":200,"success":true,"total":"n/a"}`), &env); err != nil {
		t.Fatalf("a junk total must not fail the whole envelope: %v", err)
	}
	if env.Total.Int() != 0 {
		t.Fatalf("junk total should default to zero, got %d", env.Total.Int())
	}
}

func TestEnvelopeHelpers(t *testing.T) {
	ok := apiclient.Envelope{Code: apiclient.CodeOK, Success: true}
	if !ok.OK() || ok.Unauthorized() {
		t.Fatalf("200 envelope misclassified")
	}

	expired := apiclient.Envelope{Code: apiclient.CodeUnauthorized, Message: "Session expired"}
	if !expired.Unauthorized() {
		t.Fatalf("401 envelope not flagged as unauthorized")
	}
	if expired.ErrorMessage() != "Session expired" {
		t.Fatalf("server message lost: %q", expired.ErrorMessage())
	}

	blank := apiclient.Envelope{Code: 500}
	if blank.ErrorMessage() != apiclient.GenericMessage {
		t.Fatalf("expected generic fallback, got %q", blank.ErrorMessage())
	}
}

func TestDecodeDataHandlesNull(t *testing.T) {
	var dest []int
	env := apiclient.Envelope{Code: apiclient.CodeOK, Data: json.RawMessage("null")}
	if err := env.DecodeData(&dest); err != nil {
		t.Fatalf("null data should decode to nothing: %v", err)
	}
	if dest != nil {
		t.Fatalf("expected untouched destination, got %v", dest)
	}

	env.Data = json.RawMessage(`[1,2,3]`)
	if err := env.DecodeData(&dest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dest) != 3 {
		t.Fatalf("expected 3 entries, got %v", dest)
	}
}

func TestEntityPath(t *testing.T) {
	if got := apiclient.EntityPath("/orders", "update", 12); got != "/orders/update/12" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := apiclient.EntityPath("/orders", "create", 0); got != "/orders/create" {
		t.Fatalf("unexpected path %q", got)
	}
}
