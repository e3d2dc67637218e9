package view_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shht-tools/tradedesk/internal/view"
	_ "github.com/shht-tools/tradedesk/testing"
)

func TestEngineParsesAllTemplates(t *testing.T) {
	if _, err := view.NewEngine(); err != nil {
		t.Fatalf("templates failed to parse: %v", err)
	}
}

func TestRenderLoginPage(t *testing.T) {
	engine, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	res := httptest.NewRecorder()
	data := view.TemplateData{
		Title:     "Login",
		CSRFToken: "tok-abc",
		Data: struct {
			Username string
			Errors   map[string]string
		}{
			Username: "asha",
			Errors:   map[string]string{"Password": "Password is required"},
		},
	}
	if err := engine.Render(res, "pages/login.html", data); err != nil {
		t.Fatalf("render: %v", err)
	}

	body := res.Body.String()
	if !strings.Contains(body, `value="asha"`) {
		t.Fatalf("username not re-filled:\n%s", body)
	}
	if !strings.Contains(body, "Password is required") {
		t.Fatalf("field error missing:\n%s", body)
	}
	if !strings.Contains(body, `name="csrf_token" value="tok-abc"`) {
		t.Fatalf("csrf field missing:\n%s", body)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestFormatINRUsesIndianGrouping(t *testing.T) {
	got := view.FormatINR(decimal.NewFromInt(1234567))
	if got != "12,34,567" {
		t.Fatalf("expected lakh grouping, got %q", got)
	}
	if view.FormatINR(decimal.Zero) != "" {
		t.Fatalf("zero amounts render blank")
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"payment_status": "Payment Status",
		"sub_category":   "Sub Category",
		"OrderDate":      "Order Date",
		"pending":        "Pending",
		"":               "",
	}
	for in, want := range cases {
		if got := view.Humanize(in); got != want {
			t.Fatalf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
