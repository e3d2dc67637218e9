package shared_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shht-tools/tradedesk/internal/shared"
)

func TestNewPagination(t *testing.T) {
	p := shared.NewPagination(3, 10, 95)
	if p.TotalPages != 10 {
		t.Fatalf("expected 10 pages for 95 rows, got %d", p.TotalPages)
	}
	if p.Offset() != 20 {
		t.Fatalf("expected offset 20 for page 3, got %d", p.Offset())
	}
	if !p.HasPrev() || !p.HasNext() {
		t.Fatalf("page 3 of 10 should have both neighbours")
	}

	last := shared.NewPagination(10, 10, 95)
	if last.HasNext() {
		t.Fatalf("last page must not report a next page")
	}

	defaulted := shared.NewPagination(0, 0, 5)
	if defaulted.Page != 1 || defaulted.PerPage != shared.DefaultLimit {
		t.Fatalf("expected defaults for zero inputs, got %+v", defaulted)
	}
}

func TestPageFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders?page=4&per_page=25", nil)
	page, perPage := shared.PageFromRequest(req)
	if page != 4 || perPage != 25 {
		t.Fatalf("expected 4/25, got %d/%d", page, perPage)
	}

	req = httptest.NewRequest(http.MethodGet, "/orders?page=-1&per_page=junk", nil)
	page, perPage = shared.PageFromRequest(req)
	if page != 1 || perPage != shared.DefaultLimit {
		t.Fatalf("invalid parameters should fall back to defaults, got %d/%d", page, perPage)
	}
}
