package svg

import (
	"strings"
	"testing"
)

func TestPieProducesDonut(t *testing.T) {
	html, err := Pie(240, []float64{12, 5, 3}, []string{"paid", "pending", "overdue"}, PieOpts{
		Title:       "Payment split",
		Description: "Invoices by payment status",
	})
	if err != nil {
		t.Fatalf("pie renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") {
		t.Fatalf("expected svg output, got %s", output)
	}
	if !strings.Contains(output, "<path") {
		t.Fatalf("expected slice paths in svg")
	}
	if !strings.Contains(output, "Payment split") {
		t.Fatalf("expected accessible title")
	}
}

func TestPieSkipsNonPositiveSlices(t *testing.T) {
	html, err := Pie(240, []float64{10, 0, -4}, []string{"paid", "pending", "overdue"}, PieOpts{})
	if err != nil {
		t.Fatalf("pie renderer error: %v", err)
	}
	if got := strings.Count(string(html), "<path"); got != 1 {
		t.Fatalf("expected a single slice, got %d paths", got)
	}
}

func TestPieAllZeroRendersEmptyRing(t *testing.T) {
	html, err := Pie(240, []float64{0, 0}, []string{"paid", "pending"}, PieOpts{})
	if err != nil {
		t.Fatalf("pie renderer error: %v", err)
	}
	output := string(html)
	if strings.Contains(output, "<path") {
		t.Fatalf("all-zero input must not render slices")
	}
	if !strings.Contains(output, "<circle") {
		t.Fatalf("expected the empty ring")
	}
}

func TestPieRejectsMisalignedInput(t *testing.T) {
	if _, err := Pie(240, []float64{1}, []string{"a", "b"}, PieOpts{}); err == nil {
		t.Fatalf("expected error for mismatched values and labels")
	}
}
