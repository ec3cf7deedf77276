package utils

import (
	"net/http/httptest"
	"testing"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(16)
	if len(s) != 16 {
		t.Fatalf("expected length 16, got %d", len(s))
	}
	for _, c := range s {
		// IDs end up inside dash-joined payment references, so the
		// alphabet must never contain a dash.
		if c == '-' {
			t.Fatal("generated ID contains a dash")
		}
	}
}

func TestFormatVND(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0 VND"},
		{999, "999 VND"},
		{1000, "1.000 VND"},
		{1250000, "1.250.000 VND"},
		{150000.4, "150.000 VND"},
	}
	for _, tt := range tests {
		if got := FormatVND(tt.amount); got != tt.want {
			t.Errorf("FormatVND(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/plants?limit=5&skip=10", nil)
	limit, skip := ParsePagination(r, 20, 100)
	if limit != 5 || skip != 10 {
		t.Errorf("got limit=%d skip=%d, want 5/10", limit, skip)
	}

	r = httptest.NewRequest("GET", "/api/plants?limit=9999&skip=-3", nil)
	limit, skip = ParsePagination(r, 20, 100)
	if limit != 20 || skip != 0 {
		t.Errorf("out-of-range values should fall back, got limit=%d skip=%d", limit, skip)
	}
}

func TestContains(t *testing.T) {
	items := []string{"a", "b", "c"}
	if !Contains(items, "b") {
		t.Error("expected to find b")
	}
	if Contains(items, "z") {
		t.Error("did not expect to find z")
	}
}
