package shared

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/x", 50, 0},
		{"explicit", "/x?limit=20&offset=40", 20, 40},
		{"clamped to max", "/x?limit=9999", 200, 0},
		{"bad values ignored", "/x?limit=abc&offset=-5", 50, 0},
		{"zero limit ignored", "/x?limit=0", 50, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			p := ParsePagination(r, 50, 200)
			if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
				t.Fatalf("pagination = %d/%d, want %d/%d", p.Limit, p.Offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
