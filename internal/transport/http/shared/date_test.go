package shared

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"calendar day", "2025-01-20", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2025-01-20T08:30:00Z", time.Date(2025, 1, 20, 8, 30, 0, 0, time.UTC), false},
		{"empty is open bound", "", time.Time{}, false},
		{"garbage", "20/01/2025", time.Time{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
