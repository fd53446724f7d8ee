package attendance

import (
	"testing"
	"time"
)

func TestPeriodBounds(t *testing.T) {
	tests := []struct {
		name      string
		month     int
		year      int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid year",
			month:     3,
			year:      2025,
			wantStart: time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "january wraps to previous year",
			month:     1,
			year:      2025,
			wantStart: time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "march after february",
			month:     3,
			year:      2024,
			wantStart: time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPeriod(tc.month, tc.year)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			start, end := p.Bounds()
			if !start.Equal(tc.wantStart) {
				t.Fatalf("expected start %v, got %v", tc.wantStart, start)
			}
			if !end.Equal(tc.wantEnd) {
				t.Fatalf("expected end %v, got %v", tc.wantEnd, end)
			}
		})
	}
}

func TestNewPeriodRejectsOutOfRange(t *testing.T) {
	if _, err := NewPeriod(0, 2025); err == nil {
		t.Fatal("expected error for month 0")
	}
	if _, err := NewPeriod(13, 2025); err == nil {
		t.Fatal("expected error for month 13")
	}
	if _, err := NewPeriod(6, 1999); err == nil {
		t.Fatal("expected error for year before epoch")
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period{Month: 3, Year: 2025}

	if !p.Contains(time.Date(2025, 2, 21, 10, 30, 0, 0, time.UTC)) {
		t.Fatal("expected first day of cycle to be contained")
	}
	if !p.Contains(time.Date(2025, 3, 20, 23, 0, 0, 0, time.UTC)) {
		t.Fatal("expected last day of cycle to be contained")
	}
	if p.Contains(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected day before cycle to be excluded")
	}
	if p.Contains(time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected day after cycle to be excluded")
	}
}

func TestRecordValidate(t *testing.T) {
	base := Record{
		EmployeeID: "emp-1",
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:     StatusPresent,
	}

	if field, _ := base.Validate(); field != "" {
		t.Fatalf("expected valid record, got issue on %q", field)
	}

	tests := []struct {
		name      string
		mutate    func(*Record)
		wantField string
	}{
		{"missing employee", func(r *Record) { r.EmployeeID = "" }, "employeeId"},
		{"missing date", func(r *Record) { r.Date = time.Time{} }, "date"},
		{"bad status", func(r *Record) { r.Status = "vacationing" }, "status"},
		{"negative ot", func(r *Record) { r.OTHours = -1 }, "otHours"},
		{"excessive ot", func(r *Record) { r.OTHours = 25 }, "otHours"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := base
			tc.mutate(&rec)
			field, _ := rec.Validate()
			if field != tc.wantField {
				t.Fatalf("expected issue on %q, got %q", tc.wantField, field)
			}
		})
	}
}
