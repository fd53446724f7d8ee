package attendance

import (
	"fmt"
	"time"
)

// Period identifies one pay cycle. The dealership's cycle runs from the 21st
// of the previous month through the 20th of the named month, so the "March"
// period covers Feb 21 .. Mar 20.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month must be 1-12, got %d", month)
	}
	if year < 2000 {
		return Period{}, fmt.Errorf("year must be 2000 or later, got %d", year)
	}
	return Period{Month: month, Year: year}, nil
}

func (p Period) Bounds() (start, end time.Time) {
	end = time.Date(p.Year, time.Month(p.Month), 20, 0, 0, 0, 0, time.UTC)
	start = end.AddDate(0, -1, 1)
	return start, end
}

// PeriodFor maps a calendar day to the pay cycle that contains it: days on
// or after the 21st belong to the following month's cycle.
func PeriodFor(date time.Time) Period {
	month := int(date.Month())
	year := date.Year()
	if date.Day() >= 21 {
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return Period{Month: month, Year: year}
}

func (p Period) Contains(date time.Time) bool {
	start, end := p.Bounds()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
