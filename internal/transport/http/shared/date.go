package shared

import "time"

const dayFormat = "2006-01-02"

// ParseDate reads a calendar day, accepting a full RFC3339 timestamp as
// well. An empty value parses to the zero time so callers can treat it as
// an open bound.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if day, err := time.Parse(dayFormat, value); err == nil {
		return day, nil
	}
	return time.Parse(time.RFC3339, value)
}
