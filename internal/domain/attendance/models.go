package attendance

import "time"

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusLeave   = "leave"
	StatusHoliday = "holiday"
)

type Record struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	InTime     string    `json:"inTime,omitempty"`
	OutTime    string    `json:"outTime,omitempty"`
	OTHours    float64   `json:"otHours"`
	Remarks    string    `json:"remarks,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusLate, StatusAbsent, StatusLeave, StatusHoliday:
		return true
	}
	return false
}

// Validate reports the first problem with a record, or "" when it is clean.
// The field name is returned so callers can point at the offending value.
func (r Record) Validate() (field, reason string) {
	if r.EmployeeID == "" {
		return "employeeId", "is required"
	}
	if r.Date.IsZero() {
		return "date", "is required"
	}
	if !ValidStatus(r.Status) {
		return "status", "must be one of present, late, absent, leave, holiday"
	}
	if r.OTHours < 0 {
		return "otHours", "must not be negative"
	}
	if r.OTHours > 24 {
		return "otHours", "must not exceed 24"
	}
	return "", ""
}
