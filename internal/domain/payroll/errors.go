package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPeriodClosed   = errors.New("payroll period is closed")
	ErrPeriodNotFound = errors.New("payroll period not found")
	ErrCloseNoRecords = errors.New("payroll period has no records to close")
	ErrRecordNotFound = errors.New("payroll record not found")
	ErrMissingSalary  = errors.New("employee has no base salary on file")
)

// ValidationError identifies the specific input record that made a payroll
// computation impossible. The computation aborts rather than skipping the
// record, since a silent skip would corrupt proration and the net-salary sum.
type ValidationError struct {
	Source   string // "attendance" or "transaction"
	RecordID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record %s: %s %s", e.Source, e.RecordID, e.Field, e.Reason)
}
