package attendance

import "errors"

var (
	ErrPeriodClosed = errors.New("attendance period is closed for payroll")
	ErrNotFound     = errors.New("attendance record not found")
)
