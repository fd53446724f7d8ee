package payroll

const (
	PeriodStatusOpen   = "open"
	PeriodStatusClosed = "closed"

	WarningZeroWorkingDays = "zero_working_days"
	WarningNegativeNet     = "negative_net"
	WarningAdvanceOverpaid = "advance_overpaid"

	JobPayrollRun = "payroll_run"
)
