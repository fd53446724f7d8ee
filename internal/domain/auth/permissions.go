package auth

const (
	RoleAdmin   = "admin"
	RoleHR      = "hr"
	RoleFinance = "finance"
	RoleStaff   = "staff"
)

const (
	PermEmployeesRead   = "hr.employees.read"
	PermEmployeesWrite  = "hr.employees.write"
	PermAttendanceRead  = "hr.attendance.read"
	PermAttendanceWrite = "hr.attendance.write"
	PermLedgerRead      = "finance.ledger.read"
	PermLedgerWrite     = "finance.ledger.write"
	PermPayrollRead     = "payroll.read"
	PermPayrollRun      = "payroll.run"
	PermPayrollClose    = "payroll.close"
	PermVehiclesRead    = "vehicles.read"
	PermVehiclesWrite   = "vehicles.write"
	PermVehiclesSell    = "vehicles.sell"
	PermReportsRead     = "reports.read"
	PermAuditRead       = "audit.read"
	PermUsersAdmin      = "admin.users"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermLedgerRead,
	PermLedgerWrite,
	PermPayrollRead,
	PermPayrollRun,
	PermPayrollClose,
	PermVehiclesRead,
	PermVehiclesWrite,
	PermVehiclesSell,
	PermReportsRead,
	PermAuditRead,
	PermUsersAdmin,
}

var RolePermissions = map[string][]string{
	RoleStaff: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermVehiclesRead,
		PermPayrollRead,
	},
	RoleFinance: {
		PermEmployeesRead,
		PermAttendanceRead,
		PermLedgerRead,
		PermLedgerWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermVehiclesRead,
		PermVehiclesSell,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLedgerRead,
		PermLedgerWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollClose,
		PermReportsRead,
		PermAuditRead,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLedgerRead,
		PermLedgerWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollClose,
		PermVehiclesRead,
		PermVehiclesWrite,
		PermVehiclesSell,
		PermReportsRead,
		PermAuditRead,
		PermUsersAdmin,
	},
}
