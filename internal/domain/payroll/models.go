package payroll

import (
	"time"

	"dms/internal/domain/attendance"
	"dms/internal/domain/employee"
	"dms/internal/domain/ledger"
)

type DeductionLine struct {
	ID      string  `json:"id"`
	Amount  float64 `json:"amount"`
	Remarks string  `json:"remarks,omitempty"`
}

// Record is the derived payroll result for one employee and one period. It is
// never mutated in place; recomputation is the only update path while the
// period is open, and a closed period serves the persisted snapshot.
type Record struct {
	EmployeeID     string                 `json:"employeeId"`
	Period         attendance.Period      `json:"period"`
	BaseSalary     float64                `json:"baseSalary"`
	PresentDays    int                    `json:"presentDays"`
	WorkingDays    int                    `json:"workingDays"`
	ProratedSalary float64                `json:"proratedSalary"`
	PayableOTHours float64                `json:"payableOtHours"`
	OTPay          float64                `json:"otPay"`
	Bonus          float64                `json:"bonus"`
	AdvanceGiven   float64                `json:"advanceGivenThisPeriod"`
	Deductions     []DeductionLine        `json:"deductions"`
	NetSalary      float64                `json:"netSalary"`
	Currency       string                 `json:"currency"`
	Advance        *ledger.AdvanceSummary `json:"advance,omitempty"`
	Warnings       []string               `json:"warnings,omitempty"`
}

func (r Record) TotalDeductions() float64 {
	var sum float64
	for _, d := range r.Deductions {
		sum += d.Amount
	}
	return round2(sum)
}

// EmployeeInputs bundles everything the calculator needs for one employee:
// the profile plus the attendance and ledger snapshots for the period.
type EmployeeInputs struct {
	Employee     employee.Employee
	Entries      []attendance.Record
	Transactions []ledger.Transaction
}

type Failure struct {
	EmployeeID string `json:"employeeId"`
	Reason     string `json:"reason"`
}

type BatchResult struct {
	Records  []Record  `json:"records"`
	Failures []Failure `json:"failures"`
}

type Period struct {
	ID       string     `json:"id"`
	Month    int        `json:"month"`
	Year     int        `json:"year"`
	Status   string     `json:"status"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
}
