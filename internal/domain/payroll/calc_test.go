package payroll

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"dms/internal/domain/attendance"
	"dms/internal/domain/employee"
	"dms/internal/domain/ledger"
)

// testPeriod picks January so the pay cycle (Dec 21 to Jan 20) spans 31
// calendar days and the 30-day fixtures below fit inside it.
func testPeriod(t *testing.T) attendance.Period {
	t.Helper()
	p, err := attendance.NewPeriod(1, 2025)
	if err != nil {
		t.Fatalf("NewPeriod: %v", err)
	}
	return p
}

func salaried(id string, base float64) employee.Employee {
	return employee.Employee{ID: id, BaseSalary: &base, Currency: "LKR", Status: employee.StatusActive}
}

// entries builds n consecutive attendance days starting at the period start,
// the first `present` of them marked present and the rest absent.
func entries(employeeID string, period attendance.Period, n, present int) []attendance.Record {
	start, _ := period.Bounds()
	out := make([]attendance.Record, 0, n)
	for i := 0; i < n; i++ {
		status := attendance.StatusAbsent
		if i < present {
			status = attendance.StatusPresent
		}
		out = append(out, attendance.Record{
			ID:         fmt.Sprintf("att-%s-%d", employeeID, i),
			EmployeeID: employeeID,
			Date:       start.AddDate(0, 0, i),
			Status:     status,
		})
	}
	return out
}

func TestComputeProratesByAttendance(t *testing.T) {
	period := testPeriod(t)
	inp := EmployeeInputs{
		Employee: salaried("e1", 30000),
		Entries:  entries("e1", period, 30, 27),
	}

	rec, err := Compute(inp, period, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rec.WorkingDays != 30 || rec.PresentDays != 27 {
		t.Fatalf("days = %d/%d, want 27/30", rec.PresentDays, rec.WorkingDays)
	}
	if rec.ProratedSalary != 27000.00 {
		t.Fatalf("prorated = %.2f, want 27000.00", rec.ProratedSalary)
	}
	if rec.NetSalary != 27000.00 {
		t.Fatalf("net = %.2f, want 27000.00", rec.NetSalary)
	}
}

func TestComputeLateCountsPresentHolidayExcluded(t *testing.T) {
	period := testPeriod(t)
	start, _ := period.Bounds()
	inp := EmployeeInputs{
		Employee: salaried("e1", 20000),
		Entries: []attendance.Record{
			{ID: "a1", EmployeeID: "e1", Date: start, Status: attendance.StatusPresent},
			{ID: "a2", EmployeeID: "e1", Date: start.AddDate(0, 0, 1), Status: attendance.StatusLate},
			{ID: "a3", EmployeeID: "e1", Date: start.AddDate(0, 0, 2), Status: attendance.StatusHoliday},
			{ID: "a4", EmployeeID: "e1", Date: start.AddDate(0, 0, 3), Status: attendance.StatusLeave},
		},
	}

	rec, err := Compute(inp, period, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rec.WorkingDays != 3 {
		t.Fatalf("workingDays = %d, want 3 (holiday excluded)", rec.WorkingDays)
	}
	if rec.PresentDays != 2 {
		t.Fatalf("presentDays = %d, want 2 (late counts)", rec.PresentDays)
	}
}

func TestComputeZeroWorkingDaysIsNotAFault(t *testing.T) {
	period := testPeriod(t)
	inp := EmployeeInputs{Employee: salaried("e1", 30000)}

	rec, err := Compute(inp, period, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rec.ProratedSalary != 0 {
		t.Fatalf("prorated = %.2f, want 0", rec.ProratedSalary)
	}
	found := false
	for _, w := range rec.Warnings {
		if w == WarningZeroWorkingDays {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v, want %q", rec.Warnings, WarningZeroWorkingDays)
	}
}

func TestComputeNetEquation(t *testing.T) {
	period := testPeriod(t)
	start, _ := period.Bounds()

	att := entries("e1", period, 30, 30)
	att[0].OTHours = 5
	att[1].OTHours = 2.5

	inp := EmployeeInputs{
		Employee: salaried("e1", 30000),
		Entries:  att,
		Transactions: []ledger.Transaction{
			{ID: "t1", EmployeeID: "e1", Date: start, Kind: ledger.KindBonus, Amount: 2000},
			{ID: "t2", EmployeeID: "e1", Date: start.AddDate(0, 0, 1), Kind: ledger.KindAddition, Amount: 500},
			{ID: "t3", EmployeeID: "e1", Date: start.AddDate(0, 0, 2), Kind: ledger.KindAdvance, Amount: 5000, Installments: 2},
			{ID: "t4", EmployeeID: "e1", Date: start.AddDate(0, 0, 3), Kind: ledger.KindDeduction, Amount: 1200, Remarks: "EPF"},
			{ID: "t5", EmployeeID: "e1", Date: start.AddDate(0, 0, 4), Kind: ledger.KindEmployeeExpense, Amount: 900},
		},
	}

	rec, err := Compute(inp, period, 200)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if rec.OTPay != 1500.00 {
		t.Fatalf("otPay = %.2f, want 1500.00", rec.OTPay)
	}
	if rec.Bonus != 2500.00 {
		t.Fatalf("bonus = %.2f, want 2500.00", rec.Bonus)
	}
	if rec.AdvanceGiven != 5000.00 {
		t.Fatalf("advance = %.2f, want 5000.00", rec.AdvanceGiven)
	}
	// employee_expense never enters net
	want := 30000.00 + 1500.00 + 2500.00 + 5000.00 - 1200.00
	if rec.NetSalary != want {
		t.Fatalf("net = %.2f, want %.2f", rec.NetSalary, want)
	}
	got := round2(rec.ProratedSalary + rec.OTPay + rec.Bonus + rec.AdvanceGiven - rec.TotalDeductions())
	if rec.NetSalary != got {
		t.Fatalf("net %.2f does not satisfy the component equation %.2f", rec.NetSalary, got)
	}
}

func TestComputeOTOnlyOnPresentDays(t *testing.T) {
	period := testPeriod(t)
	att := entries("e1", period, 4, 2)
	att[0].OTHours = 3 // present
	att[3].OTHours = 8 // absent, ignored

	rec, err := Compute(EmployeeInputs{Employee: salaried("e1", 10000), Entries: att}, period, 100)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rec.PayableOTHours != 3 {
		t.Fatalf("payable OT hours = %.1f, want 3", rec.PayableOTHours)
	}
	if rec.OTPay != 300.00 {
		t.Fatalf("otPay = %.2f, want 300.00", rec.OTPay)
	}
}

func TestComputeNegativeNetWarns(t *testing.T) {
	period := testPeriod(t)
	start, _ := period.Bounds()
	inp := EmployeeInputs{
		Employee: salaried("e1", 1000),
		Entries:  entries("e1", period, 10, 10),
		Transactions: []ledger.Transaction{
			{ID: "t1", EmployeeID: "e1", Date: start, Kind: ledger.KindDeduction, Amount: 5000},
		},
	}

	rec, err := Compute(inp, period, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rec.NetSalary != -4000.00 {
		t.Fatalf("net = %.2f, want -4000.00", rec.NetSalary)
	}
	found := false
	for _, w := range rec.Warnings {
		if w == WarningNegativeNet {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v, want %q", rec.Warnings, WarningNegativeNet)
	}
}

func TestComputeMissingSalary(t *testing.T) {
	period := testPeriod(t)
	_, err := Compute(EmployeeInputs{Employee: employee.Employee{ID: "e1"}}, period, 0)
	if !errors.Is(err, ErrMissingSalary) {
		t.Fatalf("err = %v, want ErrMissingSalary", err)
	}
}

func TestComputeRejectsMalformedAttendance(t *testing.T) {
	period := testPeriod(t)
	start, _ := period.Bounds()
	inp := EmployeeInputs{
		Employee: salaried("e1", 10000),
		Entries: []attendance.Record{
			{ID: "bad", EmployeeID: "e1", Date: start, Status: "vacation"},
		},
	}

	_, err := Compute(inp, period, 0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if verr.RecordID != "bad" || verr.Field != "status" {
		t.Fatalf("got %+v, want record bad field status", verr)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	period := testPeriod(t)
	start, _ := period.Bounds()
	inp := EmployeeInputs{
		Employee: salaried("e1", 33333),
		Entries:  entries("e1", period, 28, 19),
		Transactions: []ledger.Transaction{
			{ID: "t1", EmployeeID: "e1", Date: start, Kind: ledger.KindAdvance, Amount: 3000, Installments: 3},
			{ID: "t2", EmployeeID: "e1", Date: start.AddDate(0, 0, 5), Kind: ledger.KindDeduction, Amount: 1000, RepaysID: "t1"},
		},
	}

	first, err := Compute(inp, period, 150)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	second, err := Compute(inp, period, 150)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recomputation diverged:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestComputeAttachesAdvanceSummary(t *testing.T) {
	period := testPeriod(t)
	start, _ := period.Bounds()
	// Advance taken before the period still reconciles on this period's slip.
	prior := start.AddDate(0, -2, 0)
	inp := EmployeeInputs{
		Employee: salaried("e1", 10000),
		Entries:  entries("e1", period, 10, 10),
		Transactions: []ledger.Transaction{
			{ID: "adv", EmployeeID: "e1", Date: prior, Kind: ledger.KindAdvance, Amount: 3000, Installments: 3},
			{ID: "d1", EmployeeID: "e1", Date: prior.AddDate(0, 1, 0), Kind: ledger.KindDeduction, Amount: 1000, RepaysID: "adv"},
			{ID: "d2", EmployeeID: "e1", Date: start, Kind: ledger.KindDeduction, Amount: 1000, RepaysID: "adv"},
		},
	}

	rec, err := Compute(inp, period, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rec.Advance == nil {
		t.Fatal("advance summary missing")
	}
	if rec.Advance.RemainingAmount != 1000 || rec.Advance.CurrentInstallment != 2 {
		t.Fatalf("advance = %+v, want remaining 1000 installment 2", rec.Advance)
	}
	// Only the in-period repayment deducts from this month's pay.
	if got := rec.TotalDeductions(); got != 1000.00 {
		t.Fatalf("total deductions = %.2f, want 1000.00", got)
	}
}

func TestComputeBatchIsolatesFailures(t *testing.T) {
	period := testPeriod(t)

	var inputs []EmployeeInputs
	for i := 1; i <= 10; i++ {
		id := fmt.Sprintf("e%d", i)
		emp := salaried(id, 10000)
		if i == 4 {
			emp.BaseSalary = nil
		}
		inputs = append(inputs, EmployeeInputs{Employee: emp, Entries: entries(id, period, 20, 20)})
	}

	result := ComputeBatch(inputs, period, 0)
	if len(result.Records) != 9 {
		t.Fatalf("records = %d, want 9", len(result.Records))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(result.Failures))
	}
	if result.Failures[0].EmployeeID != "e4" {
		t.Fatalf("failure names %s, want e4", result.Failures[0].EmployeeID)
	}
}

func TestComputeIgnoresOutOfPeriodEntries(t *testing.T) {
	period := testPeriod(t)
	start, end := period.Bounds()
	inp := EmployeeInputs{
		Employee: salaried("e1", 10000),
		Entries: []attendance.Record{
			{ID: "a1", EmployeeID: "e1", Date: start, Status: attendance.StatusPresent},
			{ID: "a2", EmployeeID: "e1", Date: end.AddDate(0, 0, 1), Status: attendance.StatusPresent},
			{ID: "a3", EmployeeID: "e1", Date: start.AddDate(0, 0, -1), Status: attendance.StatusPresent},
		},
	}

	rec, err := Compute(inp, period, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rec.WorkingDays != 1 || rec.PresentDays != 1 {
		t.Fatalf("days = %d/%d, want 1/1", rec.PresentDays, rec.WorkingDays)
	}
}
