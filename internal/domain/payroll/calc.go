package payroll

import (
	"math"

	"dms/internal/domain/attendance"
	"dms/internal/domain/ledger"
)

// Compute derives the payroll record for one employee and period from
// already-fetched inputs. It is a pure function: identical snapshots yield
// identical records, and nothing is written.
//
// Days with status present or late both count toward proration; working days
// are every recorded day that is not a holiday. A period with zero working
// days yields a zero prorated salary plus a warning rather than a fault.
func Compute(inp EmployeeInputs, period attendance.Period, otRate float64) (Record, error) {
	emp := inp.Employee
	if emp.BaseSalary == nil || *emp.BaseSalary < 0 {
		return Record{}, ErrMissingSalary
	}

	rec := Record{
		EmployeeID: emp.ID,
		Period:     period,
		BaseSalary: *emp.BaseSalary,
		Currency:   emp.Currency,
	}

	var otHours float64
	for _, entry := range inp.Entries {
		if field, reason := entry.Validate(); field != "" {
			return Record{}, &ValidationError{Source: "attendance", RecordID: entry.ID, Field: field, Reason: reason}
		}
		if !period.Contains(entry.Date) {
			continue
		}
		if entry.Status != attendance.StatusHoliday {
			rec.WorkingDays++
		}
		if entry.Status == attendance.StatusPresent || entry.Status == attendance.StatusLate {
			rec.PresentDays++
			otHours += entry.OTHours
		}
	}

	if rec.WorkingDays > 0 {
		rec.ProratedSalary = round2(rec.BaseSalary * float64(rec.PresentDays) / float64(rec.WorkingDays))
	} else {
		rec.Warnings = append(rec.Warnings, WarningZeroWorkingDays)
	}

	rec.PayableOTHours = otHours
	rec.OTPay = round2(otHours * otRate)

	for _, t := range inp.Transactions {
		if field, reason := t.Validate(); field != "" {
			return Record{}, &ValidationError{Source: "transaction", RecordID: t.ID, Field: field, Reason: reason}
		}
		if !period.Contains(t.Date) {
			continue
		}
		switch t.Kind {
		case ledger.KindBonus, ledger.KindAddition:
			rec.Bonus = round2(rec.Bonus + t.Amount)
		case ledger.KindAdvance:
			rec.AdvanceGiven = round2(rec.AdvanceGiven + t.Amount)
		case ledger.KindDeduction:
			rec.Deductions = append(rec.Deductions, DeductionLine{ID: t.ID, Amount: t.Amount, Remarks: t.Remarks})
		}
	}

	rec.NetSalary = round2(rec.ProratedSalary + rec.OTPay + rec.Bonus + rec.AdvanceGiven - rec.TotalDeductions())
	if rec.NetSalary < 0 {
		rec.Warnings = append(rec.Warnings, WarningNegativeNet)
	}

	// Reconcile the latest advance over the full history, not just the
	// period, so the payslip can show the outstanding balance.
	if summary, ok := ledger.ResolveAdvance(inp.Transactions); ok {
		rec.Advance = &summary
		if summary.RemainingAmount < 0 {
			rec.Warnings = append(rec.Warnings, WarningAdvanceOverpaid)
		}
	}

	return rec, nil
}

// ComputeBatch runs the calculator over many employees, isolating failures:
// one employee's bad data never aborts the rest of the run.
func ComputeBatch(inputs []EmployeeInputs, period attendance.Period, otRate float64) BatchResult {
	var result BatchResult
	for _, inp := range inputs {
		rec, err := Compute(inp, period, otRate)
		if err != nil {
			result.Failures = append(result.Failures, Failure{EmployeeID: inp.Employee.ID, Reason: err.Error()})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
