package payroll

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dms/internal/domain/attendance"
	"dms/internal/domain/employee"
)

var moneyPrinter = message.NewPrinter(language.English)

func formatMoney(currency string, v float64) string {
	return fmt.Sprintf("%s %s", currency, moneyPrinter.Sprintf("%.2f", v))
}

// payslipFileName is the canonical slip name, shared by the email attachment
// and the on-disk archive.
func payslipFileName(employeeNumber string, period attendance.Period) string {
	return fmt.Sprintf("payslip-%s-%s.pdf", employeeNumber, period.String())
}

// archivePayslip keeps a copy of every rendered slip on disk.
func archivePayslip(dir, name string, pdf []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), pdf, 0o644)
}

// RenderPayslip produces the payslip PDF for a computed record. The layout
// fits the upper half of an A4 page: header, attendance and earnings lines,
// a deductions table, the net figure, and an advance summary when the
// employee has an outstanding advance.
func RenderPayslip(rec Record, emp employee.Employee) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Pay period: %s", rec.Period.String()))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s %s  (%s)", emp.FirstName, emp.LastName, emp.EmployeeNumber))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	if emp.Position != "" || emp.Department != "" {
		pdf.Cell(0, 6, fmt.Sprintf("%s, %s", emp.Position, emp.Department))
		pdf.Ln(6)
	}
	pdf.Ln(2)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(70, 6, label)
		pdf.CellFormat(50, 6, value, "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	line("Base salary", formatMoney(rec.Currency, rec.BaseSalary))
	line("Days present / working days", fmt.Sprintf("%d / %d", rec.PresentDays, rec.WorkingDays))
	line("Prorated salary", formatMoney(rec.Currency, rec.ProratedSalary))
	line("OT pay", fmt.Sprintf("%s  (%.1f h)", formatMoney(rec.Currency, rec.OTPay), rec.PayableOTHours))
	line("Bonus", formatMoney(rec.Currency, rec.Bonus))
	line("Advance given this period", formatMoney(rec.Currency, rec.AdvanceGiven))
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, "Deductions")
	pdf.Ln(6)
	if len(rec.Deductions) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, "None")
		pdf.Ln(6)
	}
	for _, d := range rec.Deductions {
		remark := d.Remarks
		if remark == "" {
			remark = "Deduction"
		}
		line(remark, formatMoney(rec.Currency, d.Amount))
	}
	line("Total deductions", formatMoney(rec.Currency, rec.TotalDeductions()))
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(70, 8, "Net salary")
	pdf.CellFormat(50, 8, formatMoney(rec.Currency, rec.NetSalary), "T", 0, "R", false, 0, "")
	pdf.Ln(10)

	if rec.Advance != nil && rec.Advance.TotalAdvance > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, "Advance Summary")
		pdf.Ln(6)
		line("Advance taken", formatMoney(rec.Currency, rec.Advance.TotalAdvance))
		line("Installment", fmt.Sprintf("%d of %d", rec.Advance.CurrentInstallment, rec.Advance.Installments))
		line("Remaining", formatMoney(rec.Currency, rec.Advance.RemainingAmount))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
