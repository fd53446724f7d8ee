package payroll

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dms/internal/domain/employee"
)

func TestRenderPayslipProducesPDF(t *testing.T) {
	period := testPeriod(t)
	inp := EmployeeInputs{
		Employee: salaried("e1", 30000),
		Entries:  entries("e1", period, 20, 20),
	}
	rec, err := Compute(inp, period, 150)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	emp := employee.Employee{ID: "e1", EmployeeNumber: "EMP-001", FirstName: "Nimal", LastName: "Perera"}
	pdf, err := RenderPayslip(rec, emp)
	if err != nil {
		t.Fatalf("RenderPayslip: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header")
	}
}

func TestArchivePayslipWritesFile(t *testing.T) {
	period := testPeriod(t)
	dir := filepath.Join(t.TempDir(), "payslips")
	name := payslipFileName("EMP-001", period)
	if name != "payslip-EMP-001-2025-01.pdf" {
		t.Fatalf("file name = %q", name)
	}

	if err := archivePayslip(dir, name, []byte("%PDF-stub")); err != nil {
		t.Fatalf("archivePayslip: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read archived slip: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("archived slip is empty")
	}
}

func TestWithDefaultCurrency(t *testing.T) {
	inp := EmployeeInputs{Employee: employee.Employee{ID: "e1"}}
	if got := withDefaultCurrency(inp, "LKR"); got.Employee.Currency != "LKR" {
		t.Fatalf("currency = %q, want LKR", got.Employee.Currency)
	}

	inp.Employee.Currency = "USD"
	if got := withDefaultCurrency(inp, "LKR"); got.Employee.Currency != "USD" {
		t.Fatalf("currency = %q, employee's own code must win", got.Employee.Currency)
	}
}
