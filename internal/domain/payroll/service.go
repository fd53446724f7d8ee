package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"dms/internal/domain/attendance"
	"dms/internal/domain/employee"
	"dms/internal/domain/ledger"
	"dms/internal/platform/config"
	"dms/internal/platform/email"
)

type Service struct {
	store      *Store
	employees  *employee.Store
	attendance *attendance.Store
	ledgers    *ledger.Store
	mailer     email.Mailer
	cfg        config.Config
}

func NewService(store *Store, employees *employee.Store, att *attendance.Store, ledgers *ledger.Store, mailer email.Mailer, cfg config.Config) *Service {
	return &Service{
		store:      store,
		employees:  employees,
		attendance: att,
		ledgers:    ledgers,
		mailer:     mailer,
		cfg:        cfg,
	}
}

func (s *Service) inputsFor(ctx context.Context, employeeID string, period attendance.Period) (EmployeeInputs, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return EmployeeInputs{}, err
	}

	start, end := period.Bounds()
	entries, err := s.attendance.ListForPeriod(ctx, employeeID, start, end)
	if err != nil {
		return EmployeeInputs{}, err
	}

	// Full history, not just the period: advance reconciliation needs every
	// transaction the employee ever had.
	transactions, err := s.ledgers.ListByEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeInputs{}, err
	}

	inp := EmployeeInputs{Employee: *emp, Entries: entries, Transactions: transactions}
	return withDefaultCurrency(inp, s.cfg.Currency), nil
}

// withDefaultCurrency fills in the configured currency for employees whose
// register row never set one, so every slip carries a currency code.
func withDefaultCurrency(inp EmployeeInputs, code string) EmployeeInputs {
	if inp.Employee.Currency == "" {
		inp.Employee.Currency = code
	}
	return inp
}

// ComputeForEmployee derives the payroll record from live data. For a closed
// period the persisted snapshot is served instead, so historical payslips
// stay reproducible regardless of later edits.
func (s *Service) ComputeForEmployee(ctx context.Context, employeeID string, period attendance.Period) (Record, error) {
	p, err := s.store.GetPeriod(ctx, period)
	if err == nil && p.Status == PeriodStatusClosed {
		return s.store.GetRecord(ctx, employeeID, period)
	}
	if err != nil && err != ErrPeriodNotFound {
		return Record{}, err
	}

	inputs, err := s.inputsFor(ctx, employeeID, period)
	if err != nil {
		return Record{}, err
	}
	return Compute(inputs, period, s.cfg.OvertimeHourlyRate)
}

// RunPeriod computes payroll for every active employee, fail-soft per
// employee, and persists the successful records. The period is created open
// on first run; a closed period refuses to run again.
func (s *Service) RunPeriod(ctx context.Context, period attendance.Period) (BatchResult, error) {
	p, err := s.store.EnsurePeriod(ctx, period)
	if err != nil {
		return BatchResult{}, err
	}
	if p.Status == PeriodStatusClosed {
		return BatchResult{}, ErrPeriodClosed
	}

	active, err := s.employees.ListActive(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	var inputs []EmployeeInputs
	var fetchFailures []Failure
	for _, emp := range active {
		inp, err := s.inputsFor(ctx, emp.ID, period)
		if err != nil {
			fetchFailures = append(fetchFailures, Failure{EmployeeID: emp.ID, Reason: err.Error()})
			continue
		}
		inputs = append(inputs, inp)
	}

	result := ComputeBatch(inputs, period, s.cfg.OvertimeHourlyRate)
	result.Failures = append(fetchFailures, result.Failures...)

	for _, rec := range result.Records {
		if err := s.store.UpsertRecord(ctx, rec); err != nil {
			result.Failures = append(result.Failures, Failure{EmployeeID: rec.EmployeeID, Reason: "persist failed: " + err.Error()})
		}
	}

	slog.Info("payroll run finished",
		"period", period.String(),
		"succeeded", len(result.Records),
		"failed", len(result.Failures),
	)
	return result, nil
}

// ClosePeriod freezes the period: its snapshots become the payslip source and
// attendance in the window becomes read-only.
func (s *Service) ClosePeriod(ctx context.Context, period attendance.Period) error {
	p, err := s.store.GetPeriod(ctx, period)
	if err != nil {
		return err
	}
	if p.Status == PeriodStatusClosed {
		return nil
	}
	count, err := s.store.CountRecords(ctx, period)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCloseNoRecords
	}
	return s.store.SetPeriodStatus(ctx, period, PeriodStatusClosed)
}

func (s *Service) ReopenPeriod(ctx context.Context, period attendance.Period) error {
	if _, err := s.store.GetPeriod(ctx, period); err != nil {
		return err
	}
	return s.store.SetPeriodStatus(ctx, period, PeriodStatusOpen)
}

func (s *Service) ListPeriods(ctx context.Context, limit, offset int) ([]Period, error) {
	return s.store.ListPeriods(ctx, limit, offset)
}

func (s *Service) RecordsForPeriod(ctx context.Context, period attendance.Period) ([]Record, error) {
	return s.store.ListRecords(ctx, period)
}

// Payslip renders the PDF for one employee and period. Invalid inputs surface
// as errors; a slip with a silently wrong net salary is never produced.
func (s *Service) Payslip(ctx context.Context, employeeID string, period attendance.Period) ([]byte, error) {
	rec, err := s.ComputeForEmployee(ctx, employeeID, period)
	if err != nil {
		return nil, err
	}
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	pdf, err := RenderPayslip(rec, *emp)
	if err != nil {
		return nil, err
	}
	if s.cfg.PayslipDir != "" {
		if err := archivePayslip(s.cfg.PayslipDir, payslipFileName(emp.EmployeeNumber, period), pdf); err != nil {
			slog.Warn("payslip archive failed", "employeeId", employeeID, "err", err)
		}
	}
	return pdf, nil
}

// EmailPayslip renders and mails the payslip to the employee's address.
func (s *Service) EmailPayslip(ctx context.Context, employeeID string, period attendance.Period) error {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.Email == "" {
		return fmt.Errorf("employee %s has no email address", employeeID)
	}

	pdf, err := s.Payslip(ctx, employeeID, period)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Payslip for %s", period.String())
	body := fmt.Sprintf("Hello %s,\n\nYour payslip for %s is attached.\n", emp.FirstName, period.String())
	return s.mailer.SendWithAttachment(ctx, s.cfg.EmailFrom, emp.Email, subject, body, payslipFileName(emp.EmployeeNumber, period), pdf)
}
