package attendance

import (
	"context"
	"fmt"
	"time"
)

// PeriodGuard reports whether the payroll period covering a date has been
// closed. Closed periods reject attendance writes so generated payslips stay
// reproducible.
type PeriodGuard interface {
	PeriodClosedFor(ctx context.Context, date time.Time) (bool, error)
}

type Service struct {
	store *Store
	guard PeriodGuard
}

func NewService(store *Store, guard PeriodGuard) *Service {
	return &Service{store: store, guard: guard}
}

func (s *Service) Record(ctx context.Context, rec Record) (string, error) {
	if field, reason := rec.Validate(); field != "" {
		return "", fmt.Errorf("attendance record for %s: %s %s", rec.EmployeeID, field, reason)
	}
	closed, err := s.guard.PeriodClosedFor(ctx, rec.Date)
	if err != nil {
		return "", err
	}
	if closed {
		return "", ErrPeriodClosed
	}
	return s.store.Upsert(ctx, rec)
}

// Import validates every row before writing any; a single malformed row
// rejects the whole batch so partial imports cannot skew proration.
func (s *Service) Import(ctx context.Context, records []Record) error {
	for i, rec := range records {
		if field, reason := rec.Validate(); field != "" {
			return fmt.Errorf("row %d (employee %s): %s %s", i+1, rec.EmployeeID, field, reason)
		}
		closed, err := s.guard.PeriodClosedFor(ctx, rec.Date)
		if err != nil {
			return err
		}
		if closed {
			return fmt.Errorf("row %d (employee %s, %s): %w", i+1, rec.EmployeeID, rec.Date.Format("2006-01-02"), ErrPeriodClosed)
		}
	}
	return s.store.BulkUpsert(ctx, records)
}

func (s *Service) ListForPeriod(ctx context.Context, employeeID string, period Period) ([]Record, error) {
	start, end := period.Bounds()
	return s.store.ListForPeriod(ctx, employeeID, start, end)
}

func (s *Service) Delete(ctx context.Context, employeeID string, day time.Time) error {
	closed, err := s.guard.PeriodClosedFor(ctx, day)
	if err != nil {
		return err
	}
	if closed {
		return ErrPeriodClosed
	}
	return s.store.Delete(ctx, employeeID, day)
}
