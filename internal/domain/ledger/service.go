package ledger

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Append validates the entry and, for a deduction repaying an advance,
// verifies the reference actually points at an advance of the same employee.
func (s *Service) Append(ctx context.Context, t Transaction) (string, error) {
	if field, reason := t.Validate(); field != "" {
		return "", fmt.Errorf("transaction for %s: %s %s", t.EmployeeID, field, reason)
	}

	if t.RepaysID != "" {
		advance, err := s.store.Get(ctx, t.RepaysID)
		if err != nil {
			if err == ErrNotFound {
				return "", ErrUnknownAdvance
			}
			return "", err
		}
		if advance.Kind != KindAdvance {
			return "", ErrNotAnAdvance
		}
		if advance.EmployeeID != t.EmployeeID {
			return "", ErrWrongEmployee
		}
	}

	return s.store.Append(ctx, t)
}

func (s *Service) History(ctx context.Context, employeeID string) ([]Transaction, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

// HistoryBetween narrows the history to entries dated inside [from, to].
func (s *Service) HistoryBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Transaction, error) {
	return s.store.ListByEmployeeBetween(ctx, employeeID, from, to)
}

// AdvanceStatus reconciles the employee's latest advance. The bool is false
// when the employee has no advance at all, which is a valid empty state.
func (s *Service) AdvanceStatus(ctx context.Context, employeeID string) (AdvanceSummary, bool, error) {
	transactions, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return AdvanceSummary{}, false, err
	}
	summary, ok := ResolveAdvance(transactions)
	return summary, ok, nil
}
