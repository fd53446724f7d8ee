package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Append(ctx context.Context, t Transaction) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO financial_transactions
      (employee_id, entry_date, kind, amount, remarks, installments, repays_transaction_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, t.EmployeeID, t.Date, t.Kind, t.Amount, t.Remarks, nullIfZero(t.Installments), nullIfEmpty(t.RepaysID)).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, id string) (*Transaction, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, entry_date, kind, amount, COALESCE(remarks, ''),
           COALESCE(installments, 0), COALESCE(repays_transaction_id::text, ''), created_at
    FROM financial_transactions
    WHERE id = $1
  `, id)
	var t Transaction
	err := row.Scan(&t.ID, &t.EmployeeID, &t.Date, &t.Kind, &t.Amount, &t.Remarks, &t.Installments, &t.RepaysID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Transaction, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, entry_date, kind, amount, COALESCE(remarks, ''),
           COALESCE(installments, 0), COALESCE(repays_transaction_id::text, ''), created_at
    FROM financial_transactions
    WHERE employee_id = $1
    ORDER BY entry_date DESC, created_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *Store) ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]Transaction, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, entry_date, kind, amount, COALESCE(remarks, ''),
           COALESCE(installments, 0), COALESCE(repays_transaction_id::text, ''), created_at
    FROM financial_transactions
    WHERE employee_id = $1 AND entry_date >= $2 AND entry_date <= $3
    ORDER BY entry_date DESC, created_at DESC
  `, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.Date, &t.Kind, &t.Amount, &t.Remarks, &t.Installments, &t.RepaysID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullIfZero(value int) any {
	if value == 0 {
		return nil
	}
	return value
}
