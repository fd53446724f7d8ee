package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cryptoutil "dms/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	crypto *cryptoutil.Service
}

func NewStore(db *pgxpool.Pool, crypto *cryptoutil.Service) *Store {
	return &Store{DB: db, crypto: crypto}
}

const employeeColumns = `
  id, COALESCE(user_id::text, ''), employee_number, first_name, last_name, email,
  COALESCE(phone, ''), COALESCE(department, ''), COALESCE(position, ''),
  base_salary, base_salary_enc, COALESCE(currency, 'USD'),
  COALESCE(bank_account, ''), bank_account_enc,
  hire_date, end_date, status, created_at, updated_at
`

func (s *Store) Get(ctx context.Context, employeeID string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", employeeID)
	emp, err := s.scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return emp, err
}

func (s *Store) List(ctx context.Context, status, department string, limit, offset int) ([]Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE 1=1"
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if department != "" {
		args = append(args, department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := s.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, status, department string) (int, error) {
	query := "SELECT COUNT(1) FROM employees WHERE 1=1"
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if department != "" {
		args = append(args, department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) Create(ctx context.Context, emp Employee) (string, error) {
	salaryPlain, salaryEnc, err := s.sealSalary(emp.BaseSalary)
	if err != nil {
		return "", err
	}
	bankPlain, bankEnc, err := s.sealBank(emp.BankAccount)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO employees
      (employee_number, first_name, last_name, email, phone, department, position,
       base_salary, base_salary_enc, currency, bank_account, bank_account_enc,
       hire_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    RETURNING id
  `, emp.EmployeeNumber, emp.FirstName, emp.LastName, emp.Email, emp.Phone,
		emp.Department, emp.Position, salaryPlain, salaryEnc, emp.Currency,
		bankPlain, bankEnc, emp.HireDate, emp.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, employeeID string, emp Employee) error {
	salaryPlain, salaryEnc, err := s.sealSalary(emp.BaseSalary)
	if err != nil {
		return err
	}
	bankPlain, bankEnc, err := s.sealBank(emp.BankAccount)
	if err != nil {
		return err
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET
      first_name = $1, last_name = $2, email = $3, phone = $4,
      department = $5, position = $6,
      base_salary = $7, base_salary_enc = $8, currency = $9,
      bank_account = $10, bank_account_enc = $11,
      hire_date = $12, updated_at = now()
    WHERE id = $13
  `, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Department,
		emp.Position, salaryPlain, salaryEnc, emp.Currency, bankPlain, bankEnc,
		emp.HireDate, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus is the only removal path; employee rows are never deleted.
func (s *Store) SetStatus(ctx context.Context, employeeID, status string, endDate any) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $1, end_date = $2, updated_at = now() WHERE id = $3
  `, status, endDate, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) LinkUser(ctx context.Context, employeeID, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET user_id = $1 WHERE id = $2", userID, employeeID)
	return err
}

func (s *Store) ListActive(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM employees WHERE status = $1 ORDER BY employee_number", StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := s.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	return out, nil
}

func (s *Store) scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	var salaryEnc, bankEnc []byte
	if err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName,
		&emp.Email, &emp.Phone, &emp.Department, &emp.Position,
		&emp.BaseSalary, &salaryEnc, &emp.Currency,
		&emp.BankAccount, &bankEnc,
		&emp.HireDate, &emp.EndDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if emp.BaseSalary == nil && len(salaryEnc) > 0 {
		plain, err := s.crypto.DecryptString(salaryEnc)
		if err != nil {
			return nil, err
		}
		var salary float64
		if _, err := fmt.Sscanf(plain, "%f", &salary); err == nil {
			emp.BaseSalary = &salary
		}
	}
	if emp.BankAccount == "" && len(bankEnc) > 0 {
		plain, err := s.crypto.DecryptString(bankEnc)
		if err != nil {
			return nil, err
		}
		emp.BankAccount = plain
	}
	return &emp, nil
}

// sealSalary stores the salary encrypted when a key is configured, plaintext
// column otherwise. Exactly one of the two columns is populated.
func (s *Store) sealSalary(salary *float64) (any, []byte, error) {
	if salary == nil {
		return nil, nil, nil
	}
	if s.crypto != nil && s.crypto.Configured() {
		enc, err := s.crypto.EncryptString(fmt.Sprintf("%.2f", *salary))
		if err != nil {
			return nil, nil, err
		}
		return nil, enc, nil
	}
	return *salary, nil, nil
}

func (s *Store) sealBank(account string) (any, []byte, error) {
	if account == "" {
		return nil, nil, nil
	}
	if s.crypto != nil && s.crypto.Configured() {
		enc, err := s.crypto.EncryptString(account)
		if err != nil {
			return nil, nil, err
		}
		return nil, enc, nil
	}
	return account, nil, nil
}
