package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dms/internal/domain/attendance"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetPeriod(ctx context.Context, period attendance.Period) (Period, error) {
	var p Period
	err := s.DB.QueryRow(ctx, `
    SELECT id, month, year, status, closed_at
    FROM payroll_periods
    WHERE month = $1 AND year = $2
  `, period.Month, period.Year).Scan(&p.ID, &p.Month, &p.Year, &p.Status, &p.ClosedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrPeriodNotFound
	}
	return p, err
}

// EnsurePeriod creates the open period row on first use.
func (s *Store) EnsurePeriod(ctx context.Context, period attendance.Period) (Period, error) {
	p, err := s.GetPeriod(ctx, period)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPeriodNotFound) {
		return Period{}, err
	}

	err = s.DB.QueryRow(ctx, `
    INSERT INTO payroll_periods (month, year, status)
    VALUES ($1,$2,$3)
    ON CONFLICT (month, year) DO UPDATE SET status = payroll_periods.status
    RETURNING id, month, year, status, closed_at
  `, period.Month, period.Year, PeriodStatusOpen).Scan(&p.ID, &p.Month, &p.Year, &p.Status, &p.ClosedAt)
	return p, err
}

func (s *Store) SetPeriodStatus(ctx context.Context, period attendance.Period, status string) error {
	var closedAt any
	if status == PeriodStatusClosed {
		closedAt = time.Now().UTC()
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_periods SET status = $1, closed_at = $2 WHERE month = $3 AND year = $4
  `, status, closedAt, period.Month, period.Year)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPeriodNotFound
	}
	return nil
}

func (s *Store) ListPeriods(ctx context.Context, limit, offset int) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, month, year, status, closed_at
    FROM payroll_periods
    ORDER BY year DESC, month DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.ID, &p.Month, &p.Year, &p.Status, &p.ClosedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// PeriodClosedFor implements the attendance period guard: writes to days
// whose pay cycle has been closed are rejected.
func (s *Store) PeriodClosedFor(ctx context.Context, date time.Time) (bool, error) {
	period := attendance.PeriodFor(date)
	p, err := s.GetPeriod(ctx, period)
	if errors.Is(err, ErrPeriodNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.Status == PeriodStatusClosed, nil
}

// UpsertRecord persists the computed record as the snapshot for the period.
// Closing the period freezes these rows as the payslip source.
func (s *Store) UpsertRecord(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	warnings, err := json.Marshal(rec.Warnings)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO payroll_records (employee_id, month, year, net_salary, record_json, warnings_json)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (employee_id, month, year)
    DO UPDATE SET net_salary = EXCLUDED.net_salary,
                  record_json = EXCLUDED.record_json,
                  warnings_json = EXCLUDED.warnings_json,
                  computed_at = now()
  `, rec.EmployeeID, rec.Period.Month, rec.Period.Year, rec.NetSalary, payload, warnings)
	return err
}

func (s *Store) GetRecord(ctx context.Context, employeeID string, period attendance.Period) (Record, error) {
	var payload []byte
	err := s.DB.QueryRow(ctx, `
    SELECT record_json
    FROM payroll_records
    WHERE employee_id = $1 AND month = $2 AND year = $3
  `, employeeID, period.Month, period.Year).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) CountRecords(ctx context.Context, period attendance.Period) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM payroll_records WHERE month = $1 AND year = $2
  `, period.Month, period.Year).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListRecords(ctx context.Context, period attendance.Period) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT record_json
    FROM payroll_records
    WHERE month = $1 AND year = $2
    ORDER BY employee_id
  `, period.Month, period.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
