package attendance

import (
	"context"
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

// Upsert writes the single record for (employee, day), replacing any earlier
// entry for that day.
func (s *Store) Upsert(ctx context.Context, rec Record) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, day, status, in_time, out_time, ot_hours, remarks)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (employee_id, day)
    DO UPDATE SET status = EXCLUDED.status, in_time = EXCLUDED.in_time,
                  out_time = EXCLUDED.out_time, ot_hours = EXCLUDED.ot_hours,
                  remarks = EXCLUDED.remarks
    RETURNING id
  `, rec.EmployeeID, rec.Date, rec.Status, nullIfEmpty(rec.InTime), nullIfEmpty(rec.OutTime), rec.OTHours, rec.Remarks).Scan(&id)
	return id, err
}

func (s *Store) BulkUpsert(ctx context.Context, records []Record) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		if _, err := tx.Exec(ctx, `
      INSERT INTO attendance_records (employee_id, day, status, in_time, out_time, ot_hours, remarks)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
      ON CONFLICT (employee_id, day)
      DO UPDATE SET status = EXCLUDED.status, in_time = EXCLUDED.in_time,
                    out_time = EXCLUDED.out_time, ot_hours = EXCLUDED.ot_hours,
                    remarks = EXCLUDED.remarks
    `, rec.EmployeeID, rec.Date, rec.Status, nullIfEmpty(rec.InTime), nullIfEmpty(rec.OutTime), rec.OTHours, rec.Remarks); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ListForPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, day, status, COALESCE(in_time, ''), COALESCE(out_time, ''),
           ot_hours, COALESCE(remarks, ''), created_at
    FROM attendance_records
    WHERE employee_id = $1 AND day >= $2 AND day <= $3
    ORDER BY day
  `, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.Status, &rec.InTime, &rec.OutTime, &rec.OTHours, &rec.Remarks, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, employeeID string, day time.Time) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance_records WHERE employee_id = $1 AND day = $2", employeeID, day)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
