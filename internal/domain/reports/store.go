package reports

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dms/internal/domain/payroll"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type RegisterRow struct {
	EmployeeID     string  `json:"employeeId"`
	EmployeeNumber string  `json:"employeeNumber"`
	Name           string  `json:"name"`
	Department     string  `json:"department"`
	ProratedSalary float64 `json:"proratedSalary"`
	OTPay          float64 `json:"otPay"`
	Bonus          float64 `json:"bonus"`
	Advance        float64 `json:"advance"`
	Deductions     float64 `json:"deductions"`
	NetSalary      float64 `json:"netSalary"`
	Warnings       int     `json:"warnings"`
}

// PayrollRegister joins the persisted payroll snapshots for the period with
// the employee register. Snapshots are authoritative; nothing is recomputed.
func (s *Store) PayrollRegister(ctx context.Context, month, year int) ([]RegisterRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.employee_id, e.employee_number, e.first_name || ' ' || e.last_name,
           COALESCE(e.department, ''), r.record_json
    FROM payroll_records r
    JOIN employees e ON e.id = r.employee_id
    WHERE r.month = $1 AND r.year = $2
    ORDER BY e.last_name, e.first_name
  `, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegisterRow
	for rows.Next() {
		var row RegisterRow
		var payload []byte
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeNumber, &row.Name, &row.Department, &payload); err != nil {
			return nil, err
		}
		var rec payroll.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, err
		}
		row.ProratedSalary = rec.ProratedSalary
		row.OTPay = rec.OTPay
		row.Bonus = rec.Bonus
		row.Advance = rec.AdvanceGiven
		row.Deductions = rec.TotalDeductions()
		row.NetSalary = rec.NetSalary
		row.Warnings = len(rec.Warnings)
		out = append(out, row)
	}
	return out, nil
}

type SalesSummary struct {
	VehiclesSold    int     `json:"vehiclesSold"`
	Revenue         float64 `json:"revenue"`
	PurchaseCost    float64 `json:"purchaseCost"`
	MaintenanceCost float64 `json:"maintenanceCost"`
	Margin          float64 `json:"margin"`
}

func (s *Store) SalesSummary(ctx context.Context, from, to time.Time) (SalesSummary, error) {
	var summary SalesSummary
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COALESCE(SUM(v.sale_price), 0),
           COALESCE(SUM(v.purchase_price), 0),
           COALESCE(SUM(m.cost), 0)
    FROM vehicles v
    LEFT JOIN (
      SELECT vehicle_id, SUM(cost) AS cost FROM maintenance_jobs GROUP BY vehicle_id
    ) m ON m.vehicle_id = v.id
    WHERE v.status = 'sold' AND v.sale_date >= $1 AND v.sale_date < $2
  `, from, to).Scan(&summary.VehiclesSold, &summary.Revenue, &summary.PurchaseCost, &summary.MaintenanceCost)
	if err != nil {
		return SalesSummary{}, err
	}
	summary.Margin = summary.Revenue - summary.PurchaseCost - summary.MaintenanceCost
	return summary, nil
}

type HeadcountRow struct {
	Department string `json:"department"`
	Active     int    `json:"active"`
	OnLeave    int    `json:"onLeave"`
}

func (s *Store) Headcount(ctx context.Context) ([]HeadcountRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(department, ''),
           COUNT(1) FILTER (WHERE status = 'active'),
           COUNT(1) FILTER (WHERE status = 'on_leave')
    FROM employees
    WHERE status <> 'left'
    GROUP BY department
    ORDER BY department
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HeadcountRow
	for rows.Next() {
		var row HeadcountRow
		if err := rows.Scan(&row.Department, &row.Active, &row.OnLeave); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) ListJobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	query := `
    SELECT id::text, job_type, status, COALESCE(details_json, '{}'), started_at, completed_at
    FROM job_runs WHERE 1=1`
	args := []any{}
	if jobType != "" {
		args = append(args, jobType)
		query += " AND job_type = $1"
	}
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var id, jt, status string
		var details []byte
		var startedAt time.Time
		var completedAt *time.Time
		if err := rows.Scan(&id, &jt, &status, &details, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		var detailsVal any
		if len(details) > 0 {
			_ = json.Unmarshal(details, &detailsVal)
		}
		out = append(out, map[string]any{
			"id":          id,
			"jobType":     jt,
			"status":      status,
			"details":     detailsVal,
			"startedAt":   startedAt,
			"completedAt": completedAt,
		})
	}
	return out, nil
}
