package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

const vehicleColumns = `
  id, vin, make, model, year, status,
  purchase_price, purchase_date, sale_price, sale_date, COALESCE(buyer_name, ''),
  created_at, updated_at
`

func (s *Store) Get(ctx context.Context, vehicleID string) (*Vehicle, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+vehicleColumns+" FROM vehicles WHERE id = $1", vehicleID)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (s *Store) List(ctx context.Context, status, make string, limit, offset int) ([]Vehicle, error) {
	query := "SELECT " + vehicleColumns + " FROM vehicles WHERE 1=1"
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if make != "" {
		args = append(args, make)
		query += fmt.Sprintf(" AND make = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY purchase_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, v Vehicle) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO vehicles (vin, make, model, year, status, purchase_price, purchase_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, v.VIN, v.Make, v.Model, v.Year, StatusInStock, v.PurchasePrice, v.PurchaseDate).Scan(&id)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return "", ErrDuplicateVIN
	}
	return id, err
}

func (s *Store) SetStatus(ctx context.Context, vehicleID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE vehicles SET status = $1, updated_at = now() WHERE id = $2
  `, status, vehicleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkSold(ctx context.Context, vehicleID string, salePrice float64, saleDate time.Time, buyerName string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE vehicles
    SET status = $1, sale_price = $2, sale_date = $3, buyer_name = $4, updated_at = now()
    WHERE id = $5
  `, StatusSold, salePrice, saleDate, buyerName, vehicleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) OpenJob(ctx context.Context, vehicleID, description string, cost float64) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO maintenance_jobs (vehicle_id, description, cost)
    VALUES ($1,$2,$3)
    RETURNING id
  `, vehicleID, description, cost).Scan(&id)
	return id, err
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*MaintenanceJob, error) {
	var job MaintenanceJob
	err := s.DB.QueryRow(ctx, `
    SELECT id, vehicle_id, description, cost, opened_at, closed_at
    FROM maintenance_jobs WHERE id = $1
  `, jobID).Scan(&job.ID, &job.VehicleID, &job.Description, &job.Cost, &job.OpenedAt, &job.ClosedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Store) CloseJob(ctx context.Context, jobID string, cost float64) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE maintenance_jobs SET cost = $1, closed_at = now()
    WHERE id = $2 AND closed_at IS NULL
  `, cost, jobID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobClosed
	}
	return nil
}

func (s *Store) ListJobs(ctx context.Context, vehicleID string) ([]MaintenanceJob, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, vehicle_id, description, cost, opened_at, closed_at
    FROM maintenance_jobs WHERE vehicle_id = $1
    ORDER BY opened_at DESC
  `, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MaintenanceJob
	for rows.Next() {
		var job MaintenanceJob
		if err := rows.Scan(&job.ID, &job.VehicleID, &job.Description, &job.Cost, &job.OpenedAt, &job.ClosedAt); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, nil
}

func (s *Store) MaintenanceCost(ctx context.Context, vehicleID string) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(cost), 0) FROM maintenance_jobs WHERE vehicle_id = $1
  `, vehicleID).Scan(&total)
	return total, err
}

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	err := row.Scan(
		&v.ID, &v.VIN, &v.Make, &v.Model, &v.Year, &v.Status,
		&v.PurchasePrice, &v.PurchaseDate, &v.SalePrice, &v.SaleDate, &v.BuyerName,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
