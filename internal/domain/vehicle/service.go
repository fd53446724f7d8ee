package vehicle

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Purchase registers a newly bought vehicle in stock.
func (s *Service) Purchase(ctx context.Context, v Vehicle) (string, error) {
	v.VIN = strings.ToUpper(strings.TrimSpace(v.VIN))
	if v.VIN == "" {
		return "", fmt.Errorf("vin is required")
	}
	if v.Make == "" || v.Model == "" {
		return "", fmt.Errorf("make and model are required")
	}
	if v.Year < 1950 || v.Year > time.Now().Year()+1 {
		return "", fmt.Errorf("year %d out of range", v.Year)
	}
	if v.PurchasePrice <= 0 {
		return "", fmt.Errorf("purchase price must be positive")
	}
	if v.PurchaseDate.IsZero() {
		v.PurchaseDate = time.Now()
	}
	return s.store.Create(ctx, v)
}

func (s *Service) Get(ctx context.Context, vehicleID string) (*Vehicle, error) {
	return s.store.Get(ctx, vehicleID)
}

func (s *Service) List(ctx context.Context, status, make string, limit, offset int) ([]Vehicle, error) {
	return s.store.List(ctx, status, make, limit, offset)
}

func (s *Service) transition(ctx context.Context, vehicleID, to string) error {
	v, err := s.store.Get(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !CanTransition(v.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Status, to)
	}
	return s.store.SetStatus(ctx, vehicleID, to)
}

func (s *Service) Book(ctx context.Context, vehicleID string) error {
	return s.transition(ctx, vehicleID, StatusBooked)
}

func (s *Service) CancelBooking(ctx context.Context, vehicleID string) error {
	return s.transition(ctx, vehicleID, StatusInStock)
}

func (s *Service) SendToService(ctx context.Context, vehicleID string) error {
	return s.transition(ctx, vehicleID, StatusInService)
}

func (s *Service) ReturnFromService(ctx context.Context, vehicleID string) error {
	return s.transition(ctx, vehicleID, StatusInStock)
}

type SaleResult struct {
	Vehicle Vehicle `json:"vehicle"`
	Margin  float64 `json:"margin"`
}

// Sell closes the vehicle's lifecycle. Margin is computed against purchase
// price plus all maintenance spent on the unit.
func (s *Service) Sell(ctx context.Context, vehicleID string, salePrice float64, saleDate time.Time, buyerName string) (*SaleResult, error) {
	v, err := s.store.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.Status == StatusSold {
		return nil, ErrAlreadySold
	}
	if !CanTransition(v.Status, StatusSold) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Status, StatusSold)
	}
	if salePrice <= 0 {
		return nil, fmt.Errorf("sale price must be positive")
	}
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	if err := s.store.MarkSold(ctx, vehicleID, salePrice, saleDate, buyerName); err != nil {
		return nil, err
	}
	sold, err := s.store.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	maintCost, err := s.store.MaintenanceCost(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Vehicle: *sold, Margin: sold.Margin(maintCost)}, nil
}

func (s *Service) OpenMaintenance(ctx context.Context, vehicleID, description string, cost float64) (string, error) {
	if description == "" {
		return "", fmt.Errorf("description is required")
	}
	if cost < 0 {
		return "", fmt.Errorf("cost must not be negative")
	}
	if err := s.SendToService(ctx, vehicleID); err != nil {
		return "", err
	}
	return s.store.OpenJob(ctx, vehicleID, description, cost)
}

func (s *Service) CloseMaintenance(ctx context.Context, jobID string, cost float64) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.ClosedAt != nil {
		return ErrJobClosed
	}
	if cost < 0 {
		cost = job.Cost
	}
	if err := s.store.CloseJob(ctx, jobID, cost); err != nil {
		return err
	}
	return s.ReturnFromService(ctx, job.VehicleID)
}

func (s *Service) MaintenanceJobs(ctx context.Context, vehicleID string) ([]MaintenanceJob, error) {
	if _, err := s.store.Get(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.store.ListJobs(ctx, vehicleID)
}
