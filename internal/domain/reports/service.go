package reports

import (
	"context"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) PayrollRegister(ctx context.Context, month, year int) ([]RegisterRow, error) {
	return s.Store.PayrollRegister(ctx, month, year)
}

func (s *Service) SalesSummary(ctx context.Context, from, to time.Time) (SalesSummary, error) {
	return s.Store.SalesSummary(ctx, from, to)
}

func (s *Service) Headcount(ctx context.Context) ([]HeadcountRow, error) {
	return s.Store.Headcount(ctx)
}

func (s *Service) JobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	return s.Store.ListJobRuns(ctx, jobType, limit, offset)
}
