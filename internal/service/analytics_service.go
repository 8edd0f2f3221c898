package service

import (
	"context"
	"fmt"
	"time"

	"supplyflow/internal/model"
	"supplyflow/internal/repository"
)

const analyticsDateLayout = "2006-01-02"

type AnalyticsService interface {
	GetKPIs(ctx context.Context, startDate, endDate string) (*model.KPIResponse, error)
	GetSalesChart(ctx context.Context, startDate, endDate string) ([]model.SalesPoint, error)
	GetTopProducts(ctx context.Context, startDate, endDate string, limit int) ([]model.ProductRanking, error)
	GetTopCustomers(ctx context.Context, startDate, endDate string, limit int) ([]model.CustomerRanking, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

// parseDateRange resolves the requested window. Missing bounds default to
// the last 30 days; the end bound is inclusive of its whole day.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if startDate != "" {
		parsed, err := time.Parse(analyticsDateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", startDate)
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse(analyticsDateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: expected YYYY-MM-DD", endDate)
		}
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date precedes start_date")
	}
	return start, end, nil
}

func (s *analyticsService) GetKPIs(ctx context.Context, startDate, endDate string) (*model.KPIResponse, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	// The repository fills the customer count and echoes the range.
	kpis, err := s.analyticsRepo.GetKPIs(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute KPIs: %w", err)
	}
	return kpis, nil
}

func (s *analyticsService) GetSalesChart(ctx context.Context, startDate, endDate string) ([]model.SalesPoint, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.analyticsRepo.GetSalesChart(ctx, start, end)
}

func (s *analyticsService) GetTopProducts(ctx context.Context, startDate, endDate string, limit int) ([]model.ProductRanking, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.analyticsRepo.GetTopProducts(ctx, start, end, limit)
}

func (s *analyticsService) GetTopCustomers(ctx context.Context, startDate, endDate string, limit int) ([]model.CustomerRanking, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.analyticsRepo.GetTopCustomers(ctx, start, end, limit)
}
