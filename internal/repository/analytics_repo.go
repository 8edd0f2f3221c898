package repository

import (
	"context"
	"fmt"
	"time"

	"supplyflow/internal/model"

	"gorm.io/gorm"
)

// AnalyticsRepository computes the dashboard aggregates that the original
// platform exposed as remote procedures.
type AnalyticsRepository interface {
	GetKPIs(ctx context.Context, start, end time.Time) (*model.KPIResponse, error)
	GetSalesChart(ctx context.Context, start, end time.Time) ([]model.SalesPoint, error)
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error)
	GetTopCustomers(ctx context.Context, start, end time.Time, limit int) ([]model.CustomerRanking, error)
	GetUniqueCustomers(ctx context.Context, start, end time.Time) (int, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetKPIs(ctx context.Context, start, end time.Time) (*model.KPIResponse, error) {
	db := GetDB(ctx, r.db)

	var revenue struct {
		Value string
		Count int
	}
	if err := db.Table("customer_order_items coi").
		Select("COALESCE(CAST(SUM(coi.quantity * coi.price_per_unit) AS TEXT), '0') AS value, COUNT(DISTINCT co.id) AS count").
		Joins("JOIN customer_orders co ON co.id = coi.order_id").
		Where("co.status = ? AND co.created_at >= ? AND co.created_at <= ?", model.OrderStatusDelivered, start, end).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to query revenue: %w", err)
	}

	var open, cancelled int64
	if err := db.Model(&model.CustomerOrder{}).
		Where("status NOT IN ? AND created_at >= ? AND created_at <= ?",
			[]string{model.OrderStatusDelivered, model.OrderStatusCancelled}, start, end).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.CustomerOrder{}).
		Where("status = ? AND created_at >= ? AND created_at <= ?", model.OrderStatusCancelled, start, end).
		Count(&cancelled).Error; err != nil {
		return nil, err
	}

	unique, err := r.GetUniqueCustomers(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &model.KPIResponse{
		TotalRevenue:       revenue.Value,
		DeliveredOrders:    revenue.Count,
		OpenOrders:         int(open),
		CancelledOrders:    int(cancelled),
		UniqueCustomers:    unique,
		TimeRangeStartDate: start,
		TimeRangeEndDate:   end,
	}, nil
}

func (r *analyticsRepository) GetSalesChart(ctx context.Context, start, end time.Time) ([]model.SalesPoint, error) {
	var points []model.SalesPoint
	if err := GetDB(ctx, r.db).Table("customer_order_items coi").
		Select(`DATE_TRUNC('day', co.created_at) AS day,
			COUNT(DISTINCT co.id) AS order_count,
			COALESCE(CAST(SUM(coi.quantity * coi.price_per_unit) AS TEXT), '0') AS revenue`).
		Joins("JOIN customer_orders co ON co.id = coi.order_id").
		Where("co.status != ? AND co.created_at >= ? AND co.created_at <= ?", model.OrderStatusCancelled, start, end).
		Group("DATE_TRUNC('day', co.created_at)").
		Order("day ASC").
		Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales chart: %w", err)
	}
	return points, nil
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error) {
	var rankings []model.ProductRanking
	if err := GetDB(ctx, r.db).Table("customer_order_items coi").
		Select(`p.id AS product_id, p.title AS product_title, p.sku AS product_sku,
			SUM(coi.quantity) AS total_quantity,
			CAST(SUM(coi.quantity * coi.price_per_unit) AS TEXT) AS total_value`).
		Joins("JOIN products p ON p.id = coi.product_id").
		Joins("JOIN customer_orders co ON co.id = coi.order_id").
		Where("co.status != ? AND co.created_at >= ? AND co.created_at <= ?", model.OrderStatusCancelled, start, end).
		Group("p.id, p.title, p.sku").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rankings, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, start, end time.Time, limit int) ([]model.CustomerRanking, error) {
	var rankings []model.CustomerRanking
	if err := GetDB(ctx, r.db).Table("customer_order_items coi").
		Select(`c.id AS customer_id, c.name AS customer_name,
			COUNT(DISTINCT co.id) AS order_count,
			CAST(SUM(coi.quantity * coi.price_per_unit) AS TEXT) AS total_value`).
		Joins("JOIN customer_orders co ON co.id = coi.order_id").
		Joins("JOIN customers c ON c.id = co.customer_id").
		Where("co.status != ? AND co.created_at >= ? AND co.created_at <= ?", model.OrderStatusCancelled, start, end).
		Group("c.id, c.name").
		Order("SUM(coi.quantity * coi.price_per_unit) DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	return rankings, nil
}

func (r *analyticsRepository) GetUniqueCustomers(ctx context.Context, start, end time.Time) (int, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.CustomerOrder{}).
		Where("status != ? AND created_at >= ? AND created_at <= ?", model.OrderStatusCancelled, start, end).
		Distinct("customer_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
