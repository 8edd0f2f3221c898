package repository

import (
	"context"
	"time"

	"supplyflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.CustomerOrder) error
	CreateItems(ctx context.Context, items []model.CustomerOrderItem) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetDelivered(ctx context.Context, id uuid.UUID, photoURL string, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteItems(ctx context.Context, orderID uuid.UUID) error
	List(ctx context.Context, status string, customerID *uuid.UUID, page, limit int) ([]model.CustomerOrder, int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.CustomerOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) CreateItems(ctx context.Context, items []model.CustomerOrderItem) error {
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *orderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error) {
	var order model.CustomerOrder
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.CustomerOrder{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepository) SetDelivered(ctx context.Context, id uuid.UUID, photoURL string, at time.Time) error {
	return GetDB(ctx, r.db).Model(&model.CustomerOrder{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":             model.OrderStatusDelivered,
		"delivery_photo_url": photoURL,
		"delivered_at":       at,
	}).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CustomerOrder{}).Error
}

func (r *orderRepository) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("order_id = ?", orderID).Delete(&model.CustomerOrderItem{}).Error
}

func (r *orderRepository) List(ctx context.Context, status string, customerID *uuid.UUID, page, limit int) ([]model.CustomerOrder, int64, error) {
	var orders []model.CustomerOrder
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.CustomerOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Order("priority DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
