package repository

import (
	"context"
	"time"

	"supplyflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, order *model.PurchaseOrder) error
	CreateItems(ctx context.Context, items []model.PurchaseOrderItem) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetReceived(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, supplierID *uuid.UUID, page, limit int) ([]model.PurchaseOrder, int64, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *purchaseRepository) CreateItems(ctx context.Context, items []model.PurchaseOrderItem) error {
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *purchaseRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Items.Product").
		Preload("Supplier").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *purchaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).Where("id = ?", id).Update("status", status).Error
}

func (r *purchaseRepository) SetReceived(ctx context.Context, id uuid.UUID, at time.Time) error {
	return GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      model.PurchaseStatusReceived,
		"received_at": at,
	}).Error
}

func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("purchase_order_id = ?", id).Delete(&model.PurchaseOrderItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.PurchaseOrder{}).Error
}

func (r *purchaseRepository) List(ctx context.Context, status string, supplierID *uuid.UUID, page, limit int) ([]model.PurchaseOrder, int64, error) {
	var orders []model.PurchaseOrder
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.PurchaseOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Preload("Items.Product").
		Preload("Supplier").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
