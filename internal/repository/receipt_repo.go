package repository

import (
	"context"

	"supplyflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.GoodsReceipt) error
	CreateItems(ctx context.Context, items []model.GoodsReceiptItem) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.GoodsReceipt, error)
	FindDraftByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) (*model.GoodsReceipt, error)
	ReplaceItems(ctx context.Context, receiptID uuid.UUID, items []model.GoodsReceiptItem) error
	Finalize(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, page, limit int) ([]model.GoodsReceipt, int64, error)
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *model.GoodsReceipt) error {
	return GetDB(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) CreateItems(ctx context.Context, items []model.GoodsReceiptItem) error {
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *receiptRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.GoodsReceipt, error) {
	var receipt model.GoodsReceipt
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("PurchaseOrder").
		Preload("PurchaseOrder.Items").
		First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) FindDraftByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) (*model.GoodsReceipt, error) {
	var receipt model.GoodsReceipt
	if err := GetDB(ctx, r.db).
		Preload("Items").
		First(&receipt, "purchase_order_id = ? AND status = ?", purchaseOrderID, model.ReceiptStatusDraft).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ReplaceItems swaps a draft receipt's lines for a fresh set. Draft saves
// always resend the full form.
func (r *receiptRepository) ReplaceItems(ctx context.Context, receiptID uuid.UUID, items []model.GoodsReceiptItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("receipt_id = ?", receiptID).Delete(&model.GoodsReceiptItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

func (r *receiptRepository) Finalize(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.GoodsReceipt{}).Where("id = ?", id).Update("status", model.ReceiptStatusFinal).Error
}

func (r *receiptRepository) List(ctx context.Context, status string, page, limit int) ([]model.GoodsReceipt, int64, error) {
	var receipts []model.GoodsReceipt
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.GoodsReceipt{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Preload("PurchaseOrder").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, total, nil
}
