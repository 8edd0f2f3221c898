package repository

import (
	"context"
	"fmt"

	"supplyflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reservedSubquery aggregates quantities reserved per batch by order lines
// of orders that are neither cancelled nor delivered. This is the one
// contract every availability number in the system derives from.
const reservedSubquery = `
	SELECT coi.batch_id, SUM(coi.quantity) AS reserved
	FROM customer_order_items coi
	JOIN customer_orders co ON co.id = coi.order_id
	WHERE co.status NOT IN ('cancelled', 'delivered') AND coi.batch_id IS NOT NULL
	GROUP BY coi.batch_id`

type InventoryRepository interface {
	CreateBatch(ctx context.Context, batch *model.InventoryBatch) error
	AddToBatch(ctx context.Context, productID uuid.UUID, batchNumber string, quantity int) (bool, error)
	FindBatch(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error)
	BatchAvailability(ctx context.Context, productID *uuid.UUID) ([]model.BatchAvailability, error)
	ProductAvailability(ctx context.Context) ([]model.ProductAvailability, error)
	DeleteGroupAndUnlinkOrders(ctx context.Context, productID uuid.UUID, batchNumber string) (int64, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) CreateBatch(ctx context.Context, batch *model.InventoryBatch) error {
	return GetDB(ctx, r.db).Create(batch).Error
}

// AddToBatch accumulates quantity onto an existing (product, batch) row.
// Returns false when no such row exists and the caller should create one.
func (r *inventoryRepository) AddToBatch(ctx context.Context, productID uuid.UUID, batchNumber string, quantity int) (bool, error) {
	result := GetDB(ctx, r.db).Model(&model.InventoryBatch{}).
		Where("product_id = ? AND batch_number = ?", productID, batchNumber).
		Update("quantity_received", gorm.Expr("quantity_received + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *inventoryRepository) FindBatch(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	var batch model.InventoryBatch
	if err := GetDB(ctx, r.db).First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// BatchAvailability returns per-batch availability:
// available = received - reserved by open orders.
func (r *inventoryRepository) BatchAvailability(ctx context.Context, productID *uuid.UUID) ([]model.BatchAvailability, error) {
	var rows []model.BatchAvailability

	query := GetDB(ctx, r.db).Table("inventory_batches b").
		Select(`b.id AS batch_id, b.product_id, p.title AS product_title, p.sku, p.unit,
			b.batch_number, b.expiry_date,
			b.quantity_received AS received,
			COALESCE(res.reserved, 0) AS reserved,
			b.quantity_received - COALESCE(res.reserved, 0) AS available,
			p.selling_price, p.purchase_price`).
		Joins("JOIN products p ON p.id = b.product_id AND p.deleted_at IS NULL").
		Joins(fmt.Sprintf("LEFT JOIN (%s) res ON res.batch_id = b.id", reservedSubquery)).
		Order("p.title ASC, b.expiry_date ASC")

	if productID != nil {
		query = query.Where("b.product_id = ?", *productID)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query batch availability: %w", err)
	}
	return rows, nil
}

// ProductAvailability aggregates batch availability per product. Order
// lines sold without a batch reference reserve at the product level, so
// they are subtracted here alongside batch reservations.
func (r *inventoryRepository) ProductAvailability(ctx context.Context) ([]model.ProductAvailability, error) {
	var rows []model.ProductAvailability

	err := GetDB(ctx, r.db).Table("products p").
		Select(`p.id AS product_id, p.title AS product_title, p.sku, p.unit,
			COALESCE(rcv.received, 0) AS received,
			COALESCE(res.reserved, 0) AS reserved,
			COALESCE(rcv.received, 0) - COALESCE(res.reserved, 0) AS available,
			p.selling_price`).
		Joins(`LEFT JOIN (
			SELECT product_id, SUM(quantity_received) AS received
			FROM inventory_batches GROUP BY product_id
		) rcv ON rcv.product_id = p.id`).
		Joins(`LEFT JOIN (
			SELECT coi.product_id, SUM(coi.quantity) AS reserved
			FROM customer_order_items coi
			JOIN customer_orders co ON co.id = coi.order_id
			WHERE co.status NOT IN ('cancelled', 'delivered')
			GROUP BY coi.product_id
		) res ON res.product_id = p.id`).
		Where("p.deleted_at IS NULL").
		Order("p.title ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query product availability: %w", err)
	}
	return rows, nil
}

// DeleteGroupAndUnlinkOrders removes every batch row of (product, batch
// number) after detaching order lines that referenced those batches.
// Returns the number of order lines unlinked.
func (r *inventoryRepository) DeleteGroupAndUnlinkOrders(ctx context.Context, productID uuid.UUID, batchNumber string) (int64, error) {
	db := GetDB(ctx, r.db)

	var batchIDs []uuid.UUID
	if err := db.Model(&model.InventoryBatch{}).
		Where("product_id = ? AND batch_number = ?", productID, batchNumber).
		Pluck("id", &batchIDs).Error; err != nil {
		return 0, err
	}
	if len(batchIDs) == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	result := db.Model(&model.CustomerOrderItem{}).
		Where("batch_id IN ?", batchIDs).
		Update("batch_id", nil)
	if result.Error != nil {
		return 0, result.Error
	}

	if err := db.Where("id IN ?", batchIDs).Delete(&model.InventoryBatch{}).Error; err != nil {
		return 0, err
	}

	return result.RowsAffected, nil
}
