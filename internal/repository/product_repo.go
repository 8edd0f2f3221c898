package repository

import (
	"context"

	"supplyflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, category, search string, page, limit int) ([]model.Product, int64, error)
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, category, search string, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("title ILIKE ? OR sku ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("title ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// CountReferences counts order lines, purchase lines and receipt lines that
// point at the product. Any non-zero count blocks deletion.
func (r *productRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	db := GetDB(ctx, r.db)

	var orderItems, purchaseItems, receiptItems int64
	if err := db.Model(&model.CustomerOrderItem{}).Where("product_id = ?", id).Count(&orderItems).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&model.PurchaseOrderItem{}).Where("product_id = ?", id).Count(&purchaseItems).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&model.GoodsReceiptItem{}).Where("product_id = ?", id).Count(&receiptItems).Error; err != nil {
		return 0, err
	}

	return orderItems + purchaseItems + receiptItems, nil
}
