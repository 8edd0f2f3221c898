package repository

import (
	"context"

	"supplyflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	Create(ctx context.Context, entry *model.WishlistEntry) error
	Update(ctx context.Context, entry *model.WishlistEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WishlistEntry, error)
	List(ctx context.Context, status string, customerID *uuid.UUID, page, limit int) ([]model.WishlistEntry, int64, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Create(ctx context.Context, entry *model.WishlistEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *wishlistRepository) Update(ctx context.Context, entry *model.WishlistEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *wishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WishlistEntry{}).Error
}

func (r *wishlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WishlistEntry, error) {
	var entry model.WishlistEntry
	if err := GetDB(ctx, r.db).Preload("Customer").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *wishlistRepository) List(ctx context.Context, status string, customerID *uuid.UUID, page, limit int) ([]model.WishlistEntry, int64, error) {
	var entries []model.WishlistEntry
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.WishlistEntry{})
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
		Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
