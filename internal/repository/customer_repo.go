package repository

import (
	"context"

	"supplyflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Customer, int64, error)
	CountOrders(ctx context.Context, id uuid.UUID) (int64, error)
	CountWishlistEntries(ctx context.Context, id uuid.UUID) (int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return GetDB(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	return GetDB(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Customer{}).Error
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, search string, page, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Customer{})
	if search != "" {
		query = query.Where("name ILIKE ? OR tin ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// CountOrders counts customer orders referencing the customer, including
// terminal ones. Deletion guards treat any reference as blocking.
func (r *customerRepository) CountOrders(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.CustomerOrder{}).Where("customer_id = ?", id).Count(&count).Error
	return count, err
}

func (r *customerRepository) CountWishlistEntries(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.WishlistEntry{}).Where("customer_id = ?", id).Count(&count).Error
	return count, err
}
