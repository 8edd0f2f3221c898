package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"supplyflow/internal/model"
	"supplyflow/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrReferenced is returned by deletion guards when the row is still
// pointed at by orders or wishlist entries.
var ErrReferenced = errors.New("record is referenced by existing documents")

// --- Customer DTOs ---

type CreateCustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	TIN             string `json:"tin"`
	KPP             string `json:"kpp"`
	DeliveryAddress string `json:"delivery_address"`
	PaymentTerms    string `json:"payment_terms"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Comment         string `json:"comment"`
}

type UpdateCustomerRequest struct {
	Name            *string `json:"name"`
	TIN             *string `json:"tin"`
	KPP             *string `json:"kpp"`
	DeliveryAddress *string `json:"delivery_address"`
	PaymentTerms    *string `json:"payment_terms"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	Comment         *string `json:"comment"`
}

type CustomerResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	TIN             string    `json:"tin"`
	KPP             string    `json:"kpp"`
	DeliveryAddress string    `json:"delivery_address"`
	PaymentTerms    string    `json:"payment_terms"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, userID string, req CreateCustomerRequest) (CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (CustomerResponse, error)
	DeleteCustomer(ctx context.Context, userID, id string) error
	GetCustomer(ctx context.Context, id string) (CustomerResponse, error)
	GetCustomers(ctx context.Context, search string, page, limit int) ([]CustomerResponse, int64, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewCustomerService(customerRepo repository.CustomerRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) CustomerService {
	return &customerService{customerRepo: customerRepo, auditRepo: auditRepo, txManager: txManager}
}

func mapCustomer(c *model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		TIN:             c.TIN,
		KPP:             c.KPP,
		DeliveryAddress: c.DeliveryAddress,
		PaymentTerms:    c.PaymentTerms,
		Phone:           c.Phone,
		Email:           c.Email,
		Comment:         c.Comment,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func parseActorID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}

func (s *customerService) CreateCustomer(ctx context.Context, userID string, req CreateCustomerRequest) (CustomerResponse, error) {
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return CustomerResponse{}, fmt.Errorf("invalid email: %w", err)
		}
	}

	customer := model.Customer{
		Name:            req.Name,
		TIN:             req.TIN,
		KPP:             req.KPP,
		DeliveryAddress: req.DeliveryAddress,
		PaymentTerms:    req.PaymentTerms,
		Phone:           req.Phone,
		Email:           req.Email,
		Comment:         req.Comment,
		CreatedBy:       parseActorID(userID),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.customerRepo.Create(txCtx, &customer); err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}

		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionCreateCustomer,
			EntityID:   customer.ID.String(),
			EntityName: customer.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return CustomerResponse{}, err
	}

	return mapCustomer(&customer), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("invalid customer id: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, errors.New("customer not found")
		}
		return CustomerResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.TIN != nil {
		customer.TIN = *req.TIN
	}
	if req.KPP != nil {
		customer.KPP = *req.KPP
	}
	if req.DeliveryAddress != nil {
		customer.DeliveryAddress = *req.DeliveryAddress
	}
	if req.PaymentTerms != nil {
		customer.PaymentTerms = *req.PaymentTerms
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		if *req.Email != "" {
			if _, err := mail.ParseAddress(*req.Email); err != nil {
				return CustomerResponse{}, fmt.Errorf("invalid email: %w", err)
			}
		}
		customer.Email = *req.Email
	}
	if req.Comment != nil {
		customer.Comment = *req.Comment
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to update customer: %w", err)
	}

	return mapCustomer(customer), nil
}

// DeleteCustomer refuses to remove a customer while any order or wishlist
// entry still references it. The check runs inside the delete transaction.
func (s *customerService) DeleteCustomer(ctx context.Context, userID, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("customer not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		orders, err := s.customerRepo.CountOrders(txCtx, customerID)
		if err != nil {
			return err
		}
		if orders > 0 {
			return fmt.Errorf("%w: customer has %d order(s)", ErrReferenced, orders)
		}

		wishes, err := s.customerRepo.CountWishlistEntries(txCtx, customerID)
		if err != nil {
			return err
		}
		if wishes > 0 {
			return fmt.Errorf("%w: customer has %d wishlist entr(ies)", ErrReferenced, wishes)
		}

		if err := s.customerRepo.Delete(txCtx, customerID); err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}

		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionDeleteCustomer,
			EntityID:   customer.ID.String(),
			EntityName: customer.Name,
			Details:    `{"deleted": true}`,
		})
	})
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("invalid customer id: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, errors.New("customer not found")
		}
		return CustomerResponse{}, fmt.Errorf("database error: %w", err)
	}

	return mapCustomer(customer), nil
}

func (s *customerService) GetCustomers(ctx context.Context, search string, page, limit int) ([]CustomerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	customers, total, err := s.customerRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		res = append(res, mapCustomer(&customers[i]))
	}
	return res, total, nil
}
