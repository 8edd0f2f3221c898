package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"supplyflow/internal/model"
	"supplyflow/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Supplier DTOs ---

type CreateSupplierRequest struct {
	Name         string `json:"name" binding:"required"`
	TIN          string `json:"tin"`
	KPP          string `json:"kpp"`
	Address      string `json:"address"`
	PaymentTerms string `json:"payment_terms"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Comment      string `json:"comment"`
}

type UpdateSupplierRequest struct {
	Name         *string `json:"name"`
	TIN          *string `json:"tin"`
	KPP          *string `json:"kpp"`
	Address      *string `json:"address"`
	PaymentTerms *string `json:"payment_terms"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Comment      *string `json:"comment"`
}

type SupplierResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TIN          string    `json:"tin"`
	KPP          string    `json:"kpp"`
	Address      string    `json:"address"`
	PaymentTerms string    `json:"payment_terms"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SupplierService interface {
	CreateSupplier(ctx context.Context, userID string, req CreateSupplierRequest) (SupplierResponse, error)
	UpdateSupplier(ctx context.Context, id string, req UpdateSupplierRequest) (SupplierResponse, error)
	DeleteSupplier(ctx context.Context, userID, id string) error
	GetSupplier(ctx context.Context, id string) (SupplierResponse, error)
	GetSuppliers(ctx context.Context, search string, page, limit int) ([]SupplierResponse, int64, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewSupplierService(supplierRepo repository.SupplierRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) SupplierService {
	return &supplierService{supplierRepo: supplierRepo, auditRepo: auditRepo, txManager: txManager}
}

func mapSupplier(sup *model.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           sup.ID,
		Name:         sup.Name,
		TIN:          sup.TIN,
		KPP:          sup.KPP,
		Address:      sup.Address,
		PaymentTerms: sup.PaymentTerms,
		Phone:        sup.Phone,
		Email:        sup.Email,
		Comment:      sup.Comment,
		CreatedAt:    sup.CreatedAt,
		UpdatedAt:    sup.UpdatedAt,
	}
}

func (s *supplierService) CreateSupplier(ctx context.Context, userID string, req CreateSupplierRequest) (SupplierResponse, error) {
	supplier := model.Supplier{
		Name:         req.Name,
		TIN:          req.TIN,
		KPP:          req.KPP,
		Address:      req.Address,
		PaymentTerms: req.PaymentTerms,
		Phone:        req.Phone,
		Email:        req.Email,
		Comment:      req.Comment,
		CreatedBy:    parseActorID(userID),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.supplierRepo.Create(txCtx, &supplier); err != nil {
			return fmt.Errorf("failed to create supplier: %w", err)
		}

		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionCreateSupplier,
			EntityID:   supplier.ID.String(),
			EntityName: supplier.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return SupplierResponse{}, err
	}

	return mapSupplier(&supplier), nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id string, req UpdateSupplierRequest) (SupplierResponse, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return SupplierResponse{}, fmt.Errorf("invalid supplier id: %w", err)
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SupplierResponse{}, errors.New("supplier not found")
		}
		return SupplierResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.TIN != nil {
		supplier.TIN = *req.TIN
	}
	if req.KPP != nil {
		supplier.KPP = *req.KPP
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Comment != nil {
		supplier.Comment = *req.Comment
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return SupplierResponse{}, fmt.Errorf("failed to update supplier: %w", err)
	}

	return mapSupplier(supplier), nil
}

// DeleteSupplier rejects deletion while any purchase order references the
// supplier.
func (s *supplierService) DeleteSupplier(ctx context.Context, userID, id string) error {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid supplier id: %w", err)
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("supplier not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		count, err := s.supplierRepo.CountPurchaseOrders(txCtx, supplierID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: supplier has %d purchase order(s)", ErrReferenced, count)
		}

		if err := s.supplierRepo.Delete(txCtx, supplierID); err != nil {
			return fmt.Errorf("failed to delete supplier: %w", err)
		}

		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionDeleteSupplier,
			EntityID:   supplier.ID.String(),
			EntityName: supplier.Name,
			Details:    `{"deleted": true}`,
		})
	})
}

func (s *supplierService) GetSupplier(ctx context.Context, id string) (SupplierResponse, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return SupplierResponse{}, fmt.Errorf("invalid supplier id: %w", err)
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SupplierResponse{}, errors.New("supplier not found")
		}
		return SupplierResponse{}, fmt.Errorf("database error: %w", err)
	}

	return mapSupplier(supplier), nil
}

func (s *supplierService) GetSuppliers(ctx context.Context, search string, page, limit int) ([]SupplierResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	suppliers, total, err := s.supplierRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		res = append(res, mapSupplier(&suppliers[i]))
	}
	return res, total, nil
}
