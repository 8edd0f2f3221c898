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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type PurchaseItemRequest struct {
	ProductID    string          `json:"product_id" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" binding:"required"`
}

type CreatePurchaseRequest struct {
	OrderCode    string                `json:"order_code" binding:"required"`
	SupplierID   string                `json:"supplier_id" binding:"required"`
	ExpectedDate *time.Time            `json:"expected_date"`
	Comment      string                `json:"comment"`
	Items        []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

type PurchaseItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

type PurchaseResponse struct {
	ID           string                 `json:"id"`
	OrderCode    string                 `json:"order_code"`
	SupplierID   string                 `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name"`
	Status       string                 `json:"status"`
	ExpectedDate *time.Time             `json:"expected_date,omitempty"`
	ReceivedAt   *time.Time             `json:"received_at,omitempty"`
	Comment      string                 `json:"comment"`
	Total        decimal.Decimal        `json:"total"`
	Items        []PurchaseItemResponse `json:"items"`
	CreatedAt    time.Time              `json:"created_at"`
}

// PurchaseService is the single purchase order creation and lifecycle
// path; receipt finalization lives in ReceiptService.
type PurchaseService interface {
	CreatePurchase(ctx context.Context, userID string, req CreatePurchaseRequest) (PurchaseResponse, error)
	GetPurchase(ctx context.Context, id string) (PurchaseResponse, error)
	ListPurchases(ctx context.Context, status, supplierID string, page, limit int) ([]PurchaseResponse, int64, error)
	Transition(ctx context.Context, userID, id, to string) (PurchaseResponse, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	receipts     ReceiptService
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	receipts ReceiptService,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		receipts:     receipts,
	}
}

func mapPurchase(p *model.PurchaseOrder) PurchaseResponse {
	items := make([]PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		res := PurchaseItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
		}
		if item.Product != nil {
			res.ProductTitle = item.Product.Title
		}
		items = append(items, res)
	}

	res := PurchaseResponse{
		ID:           p.ID.String(),
		OrderCode:    p.OrderCode,
		SupplierID:   p.SupplierID.String(),
		Status:       p.Status,
		ExpectedDate: p.ExpectedDate,
		ReceivedAt:   p.ReceivedAt,
		Comment:      p.Comment,
		Total:        p.Total(),
		Items:        items,
		CreatedAt:    p.CreatedAt,
	}
	if p.Supplier != nil {
		res.SupplierName = p.Supplier.Name
	}
	return res
}

func (s *purchaseService) CreatePurchase(ctx context.Context, userID string, req CreatePurchaseRequest) (PurchaseResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("invalid supplier_id: %w", err)
	}

	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseResponse{}, errors.New("supplier not found")
		}
		return PurchaseResponse{}, fmt.Errorf("database error: %w", err)
	}

	order := model.PurchaseOrder{
		OrderCode:    req.OrderCode,
		SupplierID:   supplierID,
		Status:       model.PurchaseStatusPending,
		ExpectedDate: req.ExpectedDate,
		Comment:      req.Comment,
		CreatedBy:    parseActorID(userID),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		items := make([]model.PurchaseOrderItem, 0, len(req.Items))
		for i, itemReq := range req.Items {
			pid, parseErr := uuid.Parse(itemReq.ProductID)
			if parseErr != nil {
				return fmt.Errorf("items[%d]: invalid product_id: %w", i, parseErr)
			}
			if _, err := s.productRepo.FindByID(txCtx, pid); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("items[%d]: product not found", i)
				}
				return fmt.Errorf("items[%d]: %w", i, err)
			}
			if itemReq.PricePerUnit.IsNegative() {
				return fmt.Errorf("items[%d]: price must not be negative", i)
			}
			items = append(items, model.PurchaseOrderItem{
				ProductID:    pid,
				Quantity:     itemReq.Quantity,
				PricePerUnit: itemReq.PricePerUnit,
			})
		}

		if err := s.purchaseRepo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}
		for i := range items {
			items[i].PurchaseOrderID = order.ID
		}
		if err := s.purchaseRepo.CreateItems(txCtx, items); err != nil {
			return fmt.Errorf("failed to create purchase order items: %w", err)
		}

		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionCreatePurchaseOrder,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    string(details),
		})
	})
	if err != nil {
		return PurchaseResponse{}, err
	}

	created, err := s.purchaseRepo.FindByIDWithItems(ctx, order.ID)
	if err != nil {
		return PurchaseResponse{}, err
	}
	return mapPurchase(created), nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, id string) (PurchaseResponse, error) {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("invalid purchase order id: %w", err)
	}

	order, err := s.purchaseRepo.FindByIDWithItems(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseResponse{}, errors.New("purchase order not found")
		}
		return PurchaseResponse{}, fmt.Errorf("database error: %w", err)
	}
	return mapPurchase(order), nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, status, supplierID string, page, limit int) ([]PurchaseResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if status != "" && !model.ValidPurchaseStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q", status)
	}

	var sid *uuid.UUID
	if supplierID != "" {
		parsed, err := uuid.Parse(supplierID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid supplier_id: %w", err)
		}
		sid = &parsed
	}

	orders, total, err := s.purchaseRepo.List(ctx, status, sid, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PurchaseResponse, 0, len(orders))
	for i := range orders {
		res = append(res, mapPurchase(&orders[i]))
	}
	return res, total, nil
}

// Transition moves a purchase order along its lifecycle. Moving into
// received delegates to the receipt service, which receives every line
// with defaults (synthesized batch number, one-year expiry) and adjusts
// inventory for all of them.
func (s *purchaseService) Transition(ctx context.Context, userID, id, to string) (PurchaseResponse, error) {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseResponse{}, fmt.Errorf("invalid purchase order id: %w", err)
	}
	if !model.ValidPurchaseStatus(to) {
		return PurchaseResponse{}, fmt.Errorf("unknown status %q", to)
	}

	order, err := s.purchaseRepo.FindByIDWithItems(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseResponse{}, errors.New("purchase order not found")
		}
		return PurchaseResponse{}, fmt.Errorf("database error: %w", err)
	}

	if !model.CanTransitionPurchase(order.Status, to) {
		return PurchaseResponse{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, order.Status, to)
	}

	if to == model.PurchaseStatusReceived {
		if err := s.receipts.ReceiveWithDefaults(ctx, userID, order); err != nil {
			return PurchaseResponse{}, err
		}
	} else {
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.purchaseRepo.UpdateStatus(txCtx, purchaseID, to); err != nil {
				return fmt.Errorf("failed to update status: %w", err)
			}

			details, _ := json.Marshal(map[string]string{"from": order.Status, "to": to})
			return s.auditRepo.Log(txCtx, &model.AuditLog{
				UserID:     parseActorID(userID),
				Action:     model.ActionUpdatePurchaseOrder,
				EntityID:   order.ID.String(),
				EntityName: order.OrderCode,
				Details:    string(details),
			})
		})
		if err != nil {
			return PurchaseResponse{}, err
		}
	}

	updated, err := s.purchaseRepo.FindByIDWithItems(ctx, purchaseID)
	if err != nil {
		return PurchaseResponse{}, err
	}
	return mapPurchase(updated), nil
}
