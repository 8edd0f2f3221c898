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

type IssueInvoiceRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Note    string `json:"note"`
}

type InvoiceResponse struct {
	ID          string          `json:"id"`
	InvoiceNo   string          `json:"invoice_no"`
	OrderID     string          `json:"order_id"`
	OrderCode   string          `json:"order_code,omitempty"`
	CustomerID  string          `json:"customer_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"created_at"`
}

type InvoiceService interface {
	IssueForOrder(ctx context.Context, userID string, req IssueInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, status string, page, limit int) ([]InvoiceResponse, int64, error)
	MarkPaid(ctx context.Context, id string) (InvoiceResponse, error)
	Void(ctx context.Context, id string) (InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.OrderRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

func mapInvoice(inv *model.Invoice) InvoiceResponse {
	res := InvoiceResponse{
		ID:          inv.ID.String(),
		InvoiceNo:   inv.InvoiceNo,
		OrderID:     inv.OrderID.String(),
		CustomerID:  inv.CustomerID.String(),
		Subtotal:    inv.Subtotal,
		TotalAmount: inv.TotalAmount,
		Status:      inv.Status,
		Note:        inv.Note,
		CreatedAt:   inv.CreatedAt,
	}
	if inv.Order != nil {
		res.OrderCode = inv.Order.OrderCode
	}
	return res
}

// nextInvoiceNo numbers invoices per year: INV-2026-000001. The count
// is a best-effort sequence; the unique index on invoice_no rejects the
// loser when two issuers race on the same number.
func (s *invoiceService) nextInvoiceNo(ctx context.Context, now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", now.Year())
	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

// IssueForOrder creates the invoice for a delivered order. The amount is
// recomputed from the order's lines at issue time, and an order can carry
// at most one invoice.
func (s *invoiceService) IssueForOrder(ctx context.Context, userID string, req IssueInvoiceRequest) (InvoiceResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid order id: %w", err)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, errors.New("order not found")
		}
		return InvoiceResponse{}, fmt.Errorf("database error: %w", err)
	}
	if order.Status != model.OrderStatusDelivered {
		return InvoiceResponse{}, fmt.Errorf("order %s is %s; only delivered orders can be invoiced", order.OrderCode, order.Status)
	}

	if _, err := s.invoiceRepo.FindByOrderID(ctx, orderID); err == nil {
		return InvoiceResponse{}, fmt.Errorf("order %s already has an invoice", order.OrderCode)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return InvoiceResponse{}, fmt.Errorf("database error: %w", err)
	}

	subtotal := order.Total()

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoiceNo, err := s.nextInvoiceNo(txCtx, time.Now())
		if err != nil {
			return fmt.Errorf("failed to number invoice: %w", err)
		}

		invoice = &model.Invoice{
			InvoiceNo:   invoiceNo,
			OrderID:     order.ID,
			CustomerID:  order.CustomerID,
			Subtotal:    subtotal,
			TotalAmount: subtotal,
			Status:      model.InvoiceStatusIssued,
			IssuedBy:    parseActorID(userID),
			Note:        req.Note,
		}
		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"invoice_no": invoiceNo,
			"order_code": order.OrderCode,
			"total":      subtotal.String(),
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionCreateInvoice,
			EntityID:   invoice.ID.String(),
			EntityName: invoiceNo,
			Details:    string(details),
		})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice.Order = order
	return mapInvoice(invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, errors.New("invoice not found")
		}
		return InvoiceResponse{}, fmt.Errorf("database error: %w", err)
	}
	return mapInvoice(invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, status string, page, limit int) ([]InvoiceResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		res = append(res, mapInvoice(&invoices[i]))
	}
	return res, total, nil
}

func (s *invoiceService) setStatus(ctx context.Context, id, from, to string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, errors.New("invoice not found")
		}
		return InvoiceResponse{}, fmt.Errorf("database error: %w", err)
	}
	if invoice.Status != from {
		return InvoiceResponse{}, fmt.Errorf("invoice %s is %s, expected %s", invoice.InvoiceNo, invoice.Status, from)
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, invoiceID, to); err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to update invoice: %w", err)
	}
	invoice.Status = to
	return mapInvoice(invoice), nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, id string) (InvoiceResponse, error) {
	return s.setStatus(ctx, id, model.InvoiceStatusIssued, model.InvoiceStatusPaid)
}

func (s *invoiceService) Void(ctx context.Context, id string) (InvoiceResponse, error) {
	return s.setStatus(ctx, id, model.InvoiceStatusIssued, model.InvoiceStatusVoided)
}
