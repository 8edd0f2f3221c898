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

// --- DTOs ---

type ReceiveLineRequest struct {
	PurchaseOrderItemID string `json:"purchase_order_item_id" binding:"required"`
	Confirmed           bool   `json:"confirmed"`
	// QuantityReceived is the operator-entered actual quantity. Absent
	// means "as ordered"; an explicit 0 means nothing arrived for the
	// line and is stored as 0.
	QuantityReceived *int       `json:"quantity_received"`
	BatchNumber      string     `json:"batch_number"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	Note             string     `json:"note"`
}

type ReceiveRequest struct {
	PurchaseOrderID string               `json:"purchase_order_id" binding:"required"`
	Mode            string               `json:"mode" binding:"required,oneof=draft final"`
	Note            string               `json:"note"`
	Lines           []ReceiveLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type ReceiptItemResponse struct {
	ID                  string     `json:"id"`
	PurchaseOrderItemID string     `json:"purchase_order_item_id"`
	ProductID           string     `json:"product_id"`
	BatchNumber         string     `json:"batch_number"`
	ExpiryDate          *time.Time `json:"expiry_date"`
	QuantityReceived    int        `json:"quantity_received"`
	Note                string     `json:"note"`
	Confirmed           bool       `json:"confirmed"`
}

type ReceiptResponse struct {
	ID              string                `json:"id"`
	PurchaseOrderID string                `json:"purchase_order_id"`
	Status          string                `json:"status"`
	Note            string                `json:"note"`
	Items           []ReceiptItemResponse `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
}

type ReceiptService interface {
	SaveReceipt(ctx context.Context, userID string, req ReceiveRequest) (ReceiptResponse, error)
	GetReceipt(ctx context.Context, id string) (ReceiptResponse, error)
	ListReceipts(ctx context.Context, status string, page, limit int) ([]ReceiptResponse, int64, error)
	// ReceiveWithDefaults finalizes a purchase order without operator
	// input: every line confirmed at ordered quantity, synthesized batch
	// number, one-year expiry.
	ReceiveWithDefaults(ctx context.Context, userID string, order *model.PurchaseOrder) error
}

type receiptService struct {
	receiptRepo   repository.ReceiptRepository
	purchaseRepo  repository.PurchaseRepository
	inventoryRepo repository.InventoryRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
}

func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	purchaseRepo repository.PurchaseRepository,
	inventoryRepo repository.InventoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ReceiptService {
	return &receiptService{
		receiptRepo:   receiptRepo,
		purchaseRepo:  purchaseRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
	}
}

func mapReceipt(r *model.GoodsReceipt) ReceiptResponse {
	items := make([]ReceiptItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ReceiptItemResponse{
			ID:                  item.ID.String(),
			PurchaseOrderItemID: item.PurchaseOrderItemID.String(),
			ProductID:           item.ProductID.String(),
			BatchNumber:         item.BatchNumber,
			ExpiryDate:          item.ExpiryDate,
			QuantityReceived:    item.QuantityReceived,
			Note:                item.Note,
			Confirmed:           item.Confirmed,
		})
	}
	return ReceiptResponse{
		ID:              r.ID.String(),
		PurchaseOrderID: r.PurchaseOrderID.String(),
		Status:          r.Status,
		Note:            r.Note,
		Items:           items,
		CreatedAt:       r.CreatedAt,
	}
}

// synthesizeBatchNumber builds the default batch label for a purchase line.
func synthesizeBatchNumber(orderCode string, lineNo int) string {
	return fmt.Sprintf("B-%s-%d", orderCode, lineNo)
}

// validateReceiveLines checks the receiving form rules against the
// purchase order's lines:
//   - every submitted line must belong to the order, each at most once;
//   - finalizing requires every order line present and confirmed;
//   - a confirmed line must carry an expiry date;
//   - a note is required whenever the operator changed the quantity or
//     the batch number away from the defaults.
//
// These checks always run server-side; the form's own gating is advisory.
func validateReceiveLines(order *model.PurchaseOrder, lines []ReceiveLineRequest, final bool) error {
	byID := make(map[string]*model.PurchaseOrderItem, len(order.Items))
	lineNo := make(map[string]int, len(order.Items))
	for i := range order.Items {
		id := order.Items[i].ID.String()
		byID[id] = &order.Items[i]
		lineNo[id] = i + 1
	}

	seen := make(map[string]bool, len(lines))
	for i, line := range lines {
		item, ok := byID[line.PurchaseOrderItemID]
		if !ok {
			return fmt.Errorf("lines[%d]: item does not belong to purchase order %s", i, order.OrderCode)
		}
		if seen[line.PurchaseOrderItemID] {
			return fmt.Errorf("lines[%d]: duplicate purchase order item", i)
		}
		seen[line.PurchaseOrderItemID] = true

		if line.QuantityReceived != nil && *line.QuantityReceived < 0 {
			return fmt.Errorf("lines[%d]: quantity must not be negative", i)
		}

		if line.Confirmed {
			if line.ExpiryDate == nil {
				return fmt.Errorf("lines[%d]: expiry date is required to confirm a line", i)
			}

			defBatch := synthesizeBatchNumber(order.OrderCode, lineNo[line.PurchaseOrderItemID])
			changed := (line.QuantityReceived != nil && *line.QuantityReceived != item.Quantity) ||
				(line.BatchNumber != "" && line.BatchNumber != defBatch)
			if changed && line.Note == "" {
				return fmt.Errorf("lines[%d]: a note is required when quantity or batch differ from the order line", i)
			}
		}
	}

	if final {
		for id, item := range byID {
			if !seen[id] {
				return fmt.Errorf("line for product %s is missing; every line must be confirmed to finalize",
					item.ProductID)
			}
		}
		for i, line := range lines {
			if !line.Confirmed {
				return fmt.Errorf("lines[%d]: unconfirmed; every line must be confirmed to finalize", i)
			}
		}
	}

	return nil
}

func (s *receiptService) buildItems(order *model.PurchaseOrder, lines []ReceiveLineRequest) []model.GoodsReceiptItem {
	lineNo := make(map[string]int, len(order.Items))
	productOf := make(map[string]uuid.UUID, len(order.Items))
	qtyOf := make(map[string]int, len(order.Items))
	for i, item := range order.Items {
		id := item.ID.String()
		lineNo[id] = i + 1
		productOf[id] = item.ProductID
		qtyOf[id] = item.Quantity
	}

	items := make([]model.GoodsReceiptItem, 0, len(lines))
	for _, line := range lines {
		itemID, _ := uuid.Parse(line.PurchaseOrderItemID)

		batch := line.BatchNumber
		if batch == "" {
			batch = synthesizeBatchNumber(order.OrderCode, lineNo[line.PurchaseOrderItemID])
		}
		qty := qtyOf[line.PurchaseOrderItemID]
		if line.QuantityReceived != nil {
			qty = *line.QuantityReceived
		}

		items = append(items, model.GoodsReceiptItem{
			PurchaseOrderItemID: itemID,
			ProductID:           productOf[line.PurchaseOrderItemID],
			BatchNumber:         batch,
			ExpiryDate:          line.ExpiryDate,
			QuantityReceived:    qty,
			Note:                line.Note,
			Confirmed:           line.Confirmed,
		})
	}
	return items
}

// SaveReceipt persists the receiving form. Draft mode stores operator
// input without side effects; final mode validates, writes the receipt,
// bumps inventory for every line and marks the purchase order received.
func (s *receiptService) SaveReceipt(ctx context.Context, userID string, req ReceiveRequest) (ReceiptResponse, error) {
	purchaseID, err := uuid.Parse(req.PurchaseOrderID)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("invalid purchase_order_id: %w", err)
	}

	order, err := s.purchaseRepo.FindByIDWithItems(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReceiptResponse{}, errors.New("purchase order not found")
		}
		return ReceiptResponse{}, fmt.Errorf("database error: %w", err)
	}

	final := req.Mode == "final"
	if final && !model.CanTransitionPurchase(order.Status, model.PurchaseStatusReceived) {
		return ReceiptResponse{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, order.Status, model.PurchaseStatusReceived)
	}
	if order.Status == model.PurchaseStatusReceived || order.Status == model.PurchaseStatusCancelled {
		return ReceiptResponse{}, fmt.Errorf("purchase order is already %s", order.Status)
	}

	if err := validateReceiveLines(order, req.Lines, final); err != nil {
		return ReceiptResponse{}, err
	}

	var receiptID uuid.UUID
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		receipt, err := s.receiptRepo.FindDraftByPurchaseOrder(txCtx, purchaseID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			receipt = &model.GoodsReceipt{
				PurchaseOrderID: purchaseID,
				Status:          model.ReceiptStatusDraft,
				Note:            req.Note,
				CreatedBy:       parseActorID(userID),
			}
			if err := s.receiptRepo.Create(txCtx, receipt); err != nil {
				return fmt.Errorf("failed to create receipt: %w", err)
			}
		}
		receiptID = receipt.ID

		items := s.buildItems(order, req.Lines)
		for i := range items {
			items[i].ReceiptID = receipt.ID
		}
		if err := s.receiptRepo.ReplaceItems(txCtx, receipt.ID, items); err != nil {
			return fmt.Errorf("failed to store receipt items: %w", err)
		}

		if !final {
			return nil
		}

		if err := s.receiptRepo.Finalize(txCtx, receipt.ID); err != nil {
			return fmt.Errorf("failed to finalize receipt: %w", err)
		}
		if err := s.applyToInventory(txCtx, items); err != nil {
			return err
		}
		if err := s.purchaseRepo.SetReceived(txCtx, purchaseID, time.Now()); err != nil {
			return fmt.Errorf("failed to mark purchase order received: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"receipt_id": receipt.ID.String(),
			"lines":      len(items),
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionFinalizeReceipt,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    string(details),
		})
	})
	if err != nil {
		return ReceiptResponse{}, err
	}

	saved, err := s.receiptRepo.FindByIDWithItems(ctx, receiptID)
	if err != nil {
		return ReceiptResponse{}, err
	}
	return mapReceipt(saved), nil
}

// applyToInventory bumps the batch rows for every received line. Each
// line's product gets its quantity: a multi-line receipt adjusts all of
// its products, not just the first.
func (s *receiptService) applyToInventory(ctx context.Context, items []model.GoodsReceiptItem) error {
	for i := range items {
		item := &items[i]
		updated, err := s.inventoryRepo.AddToBatch(ctx, item.ProductID, item.BatchNumber, item.QuantityReceived)
		if err != nil {
			return fmt.Errorf("failed to adjust inventory for product %s: %w", item.ProductID, err)
		}
		if updated {
			continue
		}
		batch := &model.InventoryBatch{
			ProductID:        item.ProductID,
			BatchNumber:      item.BatchNumber,
			ExpiryDate:       item.ExpiryDate,
			QuantityReceived: item.QuantityReceived,
			ReceiptItemID:    &item.ID,
		}
		if err := s.inventoryRepo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to create inventory batch for product %s: %w", item.ProductID, err)
		}
	}
	return nil
}

func (s *receiptService) ReceiveWithDefaults(ctx context.Context, userID string, order *model.PurchaseOrder) error {
	expiry := time.Now().Add(model.DefaultExpiryPeriod)

	lines := make([]ReceiveLineRequest, 0, len(order.Items))
	for i, item := range order.Items {
		qty := item.Quantity
		lines = append(lines, ReceiveLineRequest{
			PurchaseOrderItemID: item.ID.String(),
			Confirmed:           true,
			QuantityReceived:    &qty,
			BatchNumber:         synthesizeBatchNumber(order.OrderCode, i+1),
			ExpiryDate:          &expiry,
		})
	}

	_, err := s.SaveReceipt(ctx, userID, ReceiveRequest{
		PurchaseOrderID: order.ID.String(),
		Mode:            "final",
		Lines:           lines,
	})
	return err
}

func (s *receiptService) GetReceipt(ctx context.Context, id string) (ReceiptResponse, error) {
	receiptID, err := uuid.Parse(id)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("invalid receipt id: %w", err)
	}

	receipt, err := s.receiptRepo.FindByIDWithItems(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReceiptResponse{}, errors.New("receipt not found")
		}
		return ReceiptResponse{}, fmt.Errorf("database error: %w", err)
	}
	return mapReceipt(receipt), nil
}

func (s *receiptService) ListReceipts(ctx context.Context, status string, page, limit int) ([]ReceiptResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	receipts, total, err := s.receiptRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		res = append(res, mapReceipt(&receipts[i]))
	}
	return res, total, nil
}
