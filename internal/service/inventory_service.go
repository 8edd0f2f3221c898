package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"supplyflow/internal/model"
	"supplyflow/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	ListBatchAvailability(ctx context.Context, productID string) ([]model.BatchAvailability, error)
	ListProductAvailability(ctx context.Context) ([]model.ProductAvailability, error)
	DeleteGroup(ctx context.Context, userID, productID, batchNumber string) (int64, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
	}
}

// ListBatchAvailability returns per-batch stock with reservations applied.
// An empty productID lists every batch.
func (s *inventoryService) ListBatchAvailability(ctx context.Context, productID string) ([]model.BatchAvailability, error) {
	var pid *uuid.UUID
	if productID != "" {
		parsed, err := uuid.Parse(productID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id: %w", err)
		}
		pid = &parsed
	}
	return s.inventoryRepo.BatchAvailability(ctx, pid)
}

func (s *inventoryService) ListProductAvailability(ctx context.Context) ([]model.ProductAvailability, error) {
	return s.inventoryRepo.ProductAvailability(ctx)
}

// DeleteGroup removes the (product, batch number) group from inventory.
// Order lines pointing at the removed batches keep their quantity and price
// but lose the batch link; the number of unlinked lines is returned so the
// caller can surface it.
func (s *inventoryService) DeleteGroup(ctx context.Context, userID, productID, batchNumber string) (int64, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return 0, fmt.Errorf("invalid product id: %w", err)
	}
	if batchNumber == "" {
		return 0, errors.New("batch_number is required")
	}

	var unlinked int64
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.inventoryRepo.DeleteGroupAndUnlinkOrders(txCtx, pid, batchNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("inventory group not found")
			}
			return fmt.Errorf("failed to delete inventory group: %w", err)
		}
		unlinked = n

		details, _ := json.Marshal(map[string]interface{}{
			"batch_number":         batchNumber,
			"unlinked_order_lines": n,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionDeleteInventoryGroup,
			EntityID:   productID,
			EntityName: batchNumber,
			Details:    string(details),
		})
	})
	if err != nil {
		return 0, err
	}
	return unlinked, nil
}
