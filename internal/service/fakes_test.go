package service

import (
	"context"
	"io"
	"time"

	"supplyflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository stand-ins for service tests. Only the methods the
// tested code paths touch carry real behavior; the rest return zero values.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ string, _, _ int) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

type fakeInventoryRepo struct {
	batches map[string]*model.InventoryBatch
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{batches: map[string]*model.InventoryBatch{}}
}

func batchKey(productID uuid.UUID, batchNumber string) string {
	return productID.String() + "|" + batchNumber
}

func (f *fakeInventoryRepo) CreateBatch(_ context.Context, batch *model.InventoryBatch) error {
	copied := *batch
	f.batches[batchKey(batch.ProductID, batch.BatchNumber)] = &copied
	return nil
}

func (f *fakeInventoryRepo) AddToBatch(_ context.Context, productID uuid.UUID, batchNumber string, quantity int) (bool, error) {
	batch, ok := f.batches[batchKey(productID, batchNumber)]
	if !ok {
		return false, nil
	}
	batch.QuantityReceived += quantity
	return true, nil
}

func (f *fakeInventoryRepo) FindBatch(_ context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	for _, batch := range f.batches {
		if batch.ID == id {
			return batch, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInventoryRepo) BatchAvailability(_ context.Context, _ *uuid.UUID) ([]model.BatchAvailability, error) {
	return nil, nil
}

func (f *fakeInventoryRepo) ProductAvailability(_ context.Context) ([]model.ProductAvailability, error) {
	return nil, nil
}

func (f *fakeInventoryRepo) DeleteGroupAndUnlinkOrders(_ context.Context, _ uuid.UUID, _ string) (int64, error) {
	return 0, gorm.ErrRecordNotFound
}

// received sums the stored quantities for one product across batches.
func (f *fakeInventoryRepo) received(productID uuid.UUID) int {
	total := 0
	for _, batch := range f.batches {
		if batch.ProductID == productID {
			total += batch.QuantityReceived
		}
	}
	return total
}

type fakeReceiptRepo struct {
	receipts map[uuid.UUID]*model.GoodsReceipt
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: map[uuid.UUID]*model.GoodsReceipt{}}
}

func (f *fakeReceiptRepo) Create(_ context.Context, receipt *model.GoodsReceipt) error {
	receipt.ID = uuid.New()
	receipt.CreatedAt = time.Now()
	f.receipts[receipt.ID] = receipt
	return nil
}

func (f *fakeReceiptRepo) CreateItems(_ context.Context, items []model.GoodsReceiptItem) error {
	for i := range items {
		items[i].ID = uuid.New()
	}
	return nil
}

func (f *fakeReceiptRepo) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.GoodsReceipt, error) {
	receipt, ok := f.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return receipt, nil
}

func (f *fakeReceiptRepo) FindDraftByPurchaseOrder(_ context.Context, purchaseOrderID uuid.UUID) (*model.GoodsReceipt, error) {
	for _, receipt := range f.receipts {
		if receipt.PurchaseOrderID == purchaseOrderID && receipt.Status == model.ReceiptStatusDraft {
			return receipt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ReplaceItems assigns fresh IDs like the database RETURNING clause does.
func (f *fakeReceiptRepo) ReplaceItems(_ context.Context, receiptID uuid.UUID, items []model.GoodsReceiptItem) error {
	for i := range items {
		items[i].ID = uuid.New()
	}
	if receipt, ok := f.receipts[receiptID]; ok {
		receipt.Items = items
	}
	return nil
}

func (f *fakeReceiptRepo) Finalize(_ context.Context, id uuid.UUID) error {
	if receipt, ok := f.receipts[id]; ok {
		receipt.Status = model.ReceiptStatusFinal
	}
	return nil
}

func (f *fakeReceiptRepo) List(_ context.Context, _ string, _, _ int) ([]model.GoodsReceipt, int64, error) {
	return nil, 0, nil
}

type fakePurchaseRepo struct {
	order      *model.PurchaseOrder
	receivedAt *time.Time
}

func (f *fakePurchaseRepo) Create(_ context.Context, _ *model.PurchaseOrder) error { return nil }

func (f *fakePurchaseRepo) CreateItems(_ context.Context, _ []model.PurchaseOrderItem) error {
	return nil
}

func (f *fakePurchaseRepo) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	if f.order != nil && f.order.ID == id {
		return f.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePurchaseRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status string) error {
	f.order.Status = status
	return nil
}

func (f *fakePurchaseRepo) SetReceived(_ context.Context, _ uuid.UUID, at time.Time) error {
	f.order.Status = model.PurchaseStatusReceived
	f.receivedAt = &at
	return nil
}

func (f *fakePurchaseRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakePurchaseRepo) List(_ context.Context, _ string, _ *uuid.UUID, _, _ int) ([]model.PurchaseOrder, int64, error) {
	return nil, 0, nil
}

type fakeOrderRepo struct {
	order *model.CustomerOrder
}

func (f *fakeOrderRepo) Create(_ context.Context, _ *model.CustomerOrder) error { return nil }

func (f *fakeOrderRepo) CreateItems(_ context.Context, _ []model.CustomerOrderItem) error {
	return nil
}

func (f *fakeOrderRepo) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.CustomerOrder, error) {
	if f.order != nil && f.order.ID == id {
		return f.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status string) error {
	f.order.Status = status
	return nil
}

func (f *fakeOrderRepo) SetDelivered(_ context.Context, _ uuid.UUID, photoURL string, at time.Time) error {
	f.order.Status = model.OrderStatusDelivered
	f.order.DeliveryPhotoURL = photoURL
	f.order.DeliveredAt = &at
	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }
func (f *fakeOrderRepo) DeleteItems(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeOrderRepo) List(_ context.Context, _ string, _ *uuid.UUID, _, _ int) ([]model.CustomerOrder, int64, error) {
	return nil, 0, nil
}

type fakeCustomerRepo struct {
	customer *model.Customer
	orders   int64
	wishes   int64
	deleted  bool
}

func (f *fakeCustomerRepo) Create(_ context.Context, _ *model.Customer) error { return nil }
func (f *fakeCustomerRepo) Update(_ context.Context, _ *model.Customer) error { return nil }

func (f *fakeCustomerRepo) Delete(_ context.Context, _ uuid.UUID) error {
	f.deleted = true
	return nil
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	if f.customer != nil && f.customer.ID == id {
		return f.customer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) List(_ context.Context, _ string, _, _ int) ([]model.Customer, int64, error) {
	return nil, 0, nil
}

func (f *fakeCustomerRepo) CountOrders(_ context.Context, _ uuid.UUID) (int64, error) {
	return f.orders, nil
}

func (f *fakeCustomerRepo) CountWishlistEntries(_ context.Context, _ uuid.UUID) (int64, error) {
	return f.wishes, nil
}

type fakePhotoStorage struct {
	saved   []string
	removed []string
}

func (f *fakePhotoStorage) Save(orderID, _ string, r io.Reader) (string, error) {
	_, _ = io.ReadAll(r)
	url := "/uploads/" + orderID + ".jpg"
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakePhotoStorage) Remove(url string) {
	f.removed = append(f.removed, url)
}
