package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"supplyflow/internal/model"

	"github.com/google/uuid"
)

func testPurchaseOrder() *model.PurchaseOrder {
	return &model.PurchaseOrder{
		ID:        uuid.New(),
		OrderCode: "PO-2026-001",
		Status:    model.PurchaseStatusInTransit,
		Items: []model.PurchaseOrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 10},
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 5},
		},
	}
}

func intp(v int) *int { return &v }

func confirmedLines(order *model.PurchaseOrder) []ReceiveLineRequest {
	expiry := time.Now().Add(30 * 24 * time.Hour)
	lines := make([]ReceiveLineRequest, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, ReceiveLineRequest{
			PurchaseOrderItemID: item.ID.String(),
			Confirmed:           true,
			QuantityReceived:    intp(item.Quantity),
			ExpiryDate:          &expiry,
		})
	}
	return lines
}

func TestValidateReceiveLinesFinalOK(t *testing.T) {
	order := testPurchaseOrder()
	if err := validateReceiveLines(order, confirmedLines(order), true); err != nil {
		t.Fatalf("expected valid final form, got %v", err)
	}
}

func TestValidateReceiveLinesFinalRequiresAllLines(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)[:1]
	if err := validateReceiveLines(order, lines, true); err == nil {
		t.Fatal("expected error when a purchase line is missing")
	}
}

func TestValidateReceiveLinesFinalRequiresConfirmation(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[1].Confirmed = false
	if err := validateReceiveLines(order, lines, true); err == nil {
		t.Fatal("expected error for unconfirmed line in final mode")
	}
}

func TestValidateReceiveLinesFinalRequiresExpiry(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[0].ExpiryDate = nil
	err := validateReceiveLines(order, lines, true)
	if err == nil {
		t.Fatal("expected error for confirmed line without expiry")
	}
	if !strings.Contains(err.Error(), "expiry") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateReceiveLinesDraftConfirmedRequiresExpiry(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[0].ExpiryDate = nil
	if err := validateReceiveLines(order, lines, false); err == nil {
		t.Fatal("expected error for confirmed draft line without expiry")
	}
}

func TestValidateReceiveLinesChangedQuantityNeedsNote(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[0].QuantityReceived = intp(8) // ordered 10

	if err := validateReceiveLines(order, lines, true); err == nil {
		t.Fatal("expected error for changed quantity without note")
	}

	lines[0].Note = "two cartons damaged in transit"
	if err := validateReceiveLines(order, lines, true); err != nil {
		t.Fatalf("note should satisfy the change rule, got %v", err)
	}
}

func TestValidateReceiveLinesChangedBatchNeedsNote(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[1].BatchNumber = "SUPPLIER-LOT-77"

	if err := validateReceiveLines(order, lines, true); err == nil {
		t.Fatal("expected error for changed batch number without note")
	}

	// The synthesized default batch number does not count as a change.
	lines[1].BatchNumber = synthesizeBatchNumber(order.OrderCode, 2)
	if err := validateReceiveLines(order, lines, true); err != nil {
		t.Fatalf("default batch number should not require a note, got %v", err)
	}
}

func TestValidateReceiveLinesDraftAllowsPartialInput(t *testing.T) {
	order := testPurchaseOrder()
	lines := []ReceiveLineRequest{
		{PurchaseOrderItemID: order.Items[0].ID.String(), Confirmed: false, QuantityReceived: intp(10)},
	}
	if err := validateReceiveLines(order, lines, false); err != nil {
		t.Fatalf("draft should accept partial unconfirmed input, got %v", err)
	}
}

func TestValidateReceiveLinesRejectsForeignItem(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[0].PurchaseOrderItemID = uuid.NewString()
	if err := validateReceiveLines(order, lines, true); err == nil {
		t.Fatal("expected error for line not belonging to the order")
	}
}

func TestValidateReceiveLinesRejectsDuplicates(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[1].PurchaseOrderItemID = lines[0].PurchaseOrderItemID
	if err := validateReceiveLines(order, lines, true); err == nil {
		t.Fatal("expected error for duplicate line")
	}
}

func TestValidateReceiveLinesRejectsNegativeQuantity(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[0].QuantityReceived = intp(-1)
	if err := validateReceiveLines(order, lines, false); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestSynthesizeBatchNumber(t *testing.T) {
	if got := synthesizeBatchNumber("PO-2026-001", 3); got != "B-PO-2026-001-3" {
		t.Errorf("synthesizeBatchNumber = %q", got)
	}
}

func TestBuildItemsAppliesDefaults(t *testing.T) {
	order := testPurchaseOrder()
	s := &receiptService{}

	lines := []ReceiveLineRequest{
		{PurchaseOrderItemID: order.Items[0].ID.String(), Confirmed: true},
		{PurchaseOrderItemID: order.Items[1].ID.String(), Confirmed: true, QuantityReceived: intp(3), BatchNumber: "LOT-9"},
	}
	items := s.buildItems(order, lines)

	if items[0].BatchNumber != synthesizeBatchNumber(order.OrderCode, 1) {
		t.Errorf("expected synthesized batch, got %q", items[0].BatchNumber)
	}
	if items[0].QuantityReceived != 10 {
		t.Errorf("expected ordered quantity as default, got %d", items[0].QuantityReceived)
	}
	if items[0].ProductID != order.Items[0].ProductID {
		t.Error("product id not carried from the purchase line")
	}

	if items[1].BatchNumber != "LOT-9" {
		t.Errorf("operator batch overridden: %q", items[1].BatchNumber)
	}
	if items[1].QuantityReceived != 3 {
		t.Errorf("operator quantity overridden: %d", items[1].QuantityReceived)
	}
}

func newTestReceiptService(order *model.PurchaseOrder) (*receiptService, *fakeInventoryRepo, *fakePurchaseRepo, *fakeAuditRepo) {
	inventoryRepo := newFakeInventoryRepo()
	purchaseRepo := &fakePurchaseRepo{order: order}
	audit := &fakeAuditRepo{}
	s := &receiptService{
		receiptRepo:   newFakeReceiptRepo(),
		purchaseRepo:  purchaseRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     audit,
		txManager:     fakeTxManager{},
	}
	return s, inventoryRepo, purchaseRepo, audit
}

func TestSaveReceiptFinalAppliesEveryLine(t *testing.T) {
	order := testPurchaseOrder()
	s, inventoryRepo, purchaseRepo, audit := newTestReceiptService(order)

	res, err := s.SaveReceipt(context.Background(), uuid.NewString(), ReceiveRequest{
		PurchaseOrderID: order.ID.String(),
		Mode:            "final",
		Lines:           confirmedLines(order),
	})
	if err != nil {
		t.Fatalf("SaveReceipt: %v", err)
	}

	for i, item := range order.Items {
		if got := inventoryRepo.received(item.ProductID); got != item.Quantity {
			t.Errorf("line %d: inventory received %d, want %d", i+1, got, item.Quantity)
		}
	}
	if order.Status != model.PurchaseStatusReceived {
		t.Errorf("purchase order status = %q, want received", order.Status)
	}
	if purchaseRepo.receivedAt == nil {
		t.Error("received timestamp not set")
	}
	if res.Status != model.ReceiptStatusFinal {
		t.Errorf("receipt status = %q, want final", res.Status)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionFinalizeReceipt {
		t.Errorf("expected one finalize audit entry, got %+v", audit.entries)
	}
}

func TestSaveReceiptFinalZeroLineAddsNothing(t *testing.T) {
	order := testPurchaseOrder()
	s, inventoryRepo, _, _ := newTestReceiptService(order)

	lines := confirmedLines(order)
	lines[0].QuantityReceived = intp(0)
	lines[0].Note = "pallet rejected at the dock"

	if _, err := s.SaveReceipt(context.Background(), uuid.NewString(), ReceiveRequest{
		PurchaseOrderID: order.ID.String(),
		Mode:            "final",
		Lines:           lines,
	}); err != nil {
		t.Fatalf("SaveReceipt: %v", err)
	}

	if got := inventoryRepo.received(order.Items[0].ProductID); got != 0 {
		t.Errorf("rejected line added %d to inventory, want 0", got)
	}
	if got := inventoryRepo.received(order.Items[1].ProductID); got != order.Items[1].Quantity {
		t.Errorf("second line received %d, want %d", got, order.Items[1].Quantity)
	}
}

func TestBuildItemsKeepsZeroQuantity(t *testing.T) {
	order := testPurchaseOrder()
	lines := confirmedLines(order)
	lines[0].QuantityReceived = intp(0)
	lines[0].Note = "entire line refused, cartons water damaged"

	if err := validateReceiveLines(order, lines, true); err != nil {
		t.Fatalf("zero quantity with a note should validate, got %v", err)
	}

	s := &receiptService{}
	items := s.buildItems(order, lines)
	if items[0].QuantityReceived != 0 {
		t.Errorf("received quantity 0 was not kept: got %d", items[0].QuantityReceived)
	}
	if items[1].QuantityReceived != 5 {
		t.Errorf("untouched line changed: got %d", items[1].QuantityReceived)
	}
}
