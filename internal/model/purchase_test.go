package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransitionPurchase(t *testing.T) {
	allowed := []struct{ from, to string }{
		{PurchaseStatusPending, PurchaseStatusOrdered},
		{PurchaseStatusOrdered, PurchaseStatusInTransit},
		{PurchaseStatusInTransit, PurchaseStatusReceived},
		{PurchaseStatusPending, PurchaseStatusCancelled},
		{PurchaseStatusOrdered, PurchaseStatusCancelled},
		{PurchaseStatusInTransit, PurchaseStatusCancelled},
	}
	for _, tc := range allowed {
		if !CanTransitionPurchase(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{PurchaseStatusPending, PurchaseStatusReceived}, // no skipping to received
		{PurchaseStatusOrdered, PurchaseStatusReceived},
		{PurchaseStatusReceived, PurchaseStatusCancelled}, // terminal
		{PurchaseStatusReceived, PurchaseStatusPending},
		{PurchaseStatusCancelled, PurchaseStatusOrdered}, // absorbing
		{PurchaseStatusInTransit, PurchaseStatusPending}, // no going back
	}
	for _, tc := range denied {
		if CanTransitionPurchase(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestValidPurchaseStatus(t *testing.T) {
	if !ValidPurchaseStatus(PurchaseStatusInTransit) {
		t.Error("in_transit should be a valid status")
	}
	if ValidPurchaseStatus("on_hold") {
		t.Error("on_hold is not a known status")
	}
}

func TestPurchaseTotal(t *testing.T) {
	price, _ := decimal.NewFromString("12.50")
	order := PurchaseOrder{
		Items: []PurchaseOrderItem{
			{Quantity: 4, PricePerUnit: price},
			{Quantity: 1, PricePerUnit: decimal.NewFromInt(10)},
		},
	}
	if got := order.Total(); !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Total() = %s, want 60", got)
	}
}
