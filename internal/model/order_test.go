package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransitionOrder(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderStatusNew, OrderStatusPicking},
		{OrderStatusPicking, OrderStatusReadyForShipment},
		{OrderStatusReadyForShipment, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusNew, OrderStatusCancelled},
		{OrderStatusPicking, OrderStatusCancelled},
		{OrderStatusReadyForShipment, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusCancelled},
	}
	for _, tc := range allowed {
		if !CanTransitionOrder(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{OrderStatusNew, OrderStatusReadyForShipment}, // no skipping
		{OrderStatusNew, OrderStatusShipped},
		{OrderStatusNew, OrderStatusDelivered},
		{OrderStatusPicking, OrderStatusNew}, // no going back
		{OrderStatusShipped, OrderStatusPicking},
		{OrderStatusDelivered, OrderStatusCancelled}, // terminal
		{OrderStatusDelivered, OrderStatusNew},
		{OrderStatusCancelled, OrderStatusNew}, // absorbing
		{OrderStatusCancelled, OrderStatusPicking},
		{OrderStatusNew, "archived"}, // unknown state
		{"archived", OrderStatusNew},
	}
	for _, tc := range denied {
		if CanTransitionOrder(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestOrderTerminal(t *testing.T) {
	for _, status := range []string{OrderStatusNew, OrderStatusPicking, OrderStatusReadyForShipment, OrderStatusShipped} {
		if OrderTerminal(status) {
			t.Errorf("%s should not be terminal", status)
		}
	}
	for _, status := range []string{OrderStatusDelivered, OrderStatusCancelled} {
		if !OrderTerminal(status) {
			t.Errorf("%s should be terminal", status)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	if !ValidOrderStatus(OrderStatusPicking) {
		t.Error("picking should be a valid status")
	}
	if ValidOrderStatus("returned") {
		t.Error("returned is not a known status")
	}
	if ValidOrderStatus("") {
		t.Error("empty string is not a known status")
	}
}

func TestOrderTotal(t *testing.T) {
	order := CustomerOrder{
		Items: []CustomerOrderItem{
			{Quantity: 3, PricePerUnit: decimal.NewFromInt(100)},
			{Quantity: 2, PricePerUnit: decimal.NewFromInt(50)},
		},
	}
	if got := order.Total(); !got.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Total() = %s, want 400", got)
	}
}

func TestOrderTotalDecimalPrecision(t *testing.T) {
	price, _ := decimal.NewFromString("0.10")
	order := CustomerOrder{
		Items: []CustomerOrderItem{
			{Quantity: 3, PricePerUnit: price},
		},
	}
	want, _ := decimal.NewFromString("0.30")
	if got := order.Total(); !got.Equal(want) {
		t.Errorf("Total() = %s, want 0.30", got)
	}
}

func TestOrderTotalEmpty(t *testing.T) {
	var order CustomerOrder
	if got := order.Total(); !got.IsZero() {
		t.Errorf("Total() of empty order = %s, want 0", got)
	}
}
