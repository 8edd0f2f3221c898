package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"supplyflow/internal/model"

	"github.com/google/uuid"
)

func newTestOrderService(order *model.CustomerOrder) (*orderService, *fakeOrderRepo, *fakePhotoStorage, *fakeAuditRepo) {
	repo := &fakeOrderRepo{order: order}
	photos := &fakePhotoStorage{}
	audit := &fakeAuditRepo{}
	s := &orderService{
		orderRepo: repo,
		auditRepo: audit,
		txManager: fakeTxManager{},
		photos:    photos,
	}
	return s, repo, photos, audit
}

func TestConfirmDeliveryOnlyFromShipped(t *testing.T) {
	notShipped := []string{
		model.OrderStatusNew,
		model.OrderStatusPicking,
		model.OrderStatusReadyForShipment,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	}
	for _, status := range notShipped {
		order := &model.CustomerOrder{ID: uuid.New(), OrderCode: "ORD-77", Status: status}
		s, _, photos, _ := newTestOrderService(order)

		_, err := s.ConfirmDelivery(context.Background(), uuid.NewString(), order.ID.String(),
			strings.NewReader("jpeg-bytes"), "door.jpg")
		if !errors.Is(err, ErrBadTransition) {
			t.Errorf("status %s: expected ErrBadTransition, got %v", status, err)
		}
		if len(photos.saved) != 0 {
			t.Errorf("status %s: photo stored for a rejected confirmation", status)
		}
	}
}

func TestConfirmDeliveryFromShipped(t *testing.T) {
	order := &model.CustomerOrder{ID: uuid.New(), OrderCode: "ORD-78", Status: model.OrderStatusShipped}
	s, repo, photos, audit := newTestOrderService(order)

	res, err := s.ConfirmDelivery(context.Background(), uuid.NewString(), order.ID.String(),
		strings.NewReader("jpeg-bytes"), "door.jpg")
	if err != nil {
		t.Fatalf("ConfirmDelivery: %v", err)
	}

	if res.Status != model.OrderStatusDelivered {
		t.Errorf("status = %q, want delivered", res.Status)
	}
	if repo.order.DeliveredAt == nil {
		t.Error("delivered timestamp not set")
	}
	if len(photos.saved) != 1 || repo.order.DeliveryPhotoURL != photos.saved[0] {
		t.Errorf("photo url %q not stored on the order (saved: %v)", repo.order.DeliveryPhotoURL, photos.saved)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionDeliverOrder {
		t.Errorf("expected one delivery audit entry, got %+v", audit.entries)
	}
}
