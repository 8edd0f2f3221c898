package service

import (
	"context"
	"errors"
	"testing"

	"supplyflow/internal/model"

	"github.com/google/uuid"
)

func newTestCustomerService(repo *fakeCustomerRepo) (*customerService, *fakeAuditRepo) {
	audit := &fakeAuditRepo{}
	return &customerService{customerRepo: repo, auditRepo: audit, txManager: fakeTxManager{}}, audit
}

func TestDeleteCustomerRejectedWhileOrdersReference(t *testing.T) {
	customer := &model.Customer{ID: uuid.New(), Name: "Severny Trade"}
	repo := &fakeCustomerRepo{customer: customer, orders: 2}
	s, _ := newTestCustomerService(repo)

	err := s.DeleteCustomer(context.Background(), uuid.NewString(), customer.ID.String())
	if !errors.Is(err, ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	if repo.deleted {
		t.Error("customer row was deleted despite referencing orders")
	}
	if _, err := repo.FindByID(context.Background(), customer.ID); err != nil {
		t.Errorf("customer no longer loadable after rejected delete: %v", err)
	}
}

func TestDeleteCustomerRejectedWhileWishlistReferences(t *testing.T) {
	customer := &model.Customer{ID: uuid.New(), Name: "Lenta Retail"}
	repo := &fakeCustomerRepo{customer: customer, wishes: 1}
	s, _ := newTestCustomerService(repo)

	err := s.DeleteCustomer(context.Background(), uuid.NewString(), customer.ID.String())
	if !errors.Is(err, ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	if repo.deleted {
		t.Error("customer row was deleted despite referencing wishlist entries")
	}
}

func TestDeleteCustomerUnreferenced(t *testing.T) {
	customer := &model.Customer{ID: uuid.New(), Name: "One-off Buyer"}
	repo := &fakeCustomerRepo{customer: customer}
	s, audit := newTestCustomerService(repo)

	if err := s.DeleteCustomer(context.Background(), uuid.NewString(), customer.ID.String()); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	if !repo.deleted {
		t.Error("unreferenced customer was not deleted")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionDeleteCustomer {
		t.Errorf("expected one delete audit entry, got %+v", audit.entries)
	}
}
