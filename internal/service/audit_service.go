package service

import (
	"context"

	"supplyflow/internal/model"
	"supplyflow/internal/repository"
)

type AuditService interface {
	List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	return s.auditRepo.List(ctx, action, page, limit)
}
