package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"supplyflow/internal/model"
	"supplyflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- Product DTOs ---

type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

type UpdateProductRequest struct {
	SKU           *string          `json:"sku"`
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	Unit          *string          `json:"unit"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

type ProductService interface {
	GetProducts(ctx context.Context, category, search string, page, limit int) ([]ProductResponse, int64, error)
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, userID, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, userID, id string) error
}

type productService struct {
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewProductService(productRepo repository.ProductRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) ProductService {
	return &productService{productRepo: productRepo, auditRepo: auditRepo, txManager: txManager}
}

func mapProduct(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Title:         p.Title,
		Description:   p.Description,
		Category:      p.Category,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
	}
}

func (s *productService) GetProducts(ctx context.Context, category, search string, page, limit int) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	products, total, err := s.productRepo.List(ctx, category, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, mapProduct(&products[i]))
	}
	return res, total, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, errors.New("product not found")
		}
		return ProductResponse{}, fmt.Errorf("database error: %w", err)
	}
	return mapProduct(product), nil
}

func (s *productService) CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (ProductResponse, error) {
	if req.PurchasePrice.IsNegative() || req.SellingPrice.IsNegative() {
		return ProductResponse{}, errors.New("prices must not be negative")
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	product := model.Product{
		SKU:           req.SKU,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Unit:          unit,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, &product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionCreateProduct,
			EntityID:   product.ID.String(),
			EntityName: product.Title,
			Details:    string(details),
		})
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return mapProduct(&product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, userID, id string, req UpdateProductRequest) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, errors.New("product not found")
		}
		return ProductResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.PurchasePrice != nil {
		if req.PurchasePrice.IsNegative() {
			return ProductResponse{}, errors.New("purchase price must not be negative")
		}
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return ProductResponse{}, errors.New("selling price must not be negative")
		}
		product.SellingPrice = *req.SellingPrice
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionUpdateProduct,
			EntityID:   product.ID.String(),
			EntityName: product.Title,
			Details:    string(details),
		})
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return mapProduct(product), nil
}

// DeleteProduct soft-deletes the product once nothing references it.
func (s *productService) DeleteProduct(ctx context.Context, userID, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		refs, err := s.productRepo.CountReferences(txCtx, productID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: product has %d referencing line(s)", ErrReferenced, refs)
		}

		if err := s.productRepo.Delete(txCtx, productID); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionDeleteProduct,
			EntityID:   product.ID.String(),
			EntityName: product.Title,
			Details:    `{"deleted": true}`,
		})
	})
}
