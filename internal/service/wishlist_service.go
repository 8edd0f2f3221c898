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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateWishlistRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	Unit       string `json:"unit"`
	Category   string `json:"category"`
	Comment    string `json:"comment"`
}

type UpdateWishlistRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity" binding:"omitempty,gt=0"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Comment  string `json:"comment"`
}

// ConvertWishlistRequest carries the catalog data a manager fills in when
// promoting a wishlist entry to a real product.
type ConvertWishlistRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"required"`
	SellingPrice  decimal.Decimal `json:"selling_price" binding:"required"`
}

type WishlistResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	Unit         string    `json:"unit"`
	Category     string    `json:"category"`
	Comment      string    `json:"comment"`
	Status       string    `json:"status"`
	ProductID    *string   `json:"product_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type WishlistService interface {
	CreateEntry(ctx context.Context, userID string, req CreateWishlistRequest) (WishlistResponse, error)
	UpdateEntry(ctx context.Context, id string, req UpdateWishlistRequest) (WishlistResponse, error)
	RejectEntry(ctx context.Context, id string) (WishlistResponse, error)
	DeleteEntry(ctx context.Context, id string) error
	GetEntry(ctx context.Context, id string) (WishlistResponse, error)
	ListEntries(ctx context.Context, status, customerID string, page, limit int) ([]WishlistResponse, int64, error)
	// Convert creates a product from the entry and stages it in the
	// manager's purchase cart at the entry's quantity.
	Convert(ctx context.Context, userID, id string, req ConvertWishlistRequest) (WishlistResponse, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	cartRepo     repository.CartRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func mapWishlist(e *model.WishlistEntry) WishlistResponse {
	res := WishlistResponse{
		ID:         e.ID.String(),
		CustomerID: e.CustomerID.String(),
		Name:       e.Name,
		Quantity:   e.Quantity,
		Unit:       e.Unit,
		Category:   e.Category,
		Comment:    e.Comment,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
	}
	if e.Customer != nil {
		res.CustomerName = e.Customer.Name
	}
	if e.ProductID != nil {
		pid := e.ProductID.String()
		res.ProductID = &pid
	}
	return res
}

func (s *wishlistService) CreateEntry(ctx context.Context, userID string, req CreateWishlistRequest) (WishlistResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return WishlistResponse{}, fmt.Errorf("invalid customer id: %w", err)
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WishlistResponse{}, errors.New("customer not found")
		}
		return WishlistResponse{}, fmt.Errorf("database error: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	entry := &model.WishlistEntry{
		CustomerID: customerID,
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       unit,
		Category:   req.Category,
		Comment:    req.Comment,
		Status:     model.WishlistStatusNew,
		CreatedBy:  parseActorID(userID),
	}
	if err := s.wishlistRepo.Create(ctx, entry); err != nil {
		return WishlistResponse{}, fmt.Errorf("failed to create wishlist entry: %w", err)
	}
	return mapWishlist(entry), nil
}

func (s *wishlistService) findEditable(ctx context.Context, id string) (*model.WishlistEntry, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid wishlist entry id: %w", err)
	}
	entry, err := s.wishlistRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("wishlist entry not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if entry.Status == model.WishlistStatusConverted {
		return nil, errors.New("wishlist entry is already converted")
	}
	return entry, nil
}

func (s *wishlistService) UpdateEntry(ctx context.Context, id string, req UpdateWishlistRequest) (WishlistResponse, error) {
	entry, err := s.findEditable(ctx, id)
	if err != nil {
		return WishlistResponse{}, err
	}

	if req.Name != "" {
		entry.Name = req.Name
	}
	if req.Quantity > 0 {
		entry.Quantity = req.Quantity
	}
	if req.Unit != "" {
		entry.Unit = req.Unit
	}
	if req.Category != "" {
		entry.Category = req.Category
	}
	if req.Comment != "" {
		entry.Comment = req.Comment
	}

	if err := s.wishlistRepo.Update(ctx, entry); err != nil {
		return WishlistResponse{}, fmt.Errorf("failed to update wishlist entry: %w", err)
	}
	return mapWishlist(entry), nil
}

func (s *wishlistService) RejectEntry(ctx context.Context, id string) (WishlistResponse, error) {
	entry, err := s.findEditable(ctx, id)
	if err != nil {
		return WishlistResponse{}, err
	}
	entry.Status = model.WishlistStatusRejected
	if err := s.wishlistRepo.Update(ctx, entry); err != nil {
		return WishlistResponse{}, fmt.Errorf("failed to update wishlist entry: %w", err)
	}
	return mapWishlist(entry), nil
}

func (s *wishlistService) DeleteEntry(ctx context.Context, id string) error {
	entry, err := s.findEditable(ctx, id)
	if err != nil {
		return err
	}
	if err := s.wishlistRepo.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete wishlist entry: %w", err)
	}
	return nil
}

func (s *wishlistService) GetEntry(ctx context.Context, id string) (WishlistResponse, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return WishlistResponse{}, fmt.Errorf("invalid wishlist entry id: %w", err)
	}
	entry, err := s.wishlistRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WishlistResponse{}, errors.New("wishlist entry not found")
		}
		return WishlistResponse{}, fmt.Errorf("database error: %w", err)
	}
	return mapWishlist(entry), nil
}

func (s *wishlistService) ListEntries(ctx context.Context, status, customerID string, page, limit int) ([]WishlistResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var cid *uuid.UUID
	if customerID != "" {
		parsed, err := uuid.Parse(customerID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid customer id: %w", err)
		}
		cid = &parsed
	}

	entries, total, err := s.wishlistRepo.List(ctx, status, cid, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]WishlistResponse, 0, len(entries))
	for i := range entries {
		res = append(res, mapWishlist(&entries[i]))
	}
	return res, total, nil
}

func (s *wishlistService) Convert(ctx context.Context, userID, id string, req ConvertWishlistRequest) (WishlistResponse, error) {
	entry, err := s.findEditable(ctx, id)
	if err != nil {
		return WishlistResponse{}, err
	}
	if entry.Status == model.WishlistStatusRejected {
		return WishlistResponse{}, errors.New("wishlist entry is rejected")
	}
	if req.PurchasePrice.IsNegative() || req.SellingPrice.IsNegative() {
		return WishlistResponse{}, errors.New("prices must not be negative")
	}

	product := &model.Product{
		SKU:           req.SKU,
		Title:         entry.Name,
		Category:      entry.Category,
		Unit:          entry.Unit,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		entry.Status = model.WishlistStatusConverted
		entry.ProductID = &product.ID
		if err := s.wishlistRepo.Update(txCtx, entry); err != nil {
			return fmt.Errorf("failed to update wishlist entry: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"product_id": product.ID.String(),
			"sku":        product.SKU,
			"quantity":   entry.Quantity,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionConvertWishlist,
			EntityID:   entry.ID.String(),
			EntityName: entry.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return WishlistResponse{}, err
	}

	// Stage the new product in the converting manager's purchase cart so it
	// flows into the next purchase order through the regular checkout.
	line := repository.CartLine{
		ProductID:    product.ID.String(),
		Quantity:     entry.Quantity,
		PricePerUnit: req.PurchasePrice.String(),
	}
	if err := s.cartRepo.Put(ctx, userID, line); err != nil {
		return WishlistResponse{}, fmt.Errorf("product created but staging the cart line failed: %w", err)
	}

	return mapWishlist(entry), nil
}
