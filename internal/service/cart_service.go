package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"supplyflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CartLineRequest struct {
	ProductID    string           `json:"product_id" binding:"required"`
	Quantity     int              `json:"quantity" binding:"required,gt=0"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
}

type CartLineResponse struct {
	ProductID    string          `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	SKU          string          `json:"sku"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

type CheckoutRequest struct {
	OrderCode    string     `json:"order_code" binding:"required"`
	SupplierID   string     `json:"supplier_id" binding:"required"`
	ExpectedDate *time.Time `json:"expected_date"`
	Comment      string     `json:"comment"`
}

// CartService keeps each manager's in-progress purchase order server-side
// so it survives browser and device changes. Checkout drains the cart
// through the regular purchase order creation path.
type CartService interface {
	PutLine(ctx context.Context, userID string, req CartLineRequest) (CartResponse, error)
	RemoveLine(ctx context.Context, userID, productID string) (CartResponse, error)
	GetCart(ctx context.Context, userID string) (CartResponse, error)
	ClearCart(ctx context.Context, userID string) error
	Checkout(ctx context.Context, userID string, req CheckoutRequest) (PurchaseResponse, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	purchases   PurchaseService
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	purchases PurchaseService,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		purchases:   purchases,
	}
}

func (s *cartService) PutLine(ctx context.Context, userID string, req CartLineRequest) (CartResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return CartResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartResponse{}, errors.New("product not found")
		}
		return CartResponse{}, fmt.Errorf("database error: %w", err)
	}

	// The purchase price defaults from the catalog; a manager may override
	// it per line when the supplier quoted differently.
	price := product.PurchasePrice
	if req.PricePerUnit != nil {
		if req.PricePerUnit.IsNegative() {
			return CartResponse{}, errors.New("price_per_unit must not be negative")
		}
		price = *req.PricePerUnit
	}

	line := repository.CartLine{
		ProductID:    product.ID.String(),
		Quantity:     req.Quantity,
		PricePerUnit: price.String(),
	}
	if err := s.cartRepo.Put(ctx, userID, line); err != nil {
		return CartResponse{}, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveLine(ctx context.Context, userID, productID string) (CartResponse, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return CartResponse{}, fmt.Errorf("invalid product id: %w", err)
	}
	if err := s.cartRepo.Remove(ctx, userID, productID); err != nil {
		return CartResponse{}, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) GetCart(ctx context.Context, userID string) (CartResponse, error) {
	lines, err := s.cartRepo.Lines(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	res := CartResponse{
		Lines: make([]CartLineResponse, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, line := range lines {
		price, err := decimal.NewFromString(line.PricePerUnit)
		if err != nil {
			return CartResponse{}, fmt.Errorf("corrupt cart line for product %s: %w", line.ProductID, err)
		}

		out := CartLineResponse{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			PricePerUnit: price,
			LineTotal:    price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		}
		if pid, err := uuid.Parse(line.ProductID); err == nil {
			if product, err := s.productRepo.FindByID(ctx, pid); err == nil {
				out.ProductTitle = product.Title
				out.SKU = product.SKU
			}
		}

		res.Lines = append(res.Lines, out)
		res.Total = res.Total.Add(out.LineTotal)
	}
	return res, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	return s.cartRepo.Clear(ctx, userID)
}

// Checkout turns the cart into a pending purchase order and empties the
// cart only after the order is committed.
func (s *cartService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (PurchaseResponse, error) {
	lines, err := s.cartRepo.Lines(ctx, userID)
	if err != nil {
		return PurchaseResponse{}, err
	}
	if len(lines) == 0 {
		return PurchaseResponse{}, errors.New("cart is empty")
	}

	items := make([]PurchaseItemRequest, 0, len(lines))
	for _, line := range lines {
		price, err := decimal.NewFromString(line.PricePerUnit)
		if err != nil {
			return PurchaseResponse{}, fmt.Errorf("corrupt cart line for product %s: %w", line.ProductID, err)
		}
		items = append(items, PurchaseItemRequest{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			PricePerUnit: price,
		})
	}

	order, err := s.purchases.CreatePurchase(ctx, userID, CreatePurchaseRequest{
		OrderCode:    req.OrderCode,
		SupplierID:   req.SupplierID,
		ExpectedDate: req.ExpectedDate,
		Comment:      req.Comment,
		Items:        items,
	})
	if err != nil {
		return PurchaseResponse{}, err
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return order, fmt.Errorf("purchase order %s created but clearing the cart failed: %w", order.OrderCode, err)
	}
	return order, nil
}
