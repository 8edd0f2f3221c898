package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"supplyflow/internal/model"
	"supplyflow/internal/repository"
	ws "supplyflow/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrBadTransition is returned when a requested status change is not in
// the order transition graph.
var ErrBadTransition = errors.New("transition not allowed")

// --- DTOs ---

type OrderItemRequest struct {
	ProductID    string          `json:"product_id" binding:"required"`
	BatchID      string          `json:"batch_id"`
	Quantity     int             `json:"quantity" binding:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" binding:"required"`
}

type CreateOrderRequest struct {
	OrderCode  string             `json:"order_code" binding:"required"`
	CustomerID string             `json:"customer_id" binding:"required"`
	Priority   bool               `json:"priority"`
	Comment    string             `json:"comment"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	BatchID      *string         `json:"batch_id,omitempty"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

type OrderResponse struct {
	ID               string              `json:"id"`
	OrderCode        string              `json:"order_code"`
	CustomerID       string              `json:"customer_id"`
	CustomerName     string              `json:"customer_name"`
	Status           string              `json:"status"`
	Priority         bool                `json:"priority"`
	Comment          string              `json:"comment"`
	DeliveryPhotoURL string              `json:"delivery_photo_url,omitempty"`
	DeliveredAt      *time.Time          `json:"delivered_at,omitempty"`
	Total            decimal.Decimal     `json:"total"`
	Items            []OrderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
}

// OrderEvent is the websocket payload pushed to warehouse clients on
// every order mutation.
type OrderEvent struct {
	Event     string `json:"event"`
	OrderID   string `json:"order_id"`
	OrderCode string `json:"order_code"`
	Status    string `json:"status"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (OrderResponse, error)
	GetOrder(ctx context.Context, id string) (OrderResponse, error)
	ListOrders(ctx context.Context, status, customerID string, page, limit int) ([]OrderResponse, int64, error)
	Transition(ctx context.Context, userID, id, to string) (OrderResponse, error)
	OverrideStatus(ctx context.Context, userID, id, status string) (OrderResponse, error)
	ConfirmDelivery(ctx context.Context, userID, id string, photo io.Reader, filename string) (OrderResponse, error)
	DeleteOrder(ctx context.Context, userID, id string) error
	DeleteOrderItems(ctx context.Context, userID, id string) error
}

type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	inventoryRepo repository.InventoryRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	photos        PhotoStorage
	hub           *ws.Hub
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	inventoryRepo repository.InventoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	photos PhotoStorage,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		photos:        photos,
		hub:           hub,
	}
}

func mapOrder(o *model.CustomerOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		res := OrderItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
		}
		if item.Product != nil {
			res.ProductTitle = item.Product.Title
		}
		if item.BatchID != nil {
			id := item.BatchID.String()
			res.BatchID = &id
		}
		items = append(items, res)
	}

	res := OrderResponse{
		ID:               o.ID.String(),
		OrderCode:        o.OrderCode,
		CustomerID:       o.CustomerID.String(),
		Status:           o.Status,
		Priority:         o.Priority,
		Comment:          o.Comment,
		DeliveryPhotoURL: o.DeliveryPhotoURL,
		DeliveredAt:      o.DeliveredAt,
		Total:            o.Total(),
		Items:            items,
		CreatedAt:        o.CreatedAt,
	}
	if o.Customer != nil {
		res.CustomerName = o.Customer.Name
	}
	return res
}

func (s *orderService) broadcast(event string, order *model.CustomerOrder) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(OrderEvent{
		Event:     event,
		OrderID:   order.ID.String(),
		OrderCode: order.OrderCode,
		Status:    order.Status,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

// CreateOrder inserts the order and all of its lines in one transaction
// and verifies availability against the reservation view first.
func (s *orderService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (OrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid customer_id: %w", err)
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, errors.New("customer not found")
		}
		return OrderResponse{}, fmt.Errorf("database error: %w", err)
	}

	order := model.CustomerOrder{
		OrderCode:  req.OrderCode,
		CustomerID: customerID,
		Status:     model.OrderStatusNew,
		Priority:   req.Priority,
		Comment:    req.Comment,
		CreatedBy:  parseActorID(userID),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		available := map[string]int{}
		rows, err := s.inventoryRepo.ProductAvailability(txCtx)
		if err != nil {
			return err
		}
		for _, row := range rows {
			available[row.ProductID.String()] = row.Available
		}

		items := make([]model.CustomerOrderItem, 0, len(req.Items))
		var productTitles []string
		for i, itemReq := range req.Items {
			pid, parseErr := uuid.Parse(itemReq.ProductID)
			if parseErr != nil {
				return fmt.Errorf("items[%d]: invalid product_id: %w", i, parseErr)
			}
			product, findErr := s.productRepo.FindByID(txCtx, pid)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("items[%d]: product not found", i)
				}
				return fmt.Errorf("items[%d]: %w", i, findErr)
			}
			if itemReq.PricePerUnit.IsNegative() {
				return fmt.Errorf("items[%d]: price must not be negative", i)
			}
			if available[itemReq.ProductID] < itemReq.Quantity {
				return fmt.Errorf("items[%d]: insufficient availability for %s (have %d, want %d)",
					i, product.Title, available[itemReq.ProductID], itemReq.Quantity)
			}
			available[itemReq.ProductID] -= itemReq.Quantity

			item := model.CustomerOrderItem{
				ProductID:    pid,
				Quantity:     itemReq.Quantity,
				PricePerUnit: itemReq.PricePerUnit,
			}
			if itemReq.BatchID != "" {
				bid, parseErr := uuid.Parse(itemReq.BatchID)
				if parseErr != nil {
					return fmt.Errorf("items[%d]: invalid batch_id: %w", i, parseErr)
				}
				if _, err := s.inventoryRepo.FindBatch(txCtx, bid); err != nil {
					return fmt.Errorf("items[%d]: batch not found", i)
				}
				item.BatchID = &bid
			}
			items = append(items, item)
			productTitles = append(productTitles, product.Title)
		}

		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.orderRepo.CreateItems(txCtx, items); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"order_code":  req.OrderCode,
			"customer_id": req.CustomerID,
			"priority":    req.Priority,
			"items":       req.Items,
			"products":    productTitles,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionCreateOrder,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    string(details),
		})
	})
	if err != nil {
		return OrderResponse{}, err
	}

	created, err := s.orderRepo.FindByIDWithItems(ctx, order.ID)
	if err != nil {
		return OrderResponse{}, err
	}

	s.broadcast("order_created", created)
	return mapOrder(created), nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, errors.New("order not found")
		}
		return OrderResponse{}, fmt.Errorf("database error: %w", err)
	}
	return mapOrder(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, status, customerID string, page, limit int) ([]OrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q", status)
	}

	var cid *uuid.UUID
	if customerID != "" {
		parsed, err := uuid.Parse(customerID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid customer_id: %w", err)
		}
		cid = &parsed
	}

	orders, total, err := s.orderRepo.List(ctx, status, cid, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, mapOrder(&orders[i]))
	}
	return res, total, nil
}

// Transition advances the order along the lifecycle graph. Delivery is
// excluded here: it requires the photo path via ConfirmDelivery.
func (s *orderService) Transition(ctx context.Context, userID, id, to string) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}
	if !model.ValidOrderStatus(to) {
		return OrderResponse{}, fmt.Errorf("unknown status %q", to)
	}
	if to == model.OrderStatusDelivered {
		return OrderResponse{}, errors.New("delivery is confirmed with a photo, not a plain transition")
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, errors.New("order not found")
		}
		return OrderResponse{}, fmt.Errorf("database error: %w", err)
	}

	if !model.CanTransitionOrder(order.Status, to) {
		return OrderResponse{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, order.Status, to)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.UpdateStatus(txCtx, orderID, to); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		details, _ := json.Marshal(map[string]string{"from": order.Status, "to": to})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionUpdateOrderStatus,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    string(details),
		})
	})
	if err != nil {
		return OrderResponse{}, err
	}

	order.Status = to
	s.broadcast("order_status_changed", order)
	return mapOrder(order), nil
}

// OverrideStatus sets an arbitrary known status without consulting the
// transition graph. Reserved for manager/owner corrections.
func (s *orderService) OverrideStatus(ctx context.Context, userID, id, status string) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}
	if !model.ValidOrderStatus(status) {
		return OrderResponse{}, fmt.Errorf("unknown status %q", status)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, errors.New("order not found")
		}
		return OrderResponse{}, fmt.Errorf("database error: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.UpdateStatus(txCtx, orderID, status); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		details, _ := json.Marshal(map[string]string{"from": order.Status, "to": status, "override": "true"})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionOverrideOrderStatus,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    string(details),
		})
	})
	if err != nil {
		return OrderResponse{}, err
	}

	order.Status = status
	s.broadcast("order_status_changed", order)
	return mapOrder(order), nil
}

// ConfirmDelivery stores the driver's photo and flips shipped -> delivered
// in one call, so a failed status update never leaves an orphaned photo on
// the order.
func (s *orderService) ConfirmDelivery(ctx context.Context, userID, id string, photo io.Reader, filename string) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("invalid order id: %w", err)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, errors.New("order not found")
		}
		return OrderResponse{}, fmt.Errorf("database error: %w", err)
	}

	if order.Status != model.OrderStatusShipped {
		return OrderResponse{}, fmt.Errorf("%w: delivery can only be confirmed from %s (current: %s)",
			ErrBadTransition, model.OrderStatusShipped, order.Status)
	}

	photoURL, err := s.photos.Save(orderID.String(), filename, photo)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("failed to store delivery photo: %w", err)
	}

	deliveredAt := time.Now()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.SetDelivered(txCtx, orderID, photoURL, deliveredAt); err != nil {
			return fmt.Errorf("failed to mark delivered: %w", err)
		}

		details, _ := json.Marshal(map[string]string{"photo_url": photoURL})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionDeliverOrder,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    string(details),
		})
	})
	if err != nil {
		s.photos.Remove(photoURL)
		return OrderResponse{}, err
	}

	order.Status = model.OrderStatusDelivered
	order.DeliveryPhotoURL = photoURL
	order.DeliveredAt = &deliveredAt
	s.broadcast("order_delivered", order)
	return mapOrder(order), nil
}

func (s *orderService) DeleteOrder(ctx context.Context, userID, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid order id: %w", err)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("order not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.DeleteItems(txCtx, orderID); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := s.orderRepo.Delete(txCtx, orderID); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}

		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     parseActorID(userID),
			Action:     model.ActionDeleteOrder,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
			Details:    `{"deleted": true}`,
		})
	})
	if err != nil {
		return err
	}

	s.broadcast("order_deleted", order)
	return nil
}

// DeleteOrderItems clears an order's lines without touching the order
// itself; removing the order is always a separate, explicit call.
func (s *orderService) DeleteOrderItems(ctx context.Context, userID, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid order id: %w", err)
	}

	if _, err := s.orderRepo.FindByIDWithItems(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("order not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.orderRepo.DeleteItems(ctx, orderID)
}
