package handler

import (
	"errors"
	"net/http"

	"supplyflow/internal/authz"
	"supplyflow/internal/middleware"
	"supplyflow/internal/service"
	"supplyflow/pkg/pagination"
	"supplyflow/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxPhotoSize bounds delivery photo uploads.
const maxPhotoSize = 10 << 20 // 10 MiB

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("", middleware.Authorize(authz.ActionRead, authz.ResourceOrder), h.ListOrders)
		orders.GET("/:id", middleware.Authorize(authz.ActionRead, authz.ResourceOrder), h.GetOrder)
		orders.POST("", middleware.Authorize(authz.ActionWrite, authz.ResourceOrder), h.CreateOrder)
		orders.POST("/:id/transition", middleware.Authorize(authz.ActionTransit, authz.ResourceOrder), h.Transition)
		orders.POST("/:id/status", middleware.Authorize(authz.ActionOverride, authz.ResourceOrder), h.OverrideStatus)
		orders.POST("/:id/delivery", middleware.Authorize(authz.ActionWrite, authz.ResourceDelivery), h.ConfirmDelivery)
		orders.DELETE("/:id", middleware.Authorize(authz.ActionDelete, authz.ResourceOrder), h.DeleteOrder)
		orders.DELETE("/:id/items", middleware.Authorize(authz.ActionDelete, authz.ResourceOrder), h.DeleteOrderItems)
	}
}

// ListOrders handles GET /orders
// @Summary      List customer orders
// @Description  Lists orders newest first with priority orders on top
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status"
// @Param        customer_id  query     string  false  "Filter by customer"
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  response.Response{data=response.Paginated}
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), c.Query("status"), c.Query("customer_id"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, orders, p.Page, p.Limit, total))
}

// GetOrder handles GET /orders/:id
// @Summary      Get order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CreateOrder handles POST /orders
// @Summary      Create customer order
// @Description  Creates an order after checking that every line's product has enough available stock
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// Transition handles POST /orders/:id/transition
// @Summary      Advance order status
// @Description  Moves the order one step along its lifecycle; invalid steps are rejected
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Order ID"
// @Param        payload  body      service.TransitionRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      409      {object}  response.Response
// @Router       /orders/{id}/transition [post]
func (h *OrderHandler) Transition(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.Transition(c.Request.Context(), actorID(c), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrBadTransition) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// OverrideStatus handles POST /orders/:id/status
// @Summary      Set order status directly
// @Description  Sets any valid status regardless of the lifecycle graph; restricted to managers and the owner
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Order ID"
// @Param        payload  body      service.TransitionRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /orders/{id}/status [post]
func (h *OrderHandler) OverrideStatus(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.OverrideStatus(c.Request.Context(), actorID(c), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ConfirmDelivery handles POST /orders/:id/delivery
// @Summary      Confirm delivery with photo
// @Description  Uploads the proof-of-delivery photo and marks the shipped order delivered
// @Tags         orders
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Order ID"
// @Param        photo  formData  file    true  "Delivery photo"
// @Success      200    {object}  response.Response{data=service.OrderResponse}
// @Failure      400    {object}  response.Response
// @Router       /orders/{id}/delivery [post]
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "A delivery photo is required"))
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Photo exceeds the 10MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read photo: "+err.Error()))
		return
	}
	defer file.Close()

	order, err := h.orderService.ConfirmDelivery(c.Request.Context(), actorID(c), c.Param("id"), file, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeleteOrder handles DELETE /orders/:id
// @Summary      Delete order
// @Description  Deletes the order and its lines
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Order deleted successfully"}))
}

// DeleteOrderItems handles DELETE /orders/:id/items
// @Summary      Delete order lines
// @Description  Removes the order's lines while keeping the order itself
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /orders/{id}/items [delete]
func (h *OrderHandler) DeleteOrderItems(c *gin.Context) {
	if err := h.orderService.DeleteOrderItems(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Order items deleted successfully"}))
}
