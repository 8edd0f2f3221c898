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

type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	purchases := router.Group("/purchase-orders")
	{
		purchases.GET("", middleware.Authorize(authz.ActionRead, authz.ResourcePurchase), h.ListPurchases)
		purchases.GET("/:id", middleware.Authorize(authz.ActionRead, authz.ResourcePurchase), h.GetPurchase)
		purchases.POST("", middleware.Authorize(authz.ActionWrite, authz.ResourcePurchase), h.CreatePurchase)
		purchases.POST("/:id/transition", middleware.Authorize(authz.ActionTransit, authz.ResourcePurchase), h.Transition)
	}
}

// ListPurchases handles GET /purchase-orders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status"
// @Param        supplier_id  query     string  false  "Filter by supplier"
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  response.Response{data=response.Paginated}
// @Router       /purchase-orders [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	p := pagination.Parse(c)

	purchases, total, err := h.purchaseService.ListPurchases(c.Request.Context(), c.Query("status"), c.Query("supplier_id"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, purchases, p.Page, p.Limit, total))
}

// GetPurchase handles GET /purchase-orders/:id
// @Summary      Get purchase order by id
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response{data=service.PurchaseResponse}
// @Failure      404  {object}  response.Response
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, purchase))
}

// CreatePurchase handles POST /purchase-orders
// @Summary      Create purchase order
// @Description  Creates a pending purchase order; this is the single creation path, the cart checkout delegates here
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePurchaseRequest  true  "Create Purchase Payload"
// @Success      201      {object}  response.Response{data=service.PurchaseResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req service.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, purchase))
}

// Transition handles POST /purchase-orders/:id/transition
// @Summary      Advance purchase order status
// @Description  Moves the purchase order along its lifecycle; transitioning to received books all lines into inventory with defaults
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Purchase Order ID"
// @Param        payload  body      service.TransitionRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.PurchaseResponse}
// @Failure      409      {object}  response.Response
// @Router       /purchase-orders/{id}/transition [post]
func (h *PurchaseHandler) Transition(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	purchase, err := h.purchaseService.Transition(c.Request.Context(), actorID(c), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrBadTransition) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, purchase))
}
