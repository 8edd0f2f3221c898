package handler

import (
	"net/http"

	"supplyflow/internal/authz"
	"supplyflow/internal/middleware"
	"supplyflow/internal/service"
	"supplyflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cart := router.Group("/purchase-cart")
	{
		cart.GET("", middleware.Authorize(authz.ActionRead, authz.ResourceCart), h.GetCart)
		cart.PUT("/lines", middleware.Authorize(authz.ActionWrite, authz.ResourceCart), h.PutLine)
		cart.DELETE("/lines/:productID", middleware.Authorize(authz.ActionWrite, authz.ResourceCart), h.RemoveLine)
		cart.DELETE("", middleware.Authorize(authz.ActionWrite, authz.ResourceCart), h.ClearCart)
		cart.POST("/checkout", middleware.Authorize(authz.ActionWrite, authz.ResourcePurchase), h.Checkout)
	}
}

// GetCart handles GET /purchase-cart
// @Summary      Get purchase cart
// @Description  Returns the caller's server-side purchase cart with line totals
// @Tags         purchase-cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.CartResponse}
// @Router       /purchase-cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), actorID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cart))
}

// PutLine handles PUT /purchase-cart/lines
// @Summary      Add or update cart line
// @Description  Upserts a product line in the caller's cart; the price defaults from the catalog
// @Tags         purchase-cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CartLineRequest  true  "Cart line"
// @Success      200      {object}  response.Response{data=service.CartResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-cart/lines [put]
func (h *CartHandler) PutLine(c *gin.Context) {
	var req service.CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cart, err := h.cartService.PutLine(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cart))
}

// RemoveLine handles DELETE /purchase-cart/lines/:productID
// @Summary      Remove cart line
// @Tags         purchase-cart
// @Produce      json
// @Security     BearerAuth
// @Param        productID  path      string  true  "Product ID"
// @Success      200        {object}  response.Response{data=service.CartResponse}
// @Failure      400        {object}  response.Response
// @Router       /purchase-cart/lines/{productID} [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	cart, err := h.cartService.RemoveLine(c.Request.Context(), actorID(c), c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cart))
}

// ClearCart handles DELETE /purchase-cart
// @Summary      Clear purchase cart
// @Tags         purchase-cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /purchase-cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Cart cleared"}))
}

// Checkout handles POST /purchase-cart/checkout
// @Summary      Checkout purchase cart
// @Description  Creates a pending purchase order from the cart and empties the cart
// @Tags         purchase-cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CheckoutRequest  true  "Checkout data"
// @Success      201      {object}  response.Response{data=service.PurchaseResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	purchase, err := h.cartService.Checkout(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, purchase))
}
