package handler

import (
	"net/http"

	"supplyflow/internal/authz"
	"supplyflow/internal/middleware"
	"supplyflow/internal/service"
	"supplyflow/pkg/pagination"
	"supplyflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup) {
	wishlist := router.Group("/wishlist")
	{
		wishlist.GET("", middleware.Authorize(authz.ActionRead, authz.ResourceWishlist), h.ListEntries)
		wishlist.GET("/:id", middleware.Authorize(authz.ActionRead, authz.ResourceWishlist), h.GetEntry)
		wishlist.POST("", middleware.Authorize(authz.ActionWrite, authz.ResourceWishlist), h.CreateEntry)
		wishlist.PUT("/:id", middleware.Authorize(authz.ActionWrite, authz.ResourceWishlist), h.UpdateEntry)
		wishlist.POST("/:id/reject", middleware.Authorize(authz.ActionWrite, authz.ResourceWishlist), h.RejectEntry)
		wishlist.POST("/:id/convert", middleware.Authorize(authz.ActionWrite, authz.ResourceProduct), h.ConvertEntry)
		wishlist.DELETE("/:id", middleware.Authorize(authz.ActionDelete, authz.ResourceWishlist), h.DeleteEntry)
	}
}

// ListEntries handles GET /wishlist
// @Summary      List wishlist entries
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status (new, converted, rejected)"
// @Param        customer_id  query     string  false  "Filter by customer"
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  response.Response{data=response.Paginated}
// @Router       /wishlist [get]
func (h *WishlistHandler) ListEntries(c *gin.Context) {
	p := pagination.Parse(c)

	entries, total, err := h.wishlistService.ListEntries(c.Request.Context(), c.Query("status"), c.Query("customer_id"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, entries, p.Page, p.Limit, total))
}

// GetEntry handles GET /wishlist/:id
// @Summary      Get wishlist entry by id
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=service.WishlistResponse}
// @Failure      404  {object}  response.Response
// @Router       /wishlist/{id} [get]
func (h *WishlistHandler) GetEntry(c *gin.Context) {
	entry, err := h.wishlistService.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// CreateEntry handles POST /wishlist
// @Summary      Create wishlist entry
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateWishlistRequest  true  "Create Entry Payload"
// @Success      201      {object}  response.Response{data=service.WishlistResponse}
// @Failure      400      {object}  response.Response
// @Router       /wishlist [post]
func (h *WishlistHandler) CreateEntry(c *gin.Context) {
	var req service.CreateWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.wishlistService.CreateEntry(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// UpdateEntry handles PUT /wishlist/:id
// @Summary      Update wishlist entry
// @Description  Edits an entry that has not been converted yet
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Entry ID"
// @Param        payload  body      service.UpdateWishlistRequest  true  "Update Entry Payload"
// @Success      200      {object}  response.Response{data=service.WishlistResponse}
// @Failure      400      {object}  response.Response
// @Router       /wishlist/{id} [put]
func (h *WishlistHandler) UpdateEntry(c *gin.Context) {
	var req service.UpdateWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.wishlistService.UpdateEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// RejectEntry handles POST /wishlist/:id/reject
// @Summary      Reject wishlist entry
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=service.WishlistResponse}
// @Failure      400  {object}  response.Response
// @Router       /wishlist/{id}/reject [post]
func (h *WishlistHandler) RejectEntry(c *gin.Context) {
	entry, err := h.wishlistService.RejectEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// ConvertEntry handles POST /wishlist/:id/convert
// @Summary      Convert wishlist entry to product
// @Description  Creates a catalog product from the entry and stages it in the caller's purchase cart
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Entry ID"
// @Param        payload  body      service.ConvertWishlistRequest  true  "Product data"
// @Success      200      {object}  response.Response{data=service.WishlistResponse}
// @Failure      400      {object}  response.Response
// @Router       /wishlist/{id}/convert [post]
func (h *WishlistHandler) ConvertEntry(c *gin.Context) {
	var req service.ConvertWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.wishlistService.Convert(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// DeleteEntry handles DELETE /wishlist/:id
// @Summary      Delete wishlist entry
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /wishlist/{id} [delete]
func (h *WishlistHandler) DeleteEntry(c *gin.Context) {
	if err := h.wishlistService.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Wishlist entry deleted successfully"}))
}
