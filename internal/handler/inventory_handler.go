package handler

import (
	"net/http"

	"supplyflow/internal/authz"
	"supplyflow/internal/middleware"
	"supplyflow/internal/service"
	"supplyflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory")
	{
		inventory.GET("/batches", middleware.Authorize(authz.ActionRead, authz.ResourceInventory), h.ListBatches)
		inventory.GET("/products", middleware.Authorize(authz.ActionRead, authz.ResourceInventory), h.ListProducts)
		inventory.DELETE("/groups/:productID/:batchNumber", middleware.Authorize(authz.ActionDelete, authz.ResourceInventory), h.DeleteGroup)
	}
}

// ListBatches handles GET /inventory/batches
// @Summary      Batch availability
// @Description  Per-batch stock with reservations subtracted: available = received - reserved by open orders
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  query     string  false  "Filter by product"
// @Success      200         {object}  response.Response{data=[]model.BatchAvailability}
// @Router       /inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	batches, err := h.inventoryService.ListBatchAvailability(c.Request.Context(), c.Query("product_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, batches))
}

// ListProducts handles GET /inventory/products
// @Summary      Product availability
// @Description  Availability aggregated per product across all batches
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.ProductAvailability}
// @Router       /inventory/products [get]
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	products, err := h.inventoryService.ListProductAvailability(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// DeleteGroup handles DELETE /inventory/groups/:productID/:batchNumber
// @Summary      Delete inventory group
// @Description  Removes a (product, batch number) group and detaches order lines that referenced its batches
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        productID    path      string  true  "Product ID"
// @Param        batchNumber  path      string  true  "Batch number"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Router       /inventory/groups/{productID}/{batchNumber} [delete]
func (h *InventoryHandler) DeleteGroup(c *gin.Context) {
	unlinked, err := h.inventoryService.DeleteGroup(c.Request.Context(), actorID(c), c.Param("productID"), c.Param("batchNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"message":              "Inventory group deleted",
		"unlinked_order_lines": unlinked,
	}))
}
