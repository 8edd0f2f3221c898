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

type ReceiptHandler struct {
	receiptService service.ReceiptService
}

func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

func (h *ReceiptHandler) RegisterRoutes(router *gin.RouterGroup) {
	receipts := router.Group("/goods-receipts")
	{
		receipts.GET("", middleware.Authorize(authz.ActionRead, authz.ResourceReceipt), h.ListReceipts)
		receipts.GET("/:id", middleware.Authorize(authz.ActionRead, authz.ResourceReceipt), h.GetReceipt)
		receipts.POST("", middleware.Authorize(authz.ActionWrite, authz.ResourceReceipt), h.SaveReceipt)
	}
}

// ListReceipts handles GET /goods-receipts
// @Summary      List goods receipts
// @Tags         goods-receipts
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (draft, final)"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=response.Paginated}
// @Router       /goods-receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	p := pagination.Parse(c)

	receipts, total, err := h.receiptService.ListReceipts(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, receipts, p.Page, p.Limit, total))
}

// GetReceipt handles GET /goods-receipts/:id
// @Summary      Get goods receipt by id
// @Tags         goods-receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=service.ReceiptResponse}
// @Failure      404  {object}  response.Response
// @Router       /goods-receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

// SaveReceipt handles POST /goods-receipts
// @Summary      Save receiving form
// @Description  Saves the receiving form as a draft, or finalizes it: every line confirmed with an expiry date, inventory booked per line and the purchase order marked received
// @Tags         goods-receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ReceiveRequest  true  "Receiving form"
// @Success      200      {object}  response.Response{data=service.ReceiptResponse}
// @Failure      400      {object}  response.Response
// @Router       /goods-receipts [post]
func (h *ReceiptHandler) SaveReceipt(c *gin.Context) {
	var req service.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	receipt, err := h.receiptService.SaveReceipt(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}
