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

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices")
	{
		invoices.GET("", middleware.Authorize(authz.ActionRead, authz.ResourceInvoice), h.ListInvoices)
		invoices.GET("/:id", middleware.Authorize(authz.ActionRead, authz.ResourceInvoice), h.GetInvoice)
		invoices.POST("", middleware.Authorize(authz.ActionWrite, authz.ResourceInvoice), h.IssueInvoice)
		invoices.POST("/:id/pay", middleware.Authorize(authz.ActionWrite, authz.ResourceInvoice), h.MarkPaid)
		invoices.POST("/:id/void", middleware.Authorize(authz.ActionWrite, authz.ResourceInvoice), h.Void)
	}
}

// ListInvoices handles GET /invoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (issued, paid, voided)"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=response.Paginated}
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	p := pagination.Parse(c)

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, invoices, p.Page, p.Limit, total))
}

// GetInvoice handles GET /invoices/:id
// @Summary      Get invoice by id
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// IssueInvoice handles POST /invoices
// @Summary      Issue invoice for delivered order
// @Description  Creates the single invoice for a delivered order; the amount is recomputed from the order's lines
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.IssueInvoiceRequest  true  "Issue Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /invoices [post]
func (h *InvoiceHandler) IssueInvoice(c *gin.Context) {
	var req service.IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.IssueForOrder(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// MarkPaid handles POST /invoices/:id/pay
// @Summary      Mark invoice paid
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// Void handles POST /invoices/:id/void
// @Summary      Void invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	invoice, err := h.invoiceService.Void(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}
