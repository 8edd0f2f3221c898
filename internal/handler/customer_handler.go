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

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers")
	{
		customers.GET("", middleware.Authorize(authz.ActionRead, authz.ResourceCustomer), h.ListCustomers)
		customers.GET("/:id", middleware.Authorize(authz.ActionRead, authz.ResourceCustomer), h.GetCustomer)
		customers.POST("", middleware.Authorize(authz.ActionWrite, authz.ResourceCustomer), h.CreateCustomer)
		customers.PUT("/:id", middleware.Authorize(authz.ActionWrite, authz.ResourceCustomer), h.UpdateCustomer)
		customers.DELETE("/:id", middleware.Authorize(authz.ActionDelete, authz.ResourceCustomer), h.DeleteCustomer)
	}
}

// ListCustomers handles GET /customers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search by name or tax id"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=response.Paginated}
// @Router       /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	p := pagination.Parse(c)

	customers, total, err := h.customerService.GetCustomers(c.Request.Context(), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, customers, p.Page, p.Limit, total))
}

// GetCustomer handles GET /customers/:id
// @Summary      Get customer by id
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response{data=service.CustomerResponse}
// @Failure      404  {object}  response.Response
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// CreateCustomer handles POST /customers
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCustomerRequest  true  "Create Customer Payload"
// @Success      201      {object}  response.Response{data=service.CustomerResponse}
// @Failure      400      {object}  response.Response
// @Router       /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, customer))
}

// UpdateCustomer handles PUT /customers/:id
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Customer ID"
// @Param        payload  body      service.UpdateCustomerRequest  true  "Update Customer Payload"
// @Success      200      {object}  response.Response{data=service.CustomerResponse}
// @Failure      400      {object}  response.Response
// @Router       /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req service.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// DeleteCustomer handles DELETE /customers/:id
// @Summary      Delete customer
// @Description  Soft deletes a customer unless orders or wishlist entries reference it
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.customerService.DeleteCustomer(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrReferenced) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Customer deleted successfully"}))
}
