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

type SupplierHandler struct {
	supplierService service.SupplierService
}

func NewSupplierHandler(supplierService service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	suppliers := router.Group("/suppliers")
	{
		suppliers.GET("", middleware.Authorize(authz.ActionRead, authz.ResourceSupplier), h.ListSuppliers)
		suppliers.GET("/:id", middleware.Authorize(authz.ActionRead, authz.ResourceSupplier), h.GetSupplier)
		suppliers.POST("", middleware.Authorize(authz.ActionWrite, authz.ResourceSupplier), h.CreateSupplier)
		suppliers.PUT("/:id", middleware.Authorize(authz.ActionWrite, authz.ResourceSupplier), h.UpdateSupplier)
		suppliers.DELETE("/:id", middleware.Authorize(authz.ActionDelete, authz.ResourceSupplier), h.DeleteSupplier)
	}
}

// ListSuppliers handles GET /suppliers
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search by name or tax id"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=response.Paginated}
// @Router       /suppliers [get]
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	p := pagination.Parse(c)

	suppliers, total, err := h.supplierService.GetSuppliers(c.Request.Context(), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, suppliers, p.Page, p.Limit, total))
}

// GetSupplier handles GET /suppliers/:id
// @Summary      Get supplier by id
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  response.Response{data=service.SupplierResponse}
// @Failure      404  {object}  response.Response
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// CreateSupplier handles POST /suppliers
// @Summary      Create supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSupplierRequest  true  "Create Supplier Payload"
// @Success      201      {object}  response.Response{data=service.SupplierResponse}
// @Failure      400      {object}  response.Response
// @Router       /suppliers [post]
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, supplier))
}

// UpdateSupplier handles PUT /suppliers/:id
// @Summary      Update supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Supplier ID"
// @Param        payload  body      service.UpdateSupplierRequest  true  "Update Supplier Payload"
// @Success      200      {object}  response.Response{data=service.SupplierResponse}
// @Failure      400      {object}  response.Response
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// DeleteSupplier handles DELETE /suppliers/:id
// @Summary      Delete supplier
// @Description  Soft deletes a supplier unless purchase orders reference it
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.supplierService.DeleteSupplier(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrReferenced) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Supplier deleted successfully"}))
}
