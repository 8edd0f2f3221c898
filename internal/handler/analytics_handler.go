package handler

import (
	"net/http"
	"strconv"

	"supplyflow/internal/authz"
	"supplyflow/internal/middleware"
	"supplyflow/internal/service"
	"supplyflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics", middleware.Authorize(authz.ActionRead, authz.ResourceAnalytics))
	{
		analytics.GET("/kpis", h.GetKPIs)
		analytics.GET("/sales-chart", h.GetSalesChart)
		analytics.GET("/top-products", h.GetTopProducts)
		analytics.GET("/top-customers", h.GetTopCustomers)
	}
}

// GetKPIs handles GET /analytics/kpis
// @Summary      Dashboard KPIs
// @Description  Revenue, delivered/open/cancelled order counts and unique customers over a date range
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD), defaults to 30 days ago"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD), defaults to today"
// @Success      200         {object}  response.Response{data=model.KPIResponse}
// @Failure      400         {object}  response.Response
// @Router       /analytics/kpis [get]
func (h *AnalyticsHandler) GetKPIs(c *gin.Context) {
	kpis, err := h.analyticsService.GetKPIs(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, kpis))
}

// GetSalesChart handles GET /analytics/sales-chart
// @Summary      Daily sales chart
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=[]model.SalesPoint}
// @Failure      400         {object}  response.Response
// @Router       /analytics/sales-chart [get]
func (h *AnalyticsHandler) GetSalesChart(c *gin.Context) {
	points, err := h.analyticsService.GetSalesChart(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

// GetTopProducts handles GET /analytics/top-products
// @Summary      Top products by sold quantity
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Param        limit       query     int     false  "Number of products, default 10"
// @Success      200         {object}  response.Response{data=[]model.ProductRanking}
// @Failure      400         {object}  response.Response
// @Router       /analytics/top-products [get]
func (h *AnalyticsHandler) GetTopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := h.analyticsService.GetTopProducts(c.Request.Context(), c.Query("start_date"), c.Query("end_date"), limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetTopCustomers handles GET /analytics/top-customers
// @Summary      Top customers by order value
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Param        limit       query     int     false  "Number of customers, default 10"
// @Success      200         {object}  response.Response{data=[]model.CustomerRanking}
// @Failure      400         {object}  response.Response
// @Router       /analytics/top-customers [get]
func (h *AnalyticsHandler) GetTopCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	customers, err := h.analyticsService.GetTopCustomers(c.Request.Context(), c.Query("start_date"), c.Query("end_date"), limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customers))
}
