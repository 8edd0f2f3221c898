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

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs", middleware.Authorize(authz.ActionRead, authz.ResourceAudit), h.ListLogs)
}

// ListLogs handles GET /audit-logs
// @Summary      List audit log entries
// @Description  Who did what and when, newest first
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action  query     string  false  "Filter by action code"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=response.Paginated}
// @Router       /audit-logs [get]
func (h *AuditHandler) ListLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.List(c.Request.Context(), c.Query("action"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, logs, p.Page, p.Limit, total))
}
