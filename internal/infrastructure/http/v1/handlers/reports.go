package handlers

import (
	"github.com/gin-gonic/gin"

	"kitstock/internal/domain/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler serves allocation reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers report endpoints on the group.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/batches/:id/summary", h.BatchSummary)
	rg.GET("/batches/:id/flow", h.ProductFlow)
	rg.GET("/overview", h.Overview)
	rg.GET("/unallocated", h.Unallocated)
	rg.GET("/unallocated/export", h.ExportUnallocated)
	rg.GET("/overview/export", h.ExportOverview)
}

// BatchSummary handles GET /reports/batches/:id/summary.
func (h *ReportsHandler) BatchSummary(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.service.BatchSummary(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// ProductFlow handles GET /reports/batches/:id/flow.
func (h *ReportsHandler) ProductFlow(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	flow, err := h.service.ProductFlow(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, flow)
}

// Overview handles GET /reports/overview.
func (h *ReportsHandler) Overview(c *gin.Context) {
	agg, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, agg)
}

// Unallocated handles GET /reports/unallocated.
func (h *ReportsHandler) Unallocated(c *gin.Context) {
	items, err := h.service.UnallocatedStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// ExportUnallocated handles GET /reports/unallocated/export.
func (h *ReportsHandler) ExportUnallocated(c *gin.Context) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="unallocated-stock.xlsx"`)

	if err := h.service.ExportUnallocatedStock(c.Request.Context(), c.Writer); err != nil {
		h.Error(c, err)
	}
}

// ExportOverview handles GET /reports/overview/export.
func (h *ReportsHandler) ExportOverview(c *gin.Context) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="allocation-overview.xlsx"`)

	if err := h.service.ExportOverview(c.Request.Context(), c.Writer); err != nil {
		h.Error(c, err)
	}
}
