package handlers

import (
	"github.com/gin-gonic/gin"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/order"
	"kitstock/internal/infrastructure/http/v1/dto"
)

// OrderHandler serves school orders.
type OrderHandler struct {
	*BaseHandler
	service *order.Service
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(base *BaseHandler, service *order.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers order endpoints on the group.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/fulfill", h.Fulfill)
	rg.POST("/:id/cancel", h.Cancel)
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	o.CreatedBy = h.GetUserID(c)
	o.UpdatedBy = o.CreatedBy

	if err := h.service.Create(c.Request.Context(), o); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"id": o.ID.String(), "number": o.Number})
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	var query dto.OrderListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	filter := order.ListFilter{
		IncludeDeleted: query.IncludeDeleted,
		Limit:          query.Limit,
		Offset:         query.Offset,
	}
	if query.SchoolID != "" {
		schoolID, err := id.Parse(query.SchoolID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid schoolId").WithDetail("schoolId", query.SchoolID))
			return
		}
		filter.SchoolID = &schoolID
	}
	if query.Status != "" {
		status := entity.OrderStatus(query.Status)
		filter.Status = &status
	}

	orders, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: orders, Limit: query.Limit, Offset: query.Offset})
}

// Fulfill handles POST /orders/:id/fulfill.
func (h *OrderHandler) Fulfill(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Fulfill(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "fulfilled")
}

// Cancel handles POST /orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "cancelled")
}
