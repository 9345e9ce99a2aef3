package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"kitstock/internal/core/appctx"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/batch"
	"kitstock/internal/infrastructure/http/v1/dto"
	"kitstock/internal/infrastructure/storage/postgres"
)

// HistoryReader reads archived allocation events.
type HistoryReader interface {
	BatchHistory(ctx context.Context, batchID id.ID, limit int) ([]postgres.ArchiveEntry, error)
}

// BatchHandler serves batch documents and the allocation recorder.
type BatchHandler struct {
	*BaseHandler
	service  *batch.Service
	products batch.ProductStocker
	history  HistoryReader
}

// NewBatchHandler creates a batch handler. products and history may be nil.
func NewBatchHandler(base *BaseHandler, service *batch.Service, products batch.ProductStocker, history HistoryReader) *BatchHandler {
	return &BatchHandler{BaseHandler: base, service: service, products: products, history: history}
}

// RegisterRoutes registers batch endpoints on the group.
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/:id/allocations", h.RecordAllocation)
	rg.POST("/:id/allocate", h.Allocate)
	rg.POST("/:id/receive", h.ReceiveStock)
	rg.POST("/:id/consume", h.ConsumeStock)

	if h.history != nil {
		rg.GET("/:id/history", h.History)
	}
}

// History handles GET /batches/:id/history: archived allocation events,
// newest first.
func (h *BatchHandler) History(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 100)
	entries, err := h.history.BatchHistory(c.Request.Context(), batchID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}

// Create handles POST /batches.
func (h *BatchHandler) Create(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity()
	b.CreatedBy = h.GetUserID(c)
	b.UpdatedBy = b.CreatedBy

	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, b.ID.String())
}

// Get handles GET /batches/:id.
func (h *BatchHandler) Get(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// List handles GET /batches.
func (h *BatchHandler) List(c *gin.Context) {
	var query dto.BatchListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	batches, err := h.service.List(c.Request.Context(), batch.ListFilter{
		Search:         query.Search,
		IncludeDeleted: query.IncludeDeleted,
		Limit:          query.Limit,
		Offset:         query.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: batches, Limit: query.Limit, Offset: query.Offset})
}

// Update handles PUT /batches/:id.
func (h *BatchHandler) Update(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	b.Name = req.Name
	b.Items = req.Items
	b.Version = req.Version
	b.UpdatedBy = h.GetUserID(c)

	if err := h.service.Update(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Delete handles DELETE /batches/:id.
func (h *BatchHandler) Delete(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), batchID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RecordAllocation handles POST /batches/:id/allocations.
//
// The response mirrors the recorder's contract: {"recorded": false} with a
// 200 status for not-found and persistence failures, never an error body.
func (h *BatchHandler) RecordAllocation(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordAllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	alloc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.enrichActor(c, &alloc)

	recorded := h.service.RecordAllocation(c.Request.Context(), batchID, alloc)
	h.OK(c, dto.RecordAllocationResponse{Recorded: recorded})
}

// Allocate handles POST /batches/:id/allocate: the full workflow moving
// stock out of the batch, recording the event and stocking the product.
func (h *BatchHandler) Allocate(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordAllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	alloc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.enrichActor(c, &alloc)

	if err := h.service.AllocateFromBatch(c.Request.Context(), batchID, alloc, h.products); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "allocated")
}

// ReceiveStock handles POST /batches/:id/receive.
func (h *BatchHandler) ReceiveStock(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReceiveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.service.ReceiveStock(c.Request.Context(), batchID, req.VariantType, req.Color, req.Price, req.Size, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "received")
}

// ConsumeStock handles POST /batches/:id/consume.
func (h *BatchHandler) ConsumeStock(c *gin.Context) {
	batchID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ConsumeStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.service.ConsumeStock(c.Request.Context(), batchID, req.VariantType, req.Color, req.Size, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "consumed")
}

// enrichActor fills the acting user from the request context when the
// payload does not carry one.
func (h *BatchHandler) enrichActor(c *gin.Context, alloc *entity.AllocationRequest) {
	if alloc.AllocatedBy == "" {
		alloc.AllocatedBy = appctx.GetUserID(c.Request.Context())
	}
	if alloc.AllocatedByName == "" {
		alloc.AllocatedByName = appctx.GetUserName(c.Request.Context())
	}
}
