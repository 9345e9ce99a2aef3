package handlers

import (
	"github.com/gin-gonic/gin"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/id"
	"kitstock/internal/domain/product"
	"kitstock/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves product documents and student issues.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers product endpoints on the group.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/:id/issue", h.IssueToStudent)
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	p.CreatedBy = h.GetUserID(c)
	p.UpdatedBy = p.CreatedBy

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID.String())
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ProductListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	products, err := h.service.List(c.Request.Context(), product.ListFilter{
		Search:         query.Search,
		IncludeDeleted: query.IncludeDeleted,
		Limit:          query.Limit,
		Offset:         query.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: products, Limit: query.Limit, Offset: query.Offset})
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	p.Name = req.Name
	p.Price = req.Price
	p.Variants = req.Variants
	p.Version = req.Version
	p.UpdatedBy = h.GetUserID(c)

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// IssueToStudent handles POST /products/:id/issue.
func (h *ProductHandler) IssueToStudent(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.IssueToStudentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	studentID, err := id.Parse(req.StudentID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid studentId").WithDetail("studentId", req.StudentID))
		return
	}

	err = h.service.IssueToStudent(c.Request.Context(), productID, req.VariantType, req.Color, req.Size, studentID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "issued")
}
