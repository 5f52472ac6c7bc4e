package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vclothes/backend/internal/application/catalog"
)

// BrandHandler exposes brand management endpoints.
type BrandHandler struct {
	BaseHandler
	brandService *catalog.BrandService
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(brandService *catalog.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// Create creates a brand
// POST /api/v1/brands
func (h *BrandHandler) Create(c *gin.Context) {
	var req catalog.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	brand, err := h.brandService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, brand)
}

// Update updates a brand
// PUT /api/v1/brands/:id
func (h *BrandHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid brand ID format")
		return
	}

	var req catalog.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	brand, err := h.brandService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, brand)
}

// Get returns a brand by ID
// GET /api/v1/brands/:id
func (h *BrandHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid brand ID format")
		return
	}

	brand, err := h.brandService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, brand)
}

// List returns a paginated brand list
// GET /api/v1/brands
func (h *BrandHandler) List(c *gin.Context) {
	filter := bindFilter(c)

	result, err := h.brandService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// Delete removes a brand that no product references
// DELETE /api/v1/brands/:id
func (h *BrandHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid brand ID format")
		return
	}

	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
