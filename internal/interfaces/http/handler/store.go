package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vclothes/backend/internal/application/store"
)

// StoreHandler exposes store management endpoints.
type StoreHandler struct {
	BaseHandler
	storeService *store.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *store.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Create creates a store
// POST /api/v1/stores
func (h *StoreHandler) Create(c *gin.Context) {
	var req store.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.storeService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update updates a store
// PUT /api/v1/stores/:id
func (h *StoreHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	var req store.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.storeService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a store by ID
// GET /api/v1/stores/:id
func (h *StoreHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	resp, err := h.storeService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated store list
// GET /api/v1/stores
func (h *StoreHandler) List(c *gin.Context) {
	filter := bindFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]interface{}{"status": status}
	}

	result, err := h.storeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// Deactivate closes a store to new stock and orders
// POST /api/v1/stores/:id/deactivate
func (h *StoreHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	if err := h.storeService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate reopens a store
// POST /api/v1/stores/:id/activate
func (h *StoreHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	if err := h.storeService.Activate(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
