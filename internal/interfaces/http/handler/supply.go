package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vclothes/backend/internal/application/supply"
)

// SupplyHandler exposes supply intake endpoints. Records are immutable once
// created, so the surface is create/read only.
type SupplyHandler struct {
	BaseHandler
	supplyService *supply.SupplyService
}

// NewSupplyHandler creates a new supply handler
func NewSupplyHandler(supplyService *supply.SupplyService) *SupplyHandler {
	return &SupplyHandler{supplyService: supplyService}
}

// Create records a supply delivery and increments variant stock
// POST /api/v1/supplies
func (h *SupplyHandler) Create(c *gin.Context) {
	recordedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req supply.CreateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.supplyService.Create(c.Request.Context(), &req, recordedBy)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a supply record by ID
// GET /api/v1/supplies/:id
func (h *SupplyHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supply ID format")
		return
	}

	resp, err := h.supplyService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated list of supply records
// GET /api/v1/supplies
func (h *SupplyHandler) List(c *gin.Context) {
	filter := bindFilter(c)
	filters := map[string]interface{}{}
	if storeID := c.Query("store_id"); storeID != "" {
		filters["store_id"] = storeID
	}
	if recordedBy := c.Query("recorded_by"); recordedBy != "" {
		filters["recorded_by"] = recordedBy
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}

	result, err := h.supplyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}
