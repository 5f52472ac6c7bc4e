package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vclothes/backend/internal/application/order"
	"github.com/vclothes/backend/internal/interfaces/http/middleware"
)

// OrderHandler exposes order placement and fulfillment endpoints. Customers
// only see their own orders; staff endpoints are guarded by role middleware
// at the router.
type OrderHandler struct {
	BaseHandler
	orderService *order.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create places an order, pricing and deducting stock atomically
// POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	purchaserID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.orderService.Create(c.Request.Context(), &req, purchaserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns an order. Customers can only read their own orders.
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	requesterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.orderService.Get(c.Request.Context(), id, requesterID, middleware.IsStaff(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListMine returns the current user's orders, newest first
// GET /api/v1/orders/mine
func (h *OrderHandler) ListMine(c *gin.Context) {
	purchaserID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := h.orderService.ListByPurchaser(c.Request.Context(), purchaserID, bindFilter(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// List returns a paginated list of all orders (staff only)
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	filter := bindFilter(c)
	filters := map[string]interface{}{}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		filters["payment_status"] = paymentStatus
	}
	if fulfillmentStatus := c.Query("fulfillment_status"); fulfillmentStatus != "" {
		filters["fulfillment_status"] = fulfillmentStatus
	}
	if purchaserID := c.Query("purchaser_id"); purchaserID != "" {
		filters["purchaser_id"] = purchaserID
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}

	result, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// Ship marks a paid order as shipped (staff only)
// POST /api/v1/orders/:id/ship
func (h *OrderHandler) Ship(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orderService.Ship(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deliver marks a shipped order as delivered (staff only)
// POST /api/v1/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orderService.Deliver(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels an order and restores deducted stock. Customers can cancel
// their own unshipped orders; staff can cancel any unshipped order.
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	requesterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), id, requesterID, middleware.IsStaff(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
