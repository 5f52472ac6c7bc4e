package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/application/payment"
	"github.com/vclothes/backend/internal/interfaces/http/middleware"
)

// PaymentHandler exposes checkout and webhook endpoints. The webhook route is
// unauthenticated; the provider signature is the only credential accepted.
type PaymentHandler struct {
	BaseHandler
	paymentService *payment.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CheckoutRequest identifies the order to open a checkout session for
type CheckoutRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// StartCheckout opens a provider checkout session for a pending card order
// POST /api/v1/payments/checkout
func (h *PaymentHandler) StartCheckout(c *gin.Context) {
	requesterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.paymentService.StartCheckout(
		c.Request.Context(),
		req.OrderID,
		requesterID,
		middleware.IsStaff(c),
		middleware.GetJWTEmail(c),
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Webhook receives provider payment events. The raw body is passed through
// untouched so signature verification sees exactly what the provider signed.
// POST /api/v1/payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		h.BadRequest(c, "Failed to read webhook payload")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.Unauthorized(c, "Missing webhook signature")
		return
	}

	result, err := h.paymentService.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		// A failed signature check must not be retried by the provider as
		// a server error.
		h.ErrorWithCode(c, http.StatusBadRequest, "BAD_REQUEST", "Webhook verification failed")
		return
	}

	h.Success(c, result)
}
