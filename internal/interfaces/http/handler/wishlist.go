package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vclothes/backend/internal/application/engagement"
)

// WishlistHandler exposes the current user's wishlist.
type WishlistHandler struct {
	BaseHandler
	wishlistService *engagement.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *engagement.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// Get returns the current user's wishlist, creating it on first access
// GET /api/v1/wishlist
func (h *WishlistHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	wishlist, err := h.wishlistService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// AddProduct adds a product to the current user's wishlist
// POST /api/v1/wishlist/products/:productId
func (h *WishlistHandler) AddProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	wishlist, err := h.wishlistService.AddProduct(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// RemoveProduct removes a product from the current user's wishlist
// DELETE /api/v1/wishlist/products/:productId
func (h *WishlistHandler) RemoveProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	wishlist, err := h.wishlistService.RemoveProduct(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wishlist)
}
