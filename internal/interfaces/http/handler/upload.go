package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vclothes/backend/internal/application/catalog"
)

// UploadHandler exposes presigned product image upload endpoints. Clients
// upload directly to object storage; the API only brokers URLs and attaches
// keys to products.
type UploadHandler struct {
	BaseHandler
	uploadService *catalog.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *catalog.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Initiate returns a presigned PUT URL for a product image
// POST /api/v1/uploads/images
func (h *UploadHandler) Initiate(c *gin.Context) {
	var req catalog.InitiateImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.uploadService.InitiateImageUpload(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Attach links an uploaded image to its product
// POST /api/v1/uploads/images/attach
func (h *UploadHandler) Attach(c *gin.Context) {
	var req catalog.AttachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	product, err := h.uploadService.AttachImage(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Remove detaches an image from a product and deletes the stored object
// DELETE /api/v1/products/:id/images
func (h *UploadHandler) Remove(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	storageKey := c.Query("storage_key")
	if storageKey == "" {
		h.BadRequest(c, "storage_key is required")
		return
	}

	product, err := h.uploadService.RemoveImage(c.Request.Context(), productID, storageKey)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// ResolveURL returns a short-lived download URL for a stored image
// GET /api/v1/uploads/images/url
func (h *UploadHandler) ResolveURL(c *gin.Context) {
	storageKey := c.Query("storage_key")
	if storageKey == "" {
		h.BadRequest(c, "storage_key is required")
		return
	}

	url, expiresAt, err := h.uploadService.ResolveImageURL(c.Request.Context(), storageKey)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url, "expires_at": expiresAt})
}
