package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/shared"
)

// AllowedImageContentTypes is the whitelist of content types accepted for
// product images. SVG is excluded because it can carry scripts.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3-compatible backends).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// UploadServiceConfig holds configuration for the upload service
type UploadServiceConfig struct {
	// UploadURLExpiry is the duration for which upload URLs are valid
	UploadURLExpiry time.Duration
	// DownloadURLExpiry is the duration for which download URLs are valid
	DownloadURLExpiry time.Duration
	// MaxImagesPerProduct is the maximum number of images per product
	MaxImagesPerProduct int
}

// DefaultUploadServiceConfig returns the default configuration
func DefaultUploadServiceConfig() UploadServiceConfig {
	return UploadServiceConfig{
		UploadURLExpiry:     15 * time.Minute,
		DownloadURLExpiry:   1 * time.Hour,
		MaxImagesPerProduct: 12,
	}
}

// UploadService issues presigned URLs for product image uploads and attaches
// uploaded objects to the product's image list
type UploadService struct {
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	config      UploadServiceConfig
	logger      *zap.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(
	productRepo catalog.ProductRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		productRepo: productRepo,
		storage:     storage,
		config:      DefaultUploadServiceConfig(),
		logger:      logger,
	}
}

// SetConfig sets the service configuration
func (s *UploadService) SetConfig(config UploadServiceConfig) {
	s.config = config
}

// InitiateImageUpload validates the request and returns a presigned upload
// URL. The client uploads directly to storage and then calls AttachImage with
// the returned storage key.
func (s *UploadService) InitiateImageUpload(ctx context.Context, req *InitiateImageUploadRequest) (*InitiateImageUploadResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if !AllowedImageContentTypes[req.ContentType] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed for product images", req.ContentType))
	}
	if len(product.Images) >= s.config.MaxImagesPerProduct {
		return nil, shared.NewDomainError("IMAGE_LIMIT_EXCEEDED",
			fmt.Sprintf("Maximum %d images per product allowed", s.config.MaxImagesPerProduct))
	}

	storageKey := buildImageStorageKey(product.ID, req.FileName)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &InitiateImageUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// AttachImage records an uploaded object on the product's image list. The
// object must exist in storage; marking an image primary demotes the current
// primary.
func (s *UploadService) AttachImage(ctx context.Context, req *AttachImageRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("OBJECT_NOT_UPLOADED", "No uploaded object found for the storage key")
	}

	images := make(catalog.ProductImages, 0, len(product.Images)+1)
	for _, img := range product.Images {
		if img.URL == req.StorageKey {
			return nil, shared.ErrAlreadyExists
		}
		if req.IsPrimary {
			img.IsPrimary = false
		}
		images = append(images, img)
	}
	images = append(images, catalog.ProductImage{URL: req.StorageKey, IsPrimary: req.IsPrimary})
	product.SetImages(images)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product image attached",
		zap.String("product_id", product.ID.String()),
		zap.String("storage_key", req.StorageKey))
	return ToProductResponse(product), nil
}

// RemoveImage deletes an image from the product and from storage
func (s *UploadService) RemoveImage(ctx context.Context, productID uuid.UUID, storageKey string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	images := make(catalog.ProductImages, 0, len(product.Images))
	found := false
	for _, img := range product.Images {
		if img.URL == storageKey {
			found = true
			continue
		}
		images = append(images, img)
	}
	if !found {
		return nil, shared.ErrNotFound
	}
	product.SetImages(images)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := s.storage.DeleteObject(ctx, storageKey); err != nil {
		// The catalog no longer references the object; an orphan in the
		// bucket is preferable to failing the request.
		s.logger.Warn("failed to delete image object",
			zap.String("storage_key", storageKey),
			zap.Error(err))
	}
	return ToProductResponse(product), nil
}

// ResolveImageURL returns a presigned download URL for a stored image key
func (s *UploadService) ResolveImageURL(ctx context.Context, storageKey string) (string, time.Time, error) {
	if strings.TrimSpace(storageKey) == "" {
		return "", time.Time{}, shared.NewDomainError("INVALID_INPUT", "Storage key is required")
	}
	return s.storage.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
}

// buildImageStorageKey builds a collision-free bucket key under the product's
// prefix, keeping the original file extension
func buildImageStorageKey(productID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), ext)
}
