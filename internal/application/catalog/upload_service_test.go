package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/domain/catalog"
)

// fakeObjectStorage is an in-memory ObjectStorageService
type fakeObjectStorage struct {
	objects map[string]bool
	deleted []string
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string]bool)}
}

func (s *fakeObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://bucket.test/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (s *fakeObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://bucket.test/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (s *fakeObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	delete(s.objects, storageKey)
	s.deleted = append(s.deleted, storageKey)
	return nil
}

func (s *fakeObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	return s.objects[storageKey], nil
}

func newUploadFixture(t *testing.T) (*UploadService, *fakeProductRepo, *fakeObjectStorage, *catalog.Product) {
	t.Helper()
	repo := newFakeProductRepo()
	storage := newFakeObjectStorage()
	service := NewUploadService(repo, storage, zap.NewNop())

	product, err := catalog.NewProduct("Linen Shirt", "VCL-SHIRT-0001", "pcs")
	require.NoError(t, err)
	require.NoError(t, product.Reconcile())
	require.NoError(t, repo.Save(context.Background(), product))
	return service, repo, storage, product
}

func TestUploadService_InitiateImageUpload(t *testing.T) {
	t.Run("issues presigned URL under the product prefix", func(t *testing.T) {
		service, _, _, product := newUploadFixture(t)

		resp, err := service.InitiateImageUpload(context.Background(), &InitiateImageUploadRequest{
			ProductID:   product.ID,
			FileName:    "front.JPG",
			ContentType: "image/jpeg",
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.StorageKey, "products/"+product.ID.String()+"/"))
		assert.True(t, strings.HasSuffix(resp.StorageKey, ".jpg"))
		assert.Contains(t, resp.UploadURL, resp.StorageKey)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		service, _, _, product := newUploadFixture(t)

		_, err := service.InitiateImageUpload(context.Background(), &InitiateImageUploadRequest{
			ProductID:   product.ID,
			FileName:    "logo.svg",
			ContentType: "image/svg+xml",
		})

		assert.Equal(t, "DISALLOWED_CONTENT_TYPE", errorCode(t, err))
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		service, _, _, _ := newUploadFixture(t)

		_, err := service.InitiateImageUpload(context.Background(), &InitiateImageUploadRequest{
			ProductID:   uuid.New(),
			FileName:    "front.jpg",
			ContentType: "image/jpeg",
		})

		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})

	t.Run("enforces the image limit", func(t *testing.T) {
		service, repo, _, product := newUploadFixture(t)
		service.SetConfig(UploadServiceConfig{
			UploadURLExpiry:     time.Minute,
			DownloadURLExpiry:   time.Minute,
			MaxImagesPerProduct: 1,
		})
		product.SetImages(catalog.ProductImages{{URL: "products/x/a.jpg", IsPrimary: true}})
		require.NoError(t, repo.Save(context.Background(), product))

		_, err := service.InitiateImageUpload(context.Background(), &InitiateImageUploadRequest{
			ProductID:   product.ID,
			FileName:    "back.jpg",
			ContentType: "image/jpeg",
		})

		assert.Equal(t, "IMAGE_LIMIT_EXCEEDED", errorCode(t, err))
	})
}

func TestUploadService_AttachImage(t *testing.T) {
	t.Run("attaches uploaded object", func(t *testing.T) {
		service, repo, storage, product := newUploadFixture(t)
		storage.objects["products/p/front.jpg"] = true

		resp, err := service.AttachImage(context.Background(), &AttachImageRequest{
			ProductID:  product.ID,
			StorageKey: "products/p/front.jpg",
			IsPrimary:  true,
		})

		require.NoError(t, err)
		require.Len(t, resp.Images, 1)
		assert.Equal(t, "products/p/front.jpg", resp.Images[0].URL)
		assert.True(t, resp.Images[0].IsPrimary)

		stored, err := repo.FindByID(context.Background(), product.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Images, 1)
	})

	t.Run("new primary demotes the existing primary", func(t *testing.T) {
		service, _, storage, product := newUploadFixture(t)
		storage.objects["products/p/a.jpg"] = true
		storage.objects["products/p/b.jpg"] = true

		_, err := service.AttachImage(context.Background(), &AttachImageRequest{
			ProductID: product.ID, StorageKey: "products/p/a.jpg", IsPrimary: true,
		})
		require.NoError(t, err)
		resp, err := service.AttachImage(context.Background(), &AttachImageRequest{
			ProductID: product.ID, StorageKey: "products/p/b.jpg", IsPrimary: true,
		})
		require.NoError(t, err)

		require.Len(t, resp.Images, 2)
		assert.False(t, resp.Images[0].IsPrimary)
		assert.True(t, resp.Images[1].IsPrimary)
	})

	t.Run("rejects object that was never uploaded", func(t *testing.T) {
		service, _, _, product := newUploadFixture(t)

		_, err := service.AttachImage(context.Background(), &AttachImageRequest{
			ProductID:  product.ID,
			StorageKey: "products/p/ghost.jpg",
		})

		assert.Equal(t, "OBJECT_NOT_UPLOADED", errorCode(t, err))
	})

	t.Run("rejects duplicate attachment", func(t *testing.T) {
		service, _, storage, product := newUploadFixture(t)
		storage.objects["products/p/a.jpg"] = true

		_, err := service.AttachImage(context.Background(), &AttachImageRequest{
			ProductID: product.ID, StorageKey: "products/p/a.jpg",
		})
		require.NoError(t, err)
		_, err = service.AttachImage(context.Background(), &AttachImageRequest{
			ProductID: product.ID, StorageKey: "products/p/a.jpg",
		})

		assert.Equal(t, "ALREADY_EXISTS", errorCode(t, err))
	})
}

func TestUploadService_RemoveImage(t *testing.T) {
	t.Run("removes image and deletes the object", func(t *testing.T) {
		service, _, storage, product := newUploadFixture(t)
		storage.objects["products/p/a.jpg"] = true
		_, err := service.AttachImage(context.Background(), &AttachImageRequest{
			ProductID: product.ID, StorageKey: "products/p/a.jpg",
		})
		require.NoError(t, err)

		resp, err := service.RemoveImage(context.Background(), product.ID, "products/p/a.jpg")

		require.NoError(t, err)
		assert.Empty(t, resp.Images)
		assert.Contains(t, storage.deleted, "products/p/a.jpg")
	})

	t.Run("returns not found for unknown key", func(t *testing.T) {
		service, _, _, product := newUploadFixture(t)

		_, err := service.RemoveImage(context.Background(), product.ID, "products/p/ghost.jpg")

		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}

func TestUploadService_ResolveImageURL(t *testing.T) {
	t.Run("returns presigned download URL", func(t *testing.T) {
		service, _, _, _ := newUploadFixture(t)

		url, expiresAt, err := service.ResolveImageURL(context.Background(), "products/p/a.jpg")

		require.NoError(t, err)
		assert.Equal(t, "https://bucket.test/download/products/p/a.jpg", url)
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("rejects blank key", func(t *testing.T) {
		service, _, _, _ := newUploadFixture(t)

		_, _, err := service.ResolveImageURL(context.Background(), "  ")

		assert.Equal(t, "INVALID_INPUT", errorCode(t, err))
	})
}
