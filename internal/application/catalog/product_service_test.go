package catalog

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/shared"
)

type productServiceFixture struct {
	service      *ProductService
	productRepo  *fakeProductRepo
	categoryRepo *fakeCategoryRepo
	brandRepo    *fakeBrandRepo
	categoryID   uuid.UUID
	brandID      uuid.UUID
}

func newProductServiceFixture(t *testing.T) *productServiceFixture {
	t.Helper()

	categoryRepo := newFakeCategoryRepo()
	category, err := catalog.NewCategory("Shoes", "SHO")
	require.NoError(t, err)
	require.NoError(t, categoryRepo.Save(context.Background(), category))

	brandRepo := newFakeBrandRepo()
	brand, err := catalog.NewBrand("Nike", "NKE")
	require.NoError(t, err)
	require.NoError(t, brandRepo.Save(context.Background(), brand))

	productRepo := newFakeProductRepo()
	return &productServiceFixture{
		service:      NewProductService(productRepo, categoryRepo, brandRepo, 3, zap.NewNop()),
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		categoryID:   category.ID,
		brandID:      brand.ID,
	}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("simple product with generated SKU", func(t *testing.T) {
		f := newProductServiceFixture(t)
		price := dec("49.99")
		qty := int64(12)

		resp, err := f.service.Create(ctx, &CreateProductRequest{
			Name:            "Plain Tee",
			CategoryID:      &f.categoryID,
			BrandID:         &f.brandID,
			SellingPrice:    &price,
			QuantityInStock: &qty,
		})
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-\d{4}$`), resp.SKU)
		assert.False(t, resp.HasVariants)
		assert.Equal(t, int64(12), resp.TotalStock)
		assert.True(t, price.Equal(resp.MinPrice))
		assert.True(t, price.Equal(resp.MaxPrice))
	})

	t.Run("uncategorized product falls back to generic segment", func(t *testing.T) {
		f := newProductServiceFixture(t)
		resp, err := f.service.Create(ctx, &CreateProductRequest{Name: "Mystery Box"})
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^VCL-GEN-\d{4}$`), resp.SKU)
	})

	t.Run("single-size variants carry the size segment", func(t *testing.T) {
		f := newProductServiceFixture(t)
		storeID := uuid.New()

		resp, err := f.service.Create(ctx, &CreateProductRequest{
			Name:       "Court Sneaker",
			CategoryID: &f.categoryID,
			BrandID:    &f.brandID,
			Variants: []VariantRequest{
				{Size: "XL", Attributes: []AttributeRequest{{Key: "color", Value: "white"}}, Price: dec("89.00"), StoreStocks: []StoreStockRequest{{StoreID: storeID, Quantity: 4}}},
				{Size: "XL", Attributes: []AttributeRequest{{Key: "color", Value: "black"}}, Price: dec("95.00")},
			},
		})
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-XL-\d{4}$`), resp.SKU)
		assert.True(t, resp.HasVariants)
		require.Len(t, resp.Variants, 2)
		for _, v := range resp.Variants {
			assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-XL-\d{4}$`), v.SKU)
		}
		assert.Equal(t, int64(4), resp.TotalStock)
		assert.True(t, dec("89.00").Equal(resp.MinPrice))
		assert.True(t, dec("95.00").Equal(resp.MaxPrice))
	})

	t.Run("mixed sizes omit the size segment", func(t *testing.T) {
		f := newProductServiceFixture(t)
		resp, err := f.service.Create(ctx, &CreateProductRequest{
			Name:       "Runner",
			CategoryID: &f.categoryID,
			Variants: []VariantRequest{
				{Size: "M", Price: dec("50.00")},
				{Size: "L", Price: dec("50.00")},
			},
		})
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-\d{4}$`), resp.SKU)
	})

	t.Run("regenerates SKU on collision", func(t *testing.T) {
		f := newProductServiceFixture(t)
		f.productRepo.saveFails = 2

		resp, err := f.service.Create(ctx, &CreateProductRequest{Name: "Collider", CategoryID: &f.categoryID})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.SKU)
	})

	t.Run("gives up after exhausting SKU attempts", func(t *testing.T) {
		f := newProductServiceFixture(t)
		f.productRepo.saveFails = skuGenerationAttempts

		_, err := f.service.Create(ctx, &CreateProductRequest{Name: "Collider", CategoryID: &f.categoryID})
		assert.Equal(t, "ALREADY_EXISTS", errorCode(t, err))
	})

	t.Run("rejects duplicate variant combinations", func(t *testing.T) {
		f := newProductServiceFixture(t)
		_, err := f.service.Create(ctx, &CreateProductRequest{
			Name:       "Dup",
			CategoryID: &f.categoryID,
			Variants: []VariantRequest{
				{Size: "M", Attributes: []AttributeRequest{{Key: "color", Value: "red"}}, Price: dec("10")},
				{Size: "M", Attributes: []AttributeRequest{{Key: "color", Value: "red"}}, Price: dec("12")},
			},
		})
		assert.Equal(t, "DUPLICATE_VARIANT", errorCode(t, err))
	})

	t.Run("unknown category fails", func(t *testing.T) {
		f := newProductServiceFixture(t)
		missing := uuid.New()
		_, err := f.service.Create(ctx, &CreateProductRequest{Name: "Orphan", CategoryID: &missing})
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *productServiceFixture) *ProductResponse {
		t.Helper()
		resp, err := f.service.Create(ctx, &CreateProductRequest{
			Name:       "Court Sneaker",
			CategoryID: &f.categoryID,
			Variants: []VariantRequest{
				{Size: "M", Price: dec("50.00"), StoreStocks: []StoreStockRequest{{StoreID: uuid.New(), Quantity: 5}}},
				{Size: "L", Price: dec("60.00")},
			},
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("updates basics and reprices a variant", func(t *testing.T) {
		f := newProductServiceFixture(t)
		created := create(t, f)

		req := &UpdateProductRequest{
			Name: "Court Sneaker v2",
			Variants: []VariantRequest{
				{SKU: created.Variants[0].SKU, Size: "M", Price: dec("55.00")},
				{SKU: created.Variants[1].SKU, Size: "L", Price: dec("60.00")},
			},
		}
		resp, err := f.service.Update(ctx, created.ID, req)
		require.NoError(t, err)

		assert.Equal(t, "Court Sneaker v2", resp.Name)
		assert.True(t, dec("55.00").Equal(resp.MinPrice))
		// the repriced variant keeps its ledger and gains a history entry
		assert.Equal(t, int64(5), resp.Variants[0].TotalStock)
		assert.Len(t, resp.Variants[0].PriceHistory, 2)
	})

	t.Run("retries through a version conflict", func(t *testing.T) {
		f := newProductServiceFixture(t)
		created := create(t, f)
		f.productRepo.conflicts = 2

		resp, err := f.service.Update(ctx, created.ID, &UpdateProductRequest{Name: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Name)
	})

	t.Run("surfaces the conflict when retries are exhausted", func(t *testing.T) {
		f := newProductServiceFixture(t)
		created := create(t, f)
		f.productRepo.conflicts = 3

		_, err := f.service.Update(ctx, created.ID, &UpdateProductRequest{Name: "Renamed"})
		assert.Equal(t, "CONCURRENCY_CONFLICT", errorCode(t, err))
	})

	t.Run("echoing derived variation options is accepted", func(t *testing.T) {
		f := newProductServiceFixture(t)
		created := create(t, f)

		resp, err := f.service.Update(ctx, created.ID, &UpdateProductRequest{
			Name:             created.Name,
			VariationOptions: created.VariationOptions,
		})
		require.NoError(t, err)
		assert.Equal(t, created.VariationOptions, resp.VariationOptions)
	})

	t.Run("supplying foreign variation options is rejected", func(t *testing.T) {
		f := newProductServiceFixture(t)
		created := create(t, f)

		_, err := f.service.Update(ctx, created.ID, &UpdateProductRequest{
			Name:             created.Name,
			VariationOptions: []VariationOptionRequest{{Name: "size", Values: []string{"XS"}}},
		})
		assert.Equal(t, "IMMUTABLE_DERIVED_FIELD", errorCode(t, err))
	})

	t.Run("dropping a variant from the list removes it", func(t *testing.T) {
		f := newProductServiceFixture(t)
		created := create(t, f)

		resp, err := f.service.Update(ctx, created.ID, &UpdateProductRequest{
			Name: created.Name,
			Variants: []VariantRequest{
				{SKU: created.Variants[0].SKU, Size: "M", Price: dec("50.00")},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Variants, 1)
		assert.Equal(t, created.Variants[0].SKU, resp.Variants[0].SKU)
	})

	t.Run("unknown product fails", func(t *testing.T) {
		f := newProductServiceFixture(t)
		_, err := f.service.Update(ctx, uuid.New(), &UpdateProductRequest{Name: "Ghost"})
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}

func TestProductServiceDeactivate(t *testing.T) {
	ctx := context.Background()
	f := newProductServiceFixture(t)

	created, err := f.service.Create(ctx, &CreateProductRequest{Name: "Retiring", CategoryID: &f.categoryID})
	require.NoError(t, err)

	require.NoError(t, f.service.Deactivate(ctx, created.ID))

	got, err := f.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(catalog.ProductStatusInactive), got.Status)

	require.NoError(t, f.service.Activate(ctx, created.ID))
	got, err = f.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(catalog.ProductStatusActive), got.Status)
}
