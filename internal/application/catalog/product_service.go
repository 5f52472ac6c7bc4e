package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/application/inventory"
	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/shared"
)

// skuGenerationAttempts bounds the regenerate-and-retry loop when a freshly
// generated SKU collides with an existing row.
const skuGenerationAttempts = 5

// ProductService implements product use cases
type ProductService struct {
	productRepo   catalog.ProductRepository
	categoryRepo  catalog.CategoryRepository
	brandRepo     catalog.BrandRepository
	retryAttempts int
	logger        *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
	retryAttempts int,
	logger *zap.Logger,
) *ProductService {
	if retryAttempts < 1 {
		retryAttempts = inventory.DefaultSaveRetryAttempts
	}
	return &ProductService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		brandRepo:     brandRepo,
		retryAttempts: retryAttempts,
		logger:        logger,
	}
}

// Create creates a product with a generated SKU. The random SKU suffix is not
// unique by construction; on a unique-index collision the SKU is regenerated
// and the save retried.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	categoryAbbr, err := s.categoryAbbreviation(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	brandAbbr, err := s.brandAbbreviation(ctx, req.BrandID)
	if err != nil {
		return nil, err
	}
	sizeSegment := sharedVariantSize(req.Variants)

	var product *catalog.Product
	for attempt := 0; attempt < skuGenerationAttempts; attempt++ {
		sku := catalog.GenerateSKU(categoryAbbr, brandAbbr, sizeSegment)

		product, err = s.buildProduct(req, sku)
		if err != nil {
			return nil, err
		}
		if err = product.Reconcile(); err != nil {
			return nil, err
		}

		err = s.productRepo.Save(ctx, product)
		if err == nil {
			s.logger.Info("product created",
				zap.String("product_id", product.ID.String()),
				zap.String("sku", product.SKU),
				zap.Int("variants", len(product.Variants)))
			return ToProductResponse(product), nil
		}

		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "ALREADY_EXISTS" {
			return nil, err
		}
		s.logger.Warn("generated SKU collided, regenerating",
			zap.String("sku", sku),
			zap.Int("attempt", attempt+1))
	}
	return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Could not generate a unique SKU after %d attempts", skuGenerationAttempts))
}

// Update applies the request to the product and persists it under optimistic
// locking, re-reading and re-applying on a version conflict.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*ProductResponse, error) {
	var response *ProductResponse
	err := inventory.RetryOnConflict(s.retryAttempts, func() error {
		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.applyUpdate(ctx, product, req); err != nil {
			return err
		}

		opts := []catalog.ReconcileOption{}
		if req.VariationOptions != nil {
			opts = append(opts, catalog.WithSuppliedVariationOptions(toDomainOptions(req.VariationOptions)))
		}
		if err := product.Reconcile(opts...); err != nil {
			return err
		}

		if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
			return err
		}
		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.String("product_id", id.String()))
	return response, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetBySKU returns a product by its SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *ToProductResponse(&products[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Deactivate soft-deletes a product
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return inventory.RetryOnConflict(s.retryAttempts, func() error {
		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		product.Deactivate()
		return s.productRepo.SaveWithLock(ctx, product)
	})
}

// Activate re-activates a product
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) error {
	return inventory.RetryOnConflict(s.retryAttempts, func() error {
		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		product.Activate()
		return s.productRepo.SaveWithLock(ctx, product)
	})
}

// buildProduct assembles a new aggregate from the create request
func (s *ProductService) buildProduct(req *CreateProductRequest, sku string) (*catalog.Product, error) {
	product, err := catalog.NewProduct(req.Name, sku, req.Unit)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.SetCategory(req.CategoryID)
	product.SetBrand(req.BrandID)
	product.SetImages(toDomainImages(req.Images))

	if len(req.Variants) > 0 {
		product.SetVariants(toDomainVariants(req.Variants))
		return product, nil
	}

	if req.SellingPrice != nil || req.CostPrice != nil {
		selling, cost := product.SellingPrice, product.CostPrice
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		if req.CostPrice != nil {
			cost = *req.CostPrice
		}
		if err := product.SetFlatPricing(selling, cost); err != nil {
			return nil, err
		}
	}
	if req.QuantityInStock != nil {
		if err := product.SetFlatQuantity(*req.QuantityInStock); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// applyUpdate copies the update request onto the loaded aggregate
func (s *ProductService) applyUpdate(ctx context.Context, product *catalog.Product, req *UpdateProductRequest) error {
	if err := product.Update(req.Name, req.Description, req.Unit); err != nil {
		return err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return err
		}
	}
	product.SetCategory(req.CategoryID)
	if req.BrandID != nil {
		if _, err := s.brandRepo.FindByID(ctx, *req.BrandID); err != nil {
			return err
		}
	}
	product.SetBrand(req.BrandID)

	if req.Images != nil {
		product.SetImages(toDomainImages(req.Images))
	}

	if req.Variants != nil {
		product.SetVariants(mergeVariants(product, req.Variants))
	}

	if !product.HasVariants {
		if req.SellingPrice != nil || req.CostPrice != nil {
			selling, cost := product.SellingPrice, product.CostPrice
			if req.SellingPrice != nil {
				selling = *req.SellingPrice
			}
			if req.CostPrice != nil {
				cost = *req.CostPrice
			}
			if err := product.SetFlatPricing(selling, cost); err != nil {
				return err
			}
		}
		if req.QuantityInStock != nil {
			if err := product.SetFlatQuantity(*req.QuantityInStock); err != nil {
				return err
			}
		}
	}

	if req.Status != nil {
		switch catalog.ProductStatus(*req.Status) {
		case catalog.ProductStatusActive:
			product.Activate()
		case catalog.ProductStatusInactive:
			product.Deactivate()
		default:
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown product status %q", *req.Status))
		}
	}
	return nil
}

// categoryAbbreviation resolves the SKU category segment, falling back to a
// generic segment for uncategorized products.
func (s *ProductService) categoryAbbreviation(ctx context.Context, categoryID *uuid.UUID) (string, error) {
	if categoryID == nil {
		return "GEN", nil
	}
	category, err := s.categoryRepo.FindByID(ctx, *categoryID)
	if err != nil {
		return "", err
	}
	return category.Abbreviation, nil
}

// brandAbbreviation resolves the optional SKU brand segment
func (s *ProductService) brandAbbreviation(ctx context.Context, brandID *uuid.UUID) (string, error) {
	if brandID == nil {
		return "", nil
	}
	brand, err := s.brandRepo.FindByID(ctx, *brandID)
	if err != nil {
		return "", err
	}
	return brand.Abbreviation, nil
}

// sharedVariantSize returns the size all requested variants agree on, or empty
// when sizes differ. The product-level SKU only carries a size segment when it
// is unambiguous.
func sharedVariantSize(variants []VariantRequest) string {
	if len(variants) == 0 {
		return ""
	}
	size := variants[0].Size
	for _, v := range variants[1:] {
		if v.Size != size {
			return ""
		}
	}
	return size
}

// toDomainImages maps image requests to the domain representation
func toDomainImages(images []ImageRequest) catalog.ProductImages {
	out := make(catalog.ProductImages, 0, len(images))
	for _, img := range images {
		out = append(out, catalog.ProductImage{URL: img.URL, IsPrimary: img.IsPrimary})
	}
	return out
}

// toDomainOptions maps supplied variation options to the domain representation
func toDomainOptions(options []VariationOptionRequest) catalog.VariationOptions {
	out := make(catalog.VariationOptions, 0, len(options))
	for _, opt := range options {
		out = append(out, catalog.VariationOption{Name: opt.Name, Values: opt.Values})
	}
	return out
}

// toDomainAttributes maps attribute requests to the domain representation
func toDomainAttributes(attrs []AttributeRequest) catalog.Attributes {
	out := make(catalog.Attributes, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, catalog.AttributePair{Key: a.Key, Value: a.Value})
	}
	return out
}

// toDomainVariants maps variant requests to fresh domain variants with their
// initial store stock ledgers in request order.
func toDomainVariants(variants []VariantRequest) []catalog.Variant {
	out := make([]catalog.Variant, 0, len(variants))
	for _, req := range variants {
		v := catalog.NewVariant(req.SKU, req.Size, toDomainAttributes(req.Attributes), req.Price)
		for pos, stock := range req.StoreStocks {
			v.StoreStocks = append(v.StoreStocks, catalog.NewStoreStock(v.ID, stock.StoreID, stock.Quantity, pos))
		}
		out = append(out, *v)
	}
	return out
}

// mergeVariants builds the replacement variant list for an update. A request
// entry whose SKU matches an existing variant keeps that variant's identity,
// stock ledger and price history; anything else becomes a new variant.
func mergeVariants(product *catalog.Product, variants []VariantRequest) []catalog.Variant {
	out := make([]catalog.Variant, 0, len(variants))
	for _, req := range variants {
		existing := product.FindVariant(req.SKU)
		if existing == nil {
			v := catalog.NewVariant(req.SKU, req.Size, toDomainAttributes(req.Attributes), req.Price)
			for pos, stock := range req.StoreStocks {
				v.StoreStocks = append(v.StoreStocks, catalog.NewStoreStock(v.ID, stock.StoreID, stock.Quantity, pos))
			}
			out = append(out, *v)
			continue
		}

		merged := *existing
		merged.Size = req.Size
		merged.Attributes = toDomainAttributes(req.Attributes)
		merged.Price = req.Price
		if req.StoreStocks != nil {
			merged.StoreStocks = mergeStoreStocks(existing, req.StoreStocks)
		}
		out = append(out, merged)
	}
	return out
}

// mergeStoreStocks rebuilds a variant's ledger in request order, reusing the
// existing entry for a store so its row identity survives the rewrite.
func mergeStoreStocks(variant *catalog.Variant, stocks []StoreStockRequest) []catalog.StoreStock {
	byStore := make(map[uuid.UUID]catalog.StoreStock, len(variant.StoreStocks))
	for _, entry := range variant.StoreStocks {
		byStore[entry.StoreID] = entry
	}

	out := make([]catalog.StoreStock, 0, len(stocks))
	for pos, req := range stocks {
		if entry, ok := byStore[req.StoreID]; ok {
			entry.Quantity = req.Quantity
			entry.Position = pos
			out = append(out, entry)
			continue
		}
		out = append(out, catalog.NewStoreStock(variant.ID, req.StoreID, req.Quantity, pos))
	}
	return out
}
