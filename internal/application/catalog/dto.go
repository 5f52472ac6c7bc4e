package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vclothes/backend/internal/domain/catalog"
)

// AttributeRequest is one attribute key/value pair on a variant
type AttributeRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// StoreStockRequest is one per-store quantity on a variant
type StoreStockRequest struct {
	StoreID  uuid.UUID `json:"store_id" binding:"required"`
	Quantity int64     `json:"quantity"`
}

// VariantRequest describes one variant in a create/update request. A blank
// SKU is assigned during reconciliation.
type VariantRequest struct {
	SKU         string              `json:"sku"`
	Size        string              `json:"size"`
	Attributes  []AttributeRequest  `json:"attributes"`
	Price       decimal.Decimal     `json:"price"`
	StoreStocks []StoreStockRequest `json:"store_stocks"`
}

// ImageRequest is one product image
type ImageRequest struct {
	URL       string `json:"url" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// VariationOptionRequest mirrors the derived variation options. Requests may
// echo the derived state back unchanged; supplying anything else is rejected.
type VariationOptionRequest struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	Name            string           `json:"name" binding:"required"`
	Description     string           `json:"description"`
	Unit            string           `json:"unit"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	BrandID         *uuid.UUID       `json:"brand_id"`
	Images          []ImageRequest   `json:"images"`
	SellingPrice    *decimal.Decimal `json:"selling_price"`
	CostPrice       *decimal.Decimal `json:"cost_price"`
	QuantityInStock *int64           `json:"quantity_in_stock"`
	Variants        []VariantRequest `json:"variants"`
}

// UpdateProductRequest is the request to update a product. Nil slices leave
// the corresponding data untouched; non-nil slices replace it.
type UpdateProductRequest struct {
	Name             string                   `json:"name" binding:"required"`
	Description      string                   `json:"description"`
	Unit             string                   `json:"unit"`
	CategoryID       *uuid.UUID               `json:"category_id"`
	BrandID          *uuid.UUID               `json:"brand_id"`
	Images           []ImageRequest           `json:"images"`
	SellingPrice     *decimal.Decimal         `json:"selling_price"`
	CostPrice        *decimal.Decimal         `json:"cost_price"`
	QuantityInStock  *int64                   `json:"quantity_in_stock"`
	Variants         []VariantRequest         `json:"variants"`
	VariationOptions []VariationOptionRequest `json:"variation_options"`
	Status           *string                  `json:"status"`
}

// StoreStockResponse is one per-store quantity in a response
type StoreStockResponse struct {
	StoreID  uuid.UUID `json:"store_id"`
	Quantity int64     `json:"quantity"`
}

// PriceHistoryResponse is one price history entry in a response
type PriceHistoryResponse struct {
	Price     decimal.Decimal `json:"price"`
	ChangedAt time.Time       `json:"changed_at"`
}

// VariantResponse is one variant in a response
type VariantResponse struct {
	SKU          string                 `json:"sku"`
	Size         string                 `json:"size"`
	Attributes   []AttributeRequest     `json:"attributes"`
	Price        decimal.Decimal        `json:"price"`
	Status       string                 `json:"status"`
	TotalStock   int64                  `json:"total_stock"`
	StoreStocks  []StoreStockResponse   `json:"store_stocks"`
	PriceHistory []PriceHistoryResponse `json:"price_history"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID               uuid.UUID                `json:"id"`
	Name             string                   `json:"name"`
	SKU              string                   `json:"sku"`
	Description      string                   `json:"description"`
	Unit             string                   `json:"unit"`
	Status           string                   `json:"status"`
	CategoryID       *uuid.UUID               `json:"category_id,omitempty"`
	BrandID          *uuid.UUID               `json:"brand_id,omitempty"`
	Images           []ImageRequest           `json:"images"`
	HasVariants      bool                     `json:"has_variants"`
	SellingPrice     decimal.Decimal          `json:"selling_price"`
	CostPrice        decimal.Decimal          `json:"cost_price"`
	QuantityInStock  int64                    `json:"quantity_in_stock"`
	TotalStock       int64                    `json:"total_stock"`
	MinPrice         decimal.Decimal          `json:"min_price"`
	MaxPrice         decimal.Decimal          `json:"max_price"`
	VariationOptions []VariationOptionRequest `json:"variation_options"`
	Variants         []VariantResponse        `json:"variants"`
	Version          int                      `json:"version"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// ToProductResponse maps a product aggregate to its API representation
func ToProductResponse(p *catalog.Product) *ProductResponse {
	images := make([]ImageRequest, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageRequest{URL: img.URL, IsPrimary: img.IsPrimary})
	}

	options := make([]VariationOptionRequest, 0, len(p.VariationOptions))
	for _, opt := range p.VariationOptions {
		options = append(options, VariationOptionRequest{Name: opt.Name, Values: opt.Values})
	}

	variants := make([]VariantResponse, 0, len(p.Variants))
	for i := range p.Variants {
		variants = append(variants, toVariantResponse(&p.Variants[i]))
	}

	return &ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		SKU:              p.SKU,
		Description:      p.Description,
		Unit:             p.Unit,
		Status:           string(p.Status),
		CategoryID:       p.CategoryID,
		BrandID:          p.BrandID,
		Images:           images,
		HasVariants:      p.HasVariants,
		SellingPrice:     p.SellingPrice,
		CostPrice:        p.CostPrice,
		QuantityInStock:  p.QuantityInStock,
		TotalStock:       p.TotalStock,
		MinPrice:         p.MinPrice,
		MaxPrice:         p.MaxPrice,
		VariationOptions: options,
		Variants:         variants,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toVariantResponse(v *catalog.Variant) VariantResponse {
	attrs := make([]AttributeRequest, 0, len(v.Attributes))
	for _, a := range v.Attributes {
		attrs = append(attrs, AttributeRequest{Key: a.Key, Value: a.Value})
	}

	stocks := make([]StoreStockResponse, 0, len(v.StoreStocks))
	for _, s := range v.StoreStocks {
		stocks = append(stocks, StoreStockResponse{StoreID: s.StoreID, Quantity: s.Quantity})
	}

	history := make([]PriceHistoryResponse, 0, len(v.PriceHistory))
	for _, h := range v.PriceHistory {
		history = append(history, PriceHistoryResponse{Price: h.Price, ChangedAt: h.ChangedAt})
	}

	return VariantResponse{
		SKU:          v.SKU,
		Size:         v.Size,
		Attributes:   attrs,
		Price:        v.Price,
		Status:       string(v.Status),
		TotalStock:   v.TotalStock(),
		StoreStocks:  stocks,
		PriceHistory: history,
	}
}

// CategoryRequest is the request to create or update a category
type CategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation" binding:"required"`
	Description  string `json:"description"`
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToCategoryResponse maps a category to its API representation
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Abbreviation: c.Abbreviation,
		Description:  c.Description,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}

// BrandRequest is the request to create or update a brand
type BrandRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation" binding:"required"`
	Description  string `json:"description"`
	LogoURL      string `json:"logo_url"`
}

// BrandResponse is the API representation of a brand
type BrandResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Description  string    `json:"description"`
	LogoURL      string    `json:"logo_url"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToBrandResponse maps a brand to its API representation
func ToBrandResponse(b *catalog.Brand) *BrandResponse {
	return &BrandResponse{
		ID:           b.ID,
		Name:         b.Name,
		Abbreviation: b.Abbreviation,
		Description:  b.Description,
		LogoURL:      b.LogoURL,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
}

// InitiateImageUploadRequest asks for a presigned upload URL for a product image
type InitiateImageUploadRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	FileName    string    `json:"file_name" binding:"required"`
	ContentType string    `json:"content_type" binding:"required"`
}

// InitiateImageUploadResponse carries the presigned upload URL and the
// storage key to attach after the upload completes
type InitiateImageUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// AttachImageRequest records an uploaded object on a product
type AttachImageRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	StorageKey string    `json:"storage_key" binding:"required"`
	IsPrimary  bool      `json:"is_primary"`
}
