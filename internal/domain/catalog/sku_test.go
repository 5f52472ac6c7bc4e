package catalog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSKU(t *testing.T) {
	t.Run("full shape with category brand and size", func(t *testing.T) {
		sku := GenerateSKU("SHO", "NKE", "XL")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-XL-\d{4}$`), sku)
	})

	t.Run("omits absent brand", func(t *testing.T) {
		sku := GenerateSKU("SHO", "", "XL")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-XL-\d{4}$`), sku)
	})

	t.Run("omits absent size", func(t *testing.T) {
		sku := GenerateSKU("SHO", "NKE", "")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-\d{4}$`), sku)
	})

	t.Run("omits both optional parts", func(t *testing.T) {
		sku := GenerateSKU("SHO", "", "")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-\d{4}$`), sku)
	})

	t.Run("uppercases segments", func(t *testing.T) {
		sku := GenerateSKU("sho", "nke", "xl")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-XL-\d{4}$`), sku)
	})

	t.Run("truncates size to five characters", func(t *testing.T) {
		sku := GenerateSKU("SHO", "NKE", "XXLARGE")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-XXLAR-\d{4}$`), sku)
	})

	t.Run("strips hyphens and spaces from segments", func(t *testing.T) {
		sku := GenerateSKU("S-H O", "N K-E", "X L")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-XL-\d{4}$`), sku)
	})
}

func TestGenerateVariantSKU(t *testing.T) {
	t.Run("replaces random suffix and inserts size", func(t *testing.T) {
		sku := GenerateVariantSKU("VCL-SHO-NKE-1234", "M")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-M-\d{4}$`), sku)
	})

	t.Run("handles base SKU without numeric suffix", func(t *testing.T) {
		sku := GenerateVariantSKU("VCL-SHO-NKE", "M")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-M-\d{4}$`), sku)
	})

	t.Run("omits empty size", func(t *testing.T) {
		sku := GenerateVariantSKU("VCL-SHO-1234", "")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-\d{4}$`), sku)
	})

	t.Run("does not double a size the base SKU already carries", func(t *testing.T) {
		// Single-size products embed the size in the product SKU.
		sku := GenerateVariantSKU("VCL-SHO-NKE-XL-2560", "XL")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-XL-\d{4}$`), sku)
	})

	t.Run("keeps distinct trailing segment that is not the size", func(t *testing.T) {
		sku := GenerateVariantSKU("VCL-SHO-NKE-XL-2560", "M")
		assert.Regexp(t, regexp.MustCompile(`^VCL-SHO-NKE-XL-M-\d{4}$`), sku)
	})
}
