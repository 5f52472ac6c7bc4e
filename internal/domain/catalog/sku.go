package catalog

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// skuPrefix is the fixed first segment of every generated SKU.
const skuPrefix = "VCL"

// maxSizeSegmentLen caps the size segment of a SKU.
const maxSizeSegmentLen = 5

// GenerateSKU produces a human-readable SKU of the shape
// VCL-{CATEGORY}-{BRAND?}-{SIZE?}-{4 digits}, uppercased, with absent optional
// segments omitted. The random suffix does not guarantee uniqueness; the
// unique index on the SKU column does, and callers regenerate on conflict.
func GenerateSKU(categoryAbbr, brandAbbr, sizeVariation string) string {
	parts := []string{skuPrefix, normalizeSKUSegment(categoryAbbr, 0)}

	if brand := normalizeSKUSegment(brandAbbr, 0); brand != "" {
		parts = append(parts, brand)
	}
	if size := normalizeSKUSegment(sizeVariation, maxSizeSegmentLen); size != "" {
		parts = append(parts, size)
	}

	parts = append(parts, fmt.Sprintf("%04d", rand.IntN(10000)))
	return strings.Join(parts, "-")
}

// GenerateVariantSKU produces a SKU for one variant of a product, scoped to
// the product's base SKU and the variant's size: the base SKU's random suffix
// is replaced by the size segment and a fresh 4-digit suffix.
func GenerateVariantSKU(baseSKU, size string) string {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(baseSKU)), "-")
	if len(parts) > 1 && isDigits(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	// Single-size products already carry the size segment in the base
	// SKU; appending it again would double it up.
	if seg := normalizeSKUSegment(size, maxSizeSegmentLen); seg != "" && parts[len(parts)-1] != seg {
		parts = append(parts, seg)
	}
	parts = append(parts, fmt.Sprintf("%04d", rand.IntN(10000)))
	return strings.Join(parts, "-")
}

// normalizeSKUSegment uppercases a segment, strips whitespace and hyphens,
// and truncates it to maxLen when maxLen > 0.
func normalizeSKUSegment(s string, maxLen int) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
