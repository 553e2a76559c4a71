package catalog

import (
	"strings"

	"github.com/aishop/storefront/internal/domain/shared"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PricingTier is one purchasable duration/quota/price combination.
type PricingTier struct {
	Duration     string `json:"duration"`
	RequestLimit string `json:"requestLimit"`
	Price        int64  `json:"price"`
}

// NormalizeTiers drops tiers without a positive price and trims labels.
// The result must be non-empty for a product to be valid.
func NormalizeTiers(tiers []PricingTier) ([]PricingTier, error) {
	out := make([]PricingTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Price <= 0 {
			continue
		}
		out = append(out, PricingTier{
			Duration:     strings.TrimSpace(t.Duration),
			RequestLimit: strings.TrimSpace(t.RequestLimit),
			Price:        t.Price,
		})
	}
	if len(out) == 0 {
		return nil, shared.NewDomainError("INVALID_PRICING", "At least one pricing tier with a positive price is required")
	}
	return out, nil
}

// NormalizeFeatures drops blank entries and trims the rest.
func NormalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// PriceRange is the lowest and highest tier price of a product.
type PriceRange struct {
	Min int64
	Max int64
}

// IsSingle reports whether every tier has the same price
func (r PriceRange) IsSingle() bool {
	return r.Min == r.Max
}

// String renders the range the way the storefront displays it,
// e.g. "150.000đ" or "150.000đ - 300.000đ".
func (r PriceRange) String() string {
	if r.IsSingle() {
		return FormatPrice(r.Min)
	}
	return FormatPrice(r.Min) + " - " + FormatPrice(r.Max)
}

// RangeOf computes the price range over tiers. ok is false for no tiers.
func RangeOf(tiers []PricingTier) (r PriceRange, ok bool) {
	if len(tiers) == 0 {
		return PriceRange{}, false
	}
	r = PriceRange{Min: tiers[0].Price, Max: tiers[0].Price}
	for _, t := range tiers[1:] {
		if t.Price < r.Min {
			r.Min = t.Price
		}
		if t.Price > r.Max {
			r.Max = t.Price
		}
	}
	return r, true
}

var vndPrinter = message.NewPrinter(language.Vietnamese)

// FormatPrice formats an amount in VND with Vietnamese digit grouping.
func FormatPrice(amount int64) string {
	return vndPrinter.Sprintf("%d", amount) + "đ"
}
