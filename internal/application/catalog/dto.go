package catalog

import (
	"time"

	"github.com/aishop/storefront/internal/domain/catalog"
	"github.com/aishop/storefront/internal/domain/shared"
)

// CreateProductRequest represents a request to create a new product.
// Zero-price tiers and blank features are dropped before validation.
type CreateProductRequest struct {
	Name         string                `json:"name" binding:"required,max=255"`
	Description  string                `json:"description"`
	PricingTiers []catalog.PricingTier `json:"pricingTiers" binding:"required,min=1"`
	Currency     string                `json:"currency" binding:"omitempty,oneof=VND"`
	Icon         string                `json:"icon" binding:"omitempty,product_icon"`
	ImageURL     string                `json:"imageUrl"`
	Features     []string              `json:"features"`
	Tag          string                `json:"tag" binding:"omitempty,product_tag"`
	ContactLink  string                `json:"contactLink" binding:"required,url"`
	SortOrder    *int                  `json:"sortOrder"`
}

// Params converts the request into domain constructor parameters
func (r CreateProductRequest) Params() catalog.ProductParams {
	p := catalog.ProductParams{
		Name:         r.Name,
		Description:  r.Description,
		PricingTiers: r.PricingTiers,
		Currency:     r.Currency,
		Icon:         r.Icon,
		ImageURL:     r.ImageURL,
		Features:     r.Features,
		Tag:          r.Tag,
		ContactLink:  r.ContactLink,
	}
	if r.SortOrder != nil {
		p.SortOrder = *r.SortOrder
	}
	return p
}

// UpdateProductRequest is a partial update. Absent keys are left alone.
// null or "" clears imageUrl and tag; null clears description and features.
// null on any other field is rejected.
type UpdateProductRequest struct {
	Name         Optional[string]                `json:"name,omitzero"`
	Description  Optional[string]                `json:"description,omitzero"`
	PricingTiers Optional[[]catalog.PricingTier] `json:"pricingTiers,omitzero"`
	Currency     Optional[string]                `json:"currency,omitzero"`
	Icon         Optional[string]                `json:"icon,omitzero"`
	ImageURL     Optional[string]                `json:"imageUrl,omitzero"`
	Features     Optional[[]string]              `json:"features,omitzero"`
	Tag          Optional[string]                `json:"tag,omitzero"`
	ContactLink  Optional[string]                `json:"contactLink,omitzero"`
	SortOrder    Optional[int]                   `json:"sortOrder,omitzero"`
}

// Changes converts the request into a domain partial update
func (r UpdateProductRequest) Changes() (catalog.ProductChanges, error) {
	var c catalog.ProductChanges
	var err error

	if c.Name, err = required(r.Name, "name"); err != nil {
		return c, err
	}
	if c.PricingTiers, err = required(r.PricingTiers, "pricingTiers"); err != nil {
		return c, err
	}
	if c.Currency, err = required(r.Currency, "currency"); err != nil {
		return c, err
	}
	if c.Icon, err = required(r.Icon, "icon"); err != nil {
		return c, err
	}
	if c.ContactLink, err = required(r.ContactLink, "contactLink"); err != nil {
		return c, err
	}
	if c.SortOrder, err = required(r.SortOrder, "sortOrder"); err != nil {
		return c, err
	}

	c.Description = clearable(r.Description)
	c.ImageURL = clearable(r.ImageURL)
	c.Features = clearable(r.Features)
	c.Tag = clearable(r.Tag)
	return c, nil
}

func required[T any](o Optional[T], field string) (*T, error) {
	if !o.Set {
		return nil, nil
	}
	if o.Null {
		return nil, shared.NewDomainError("INVALID_INPUT", field+" cannot be null")
	}
	v := o.Value
	return &v, nil
}

// clearable maps null to the zero value, which the domain treats as "clear"
func clearable[T any](o Optional[T]) *T {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// ReorderRequest lists product ids in their new display order
type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	PricingTiers []catalog.PricingTier `json:"pricingTiers"`
	Currency     string                `json:"currency"`
	Icon         string                `json:"icon"`
	ImageURL     string                `json:"imageUrl,omitempty"`
	Features     []string              `json:"features"`
	Tag          string                `json:"tag,omitempty"`
	ContactLink  string                `json:"contactLink"`
	SortOrder    int                   `json:"sortOrder"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	tiers := p.PricingTiers
	if tiers == nil {
		tiers = []catalog.PricingTier{}
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		PricingTiers: tiers,
		Currency:     string(p.Currency),
		Icon:         string(p.Icon),
		ImageURL:     p.ImageURL,
		Features:     features,
		Tag:          string(p.Tag),
		ContactLink:  p.ContactLink,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// cardFeatureLimit is how many features a product card shows
const cardFeatureLimit = 3

// TierView is a pricing tier with its display price
type TierView struct {
	Duration     string `json:"duration"`
	RequestLimit string `json:"requestLimit"`
	Price        int64  `json:"price"`
	PriceLabel   string `json:"priceLabel"`
}

// ProductCard is a product with the presentation data a storefront needs
type ProductCard struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Tiers             []TierView `json:"pricingTiers"`
	MinPrice          int64      `json:"minPrice"`
	MaxPrice          int64      `json:"maxPrice"`
	PriceRange        string     `json:"priceRange"`
	HasMultiplePrices bool       `json:"hasMultiplePrices"`
	Badge             string     `json:"badge,omitempty"`
	Icon              string     `json:"icon"`
	ImageURL          string     `json:"imageUrl,omitempty"`
	Features          []string   `json:"features"`
	ContactLink       string     `json:"contactLink"`
}

// ToProductCard derives the card view of a product response
func ToProductCard(p ProductResponse) ProductCard {
	tiers := make([]TierView, len(p.PricingTiers))
	for i, t := range p.PricingTiers {
		tiers[i] = TierView{
			Duration:     t.Duration,
			RequestLimit: t.RequestLimit,
			Price:        t.Price,
			PriceLabel:   catalog.FormatPrice(t.Price),
		}
	}

	features := p.Features
	if len(features) > cardFeatureLimit {
		features = features[:cardFeatureLimit]
	}
	if features == nil {
		features = []string{}
	}

	card := ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Tiers:       tiers,
		Badge:       p.Tag,
		Icon:        string(catalog.Icon(p.Icon).Symbol()),
		ImageURL:    p.ImageURL,
		Features:    features,
		ContactLink: p.ContactLink,
	}
	if r, ok := catalog.RangeOf(p.PricingTiers); ok {
		card.MinPrice = r.Min
		card.MaxPrice = r.Max
		card.PriceRange = r.String()
		card.HasMultiplePrices = !r.IsSingle()
	}
	return card
}

// SiteInfo is the landing page copy and contact links
type SiteInfo struct {
	HeroTitle        string `json:"heroTitle"`
	HeroSubtitle     string `json:"heroSubtitle"`
	ContactZalo      string `json:"contactZalo"`
	ContactMessenger string `json:"contactMessenger"`
}
