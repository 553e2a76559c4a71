package catalog

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aishop/storefront/internal/domain/shared"
)

const maxNameLength = 255

// Product is a sellable digital-account listing.
// ImageURL and Tag use the empty string for "absent".
type Product struct {
	ID           string
	Name         string
	Description  string
	PricingTiers []PricingTier
	Currency     Currency
	Icon         Icon
	ImageURL     string
	Features     []string
	Tag          Tag
	ContactLink  string
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductParams carries the fields needed to create a product.
type ProductParams struct {
	Name         string
	Description  string
	PricingTiers []PricingTier
	Currency     string
	Icon         string
	ImageURL     string
	Features     []string
	Tag          string
	ContactLink  string
	SortOrder    int
}

// NewProduct validates params and builds a product with a fresh id.
// CreatedAt and UpdatedAt are stamped with the same instant.
func NewProduct(p ProductParams) (*Product, error) {
	product := &Product{}
	if err := product.assign(ProductChanges{
		Name:         &p.Name,
		Description:  &p.Description,
		PricingTiers: &p.PricingTiers,
		Currency:     &p.Currency,
		Icon:         &p.Icon,
		ImageURL:     &p.ImageURL,
		Features:     &p.Features,
		Tag:          &p.Tag,
		ContactLink:  &p.ContactLink,
		SortOrder:    &p.SortOrder,
	}); err != nil {
		return nil, err
	}

	now := shared.Now()
	product.ID = shared.NewID()
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

// ProductChanges is a partial update. A nil field is left untouched.
// An empty string for ImageURL or Tag clears the value.
type ProductChanges struct {
	Name         *string
	Description  *string
	PricingTiers *[]PricingTier
	Currency     *string
	Icon         *string
	ImageURL     *string
	Features     *[]string
	Tag          *string
	ContactLink  *string
	SortOrder    *int
}

// ProductField names a mutable product attribute
type ProductField string

const (
	FieldName         ProductField = "name"
	FieldDescription  ProductField = "description"
	FieldPricingTiers ProductField = "pricing_tiers"
	FieldCurrency     ProductField = "currency"
	FieldIcon         ProductField = "icon"
	FieldImageURL     ProductField = "image_url"
	FieldFeatures     ProductField = "features"
	FieldTag          ProductField = "tag"
	FieldContactLink  ProductField = "contact_link"
	FieldSortOrder    ProductField = "sort_order"
)

// Fields lists the attributes the changes set, in declaration order
func (c ProductChanges) Fields() []ProductField {
	set := []struct {
		ok    bool
		field ProductField
	}{
		{c.Name != nil, FieldName},
		{c.Description != nil, FieldDescription},
		{c.PricingTiers != nil, FieldPricingTiers},
		{c.Currency != nil, FieldCurrency},
		{c.Icon != nil, FieldIcon},
		{c.ImageURL != nil, FieldImageURL},
		{c.Features != nil, FieldFeatures},
		{c.Tag != nil, FieldTag},
		{c.ContactLink != nil, FieldContactLink},
		{c.SortOrder != nil, FieldSortOrder},
	}
	fields := make([]ProductField, 0, len(set))
	for _, f := range set {
		if f.ok {
			fields = append(fields, f.field)
		}
	}
	return fields
}

// Apply validates and applies the changes. Nothing is modified when any
// field is invalid. UpdatedAt is refreshed even if no field is set.
func (p *Product) Apply(c ProductChanges) error {
	next := *p
	if err := next.assign(c); err != nil {
		return err
	}
	next.UpdatedAt = shared.Now()
	*p = next
	return nil
}

// PriceRange returns the min/max tier price.
func (p *Product) PriceRange() PriceRange {
	r, _ := RangeOf(p.PricingTiers)
	return r
}

// HasImage reports whether a custom image replaces the icon
func (p *Product) HasImage() bool {
	return p.ImageURL != ""
}

func (p *Product) assign(f ProductChanges) error {
	if f.Name != nil {
		name := strings.TrimSpace(*f.Name)
		if err := validateProductName(name); err != nil {
			return err
		}
		p.Name = name
	}
	if f.Description != nil {
		p.Description = strings.TrimSpace(*f.Description)
	}
	if f.PricingTiers != nil {
		tiers, err := NormalizeTiers(*f.PricingTiers)
		if err != nil {
			return err
		}
		p.PricingTiers = tiers
	}
	if f.Currency != nil {
		cur, err := ParseCurrency(*f.Currency)
		if err != nil {
			return err
		}
		p.Currency = cur
	}
	if f.Icon != nil {
		icon, err := ParseIcon(*f.Icon)
		if err != nil {
			return err
		}
		p.Icon = icon
	}
	if f.ImageURL != nil {
		img := strings.TrimSpace(*f.ImageURL)
		if img != "" {
			if err := ValidateImageURL(img); err != nil {
				return err
			}
		}
		p.ImageURL = img
	}
	if f.Features != nil {
		p.Features = NormalizeFeatures(*f.Features)
	}
	if f.Tag != nil {
		tag, err := ParseTag(*f.Tag)
		if err != nil {
			return err
		}
		p.Tag = tag
	}
	if f.ContactLink != nil {
		link := strings.TrimSpace(*f.ContactLink)
		if err := validateContactLink(link); err != nil {
			return err
		}
		p.ContactLink = link
	}
	if f.SortOrder != nil {
		p.SortOrder = *f.SortOrder
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

func validateContactLink(link string) error {
	if link == "" {
		return shared.NewDomainError("INVALID_CONTACT_LINK", "Contact link is required")
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" {
		return shared.NewDomainError("INVALID_CONTACT_LINK", "Contact link must be an absolute URL")
	}
	return nil
}

// ValidateImageURL accepts absolute http(s) URLs and site-relative paths
// such as the "/uploads/..." paths produced by local storage.
func ValidateImageURL(raw string) error {
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL must be an absolute http(s) URL or a site path")
	}
	return nil
}
