package catalog

import (
	"context"

	galleryapp "github.com/aishop/storefront/internal/application/gallery"
	"github.com/aishop/storefront/internal/infrastructure/cache"
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/aishop/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductLister supplies products in display order
type ProductLister interface {
	List(ctx context.Context) ([]ProductResponse, error)
}

// BillLister supplies gallery bills
type BillLister interface {
	List(ctx context.Context) ([]galleryapp.BillResponse, error)
}

// StorefrontView is everything the public landing page renders
type StorefrontView struct {
	Site     SiteInfo                  `json:"site"`
	Products []ProductCard             `json:"products"`
	Bills    []galleryapp.BillResponse `json:"bills"`
}

// StorefrontService assembles the public landing page
type StorefrontService struct {
	products ProductLister
	bills    BillLister
	site     SiteInfo
	listing  cache.ListingCache
	logger   *zap.Logger
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(
	products ProductLister,
	bills BillLister,
	site config.SiteConfig,
	listing cache.ListingCache,
	logger *zap.Logger,
) *StorefrontService {
	if listing == nil {
		listing = cache.NopListingCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorefrontService{
		products: products,
		bills:    bills,
		site: SiteInfo{
			HeroTitle:        site.HeroTitle,
			HeroSubtitle:     site.HeroSubtitle,
			ContactZalo:      site.ContactZalo,
			ContactMessenger: site.ContactMessenger,
		},
		listing: listing,
		logger:  logger,
	}
}

// View returns the storefront landing page data
func (s *StorefrontService) View(ctx context.Context) (*StorefrontView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "storefront", "view")
	defer span.End()

	view, hit, err := cache.ReadThrough(ctx, s.listing, cache.KeyStorefront, s.logger, s.build)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, hit)
	return &view, nil
}

func (s *StorefrontService) build(ctx context.Context) (StorefrontView, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return StorefrontView{}, err
	}
	bills, err := s.bills.List(ctx)
	if err != nil {
		return StorefrontView{}, err
	}

	cards := make([]ProductCard, len(products))
	for i, p := range products {
		cards[i] = ToProductCard(p)
	}
	if bills == nil {
		bills = []galleryapp.BillResponse{}
	}
	return StorefrontView{Site: s.site, Products: cards, Bills: bills}, nil
}
