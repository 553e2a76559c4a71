package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	galleryapp "github.com/aishop/storefront/internal/application/gallery"
	"github.com/aishop/storefront/internal/domain/catalog"
	"github.com/aishop/storefront/internal/infrastructure/cache"
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubProducts struct {
	products []ProductResponse
	err      error
	calls    int
}

func (s *stubProducts) List(context.Context) ([]ProductResponse, error) {
	s.calls++
	return s.products, s.err
}

type stubBills struct {
	bills []galleryapp.BillResponse
	err   error
}

func (s *stubBills) List(context.Context) ([]galleryapp.BillResponse, error) {
	return s.bills, s.err
}

func TestStorefrontService_View(t *testing.T) {
	ctx := context.Background()
	site := config.SiteConfig{HeroTitle: "Sản Phẩm AI", ContactZalo: "https://zalo.me/0900000000"}

	t.Run("builds cards and caches the view", func(t *testing.T) {
		products := &stubProducts{products: []ProductResponse{{
			ID:           "p1",
			Name:         "Gemini Advanced",
			PricingTiers: []catalog.PricingTier{{Duration: "1 tháng", Price: 99000}},
			Icon:         "Zap",
			Tag:          "New",
		}}}
		bills := &stubBills{}
		listing := cache.NewInMemoryListingCache(time.Minute)
		defer listing.Close()

		svc := NewStorefrontService(products, bills, site, listing, zaptest.NewLogger(t))

		view, err := svc.View(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Sản Phẩm AI", view.Site.HeroTitle)
		assert.Equal(t, "https://zalo.me/0900000000", view.Site.ContactZalo)
		require.Len(t, view.Products, 1)
		assert.Equal(t, "New", view.Products[0].Badge)
		assert.Equal(t, "99.000đ", view.Products[0].PriceRange)
		assert.False(t, view.Products[0].HasMultiplePrices)
		assert.NotNil(t, view.Bills)

		_, err = svc.View(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, products.calls)
	})

	t.Run("bill failure fails the view", func(t *testing.T) {
		svc := NewStorefrontService(&stubProducts{}, &stubBills{err: errors.New("timeout")}, site, nil, nil)

		_, err := svc.View(ctx)
		assert.Error(t, err)
	})
}
