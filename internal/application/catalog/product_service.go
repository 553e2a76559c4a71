package catalog

import (
	"context"
	"fmt"

	"github.com/aishop/storefront/internal/domain/catalog"
	"github.com/aishop/storefront/internal/infrastructure/cache"
	"github.com/aishop/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// productMutationKeys are the listings that embed products
var productMutationKeys = []string{cache.KeyProducts, cache.KeyStorefront}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	listing     cache.ListingCache
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, listing cache.ListingCache, logger *zap.Logger) *ProductService {
	if listing == nil {
		listing = cache.NopListingCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		listing:     listing,
		logger:      logger,
	}
}

// List returns every product in display order
func (s *ProductService) List(ctx context.Context) ([]ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "list")
	defer span.End()

	products, hit, err := cache.ReadThrough(ctx, s.listing, cache.KeyProducts, s.logger,
		func(ctx context.Context) ([]ProductResponse, error) {
			products, err := s.productRepo.FindAll(ctx)
			if err != nil {
				return nil, fmt.Errorf("list products: %w", err)
			}
			return ToProductResponses(products), nil
		})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, hit, telemetry.SpanAttrCount, len(products))
	return products, nil
}

// GetByID retrieves a product by ID. A missing product is shared.ErrNotFound.
func (s *ProductService) GetByID(ctx context.Context, id string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer span.End()

	product, err := catalog.NewProduct(req.Params())
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID)

	if err := s.productRepo.Create(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.invalidate(ctx)

	s.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// Update applies a partial update and returns the stored product. Only
// the supplied fields are written back.
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update", telemetry.SpanAttrProductID, id)
	defer span.End()

	changes, err := req.Changes()
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Apply(changes); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product, changes.Fields()); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx)

	stored, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(stored)
	return &response, nil
}

// Delete removes a product. Deleting a missing product succeeds.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "delete", telemetry.SpanAttrProductID, id)
	defer span.End()

	if err := s.productRepo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx)

	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

// Reorder assigns each listed product its index as sort order.
// Unknown ids are ignored; unlisted products keep their order.
func (s *ProductService) Reorder(ctx context.Context, orderedIDs []string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "reorder", telemetry.SpanAttrCount, len(orderedIDs))
	defer span.End()

	if err := s.productRepo.Reorder(ctx, orderedIDs); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("reorder products: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	cache.InvalidateQuietly(ctx, s.listing, s.logger, productMutationKeys...)
}
