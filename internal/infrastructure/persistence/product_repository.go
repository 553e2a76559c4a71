package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/aishop/storefront/internal/domain/catalog"
	"github.com/aishop/storefront/internal/domain/shared"
	"github.com/aishop/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindAll returns products ordered by sort_order, then created_at
func (r *GormProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product %s: %w", id, err)
	}
	return model.ToDomain(), nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// productColumns maps mutable fields to their columns
var productColumns = map[catalog.ProductField]string{
	catalog.FieldName:         "name",
	catalog.FieldDescription:  "description",
	catalog.FieldPricingTiers: "pricing_tiers",
	catalog.FieldCurrency:     "currency",
	catalog.FieldIcon:         "icon",
	catalog.FieldImageURL:     "image_url",
	catalog.FieldFeatures:     "features",
	catalog.FieldTag:          "tag",
	catalog.FieldContactLink:  "contact_link",
	catalog.FieldSortOrder:    "sort_order",
}

// Update writes only the named columns and updated_at, including NULLs
// for cleared fields, so concurrent writes to other columns survive.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product, fields []catalog.ProductField) error {
	columns := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		col, ok := productColumns[f]
		if !ok {
			return fmt.Errorf("failed to update product %s: unknown field %q", product.ID, f)
		}
		columns = append(columns, col)
	}
	columns = append(columns, "updated_at")

	model := models.ProductModelFromDomain(product)
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{ID: product.ID}).
		Select(columns).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a product by ID
func (r *GormProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// Reorder assigns sort_order by position in a single transaction, so a
// failure leaves every row with its previous order.
func (r *GormProductRepository) Reorder(ctx context.Context, orderedIDs []string) error {
	now := shared.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&models.ProductModel{}).
				Where("id = ?", id).
				Updates(map[string]any{"sort_order": i, "updated_at": now}).Error; err != nil {
				return fmt.Errorf("failed to reorder product %s: %w", id, err)
			}
		}
		return nil
	})
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
