package catalog

import "context"

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindAll returns every product ordered by sort order, then creation time
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID returns shared.ErrNotFound when no row matches
	FindByID(ctx context.Context, id string) (*Product, error)

	Create(ctx context.Context, product *Product) error

	// Update writes the named fields of an existing product plus its
	// UpdatedAt. Other columns keep their stored values.
	Update(ctx context.Context, product *Product, fields []ProductField) error

	// Delete removes a product. Missing ids are not an error.
	Delete(ctx context.Context, id string) error

	// Reorder sets each listed product's sort order to its index.
	// Products not listed keep their sort order.
	Reorder(ctx context.Context, orderedIDs []string) error
}
