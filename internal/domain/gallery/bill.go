// Package gallery models the proof-of-transaction images shown on the storefront.
package gallery

import (
	"context"
	"strings"
	"time"

	"github.com/aishop/storefront/internal/domain/catalog"
	"github.com/aishop/storefront/internal/domain/shared"
)

// Bill is a transaction screenshot. It never changes after creation.
type Bill struct {
	ID          string
	ImageURL    string
	Description string
	CreatedAt   time.Time
}

// NewBill creates a bill for an uploaded image.
func NewBill(imageURL, description string) (*Bill, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE_URL", "Image URL is required")
	}
	if err := catalog.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}

	return &Bill{
		ID:          shared.NewID(),
		ImageURL:    imageURL,
		Description: strings.TrimSpace(description),
		CreatedAt:   shared.Now(),
	}, nil
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindAll returns every bill, oldest first
	FindAll(ctx context.Context) ([]Bill, error)
	Create(ctx context.Context, bill *Bill) error
	// Delete removes a bill. Missing ids are not an error.
	Delete(ctx context.Context, id string) error
}
