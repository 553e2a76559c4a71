package gallery

import (
	"time"

	"github.com/aishop/storefront/internal/domain/gallery"
)

// AddBillRequest represents a request to add a bill image
type AddBillRequest struct {
	ImageURL    string `json:"imageUrl" binding:"required"`
	Description string `json:"description,omitempty"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToBillResponse converts a domain Bill to BillResponse
func ToBillResponse(b *gallery.Bill) BillResponse {
	return BillResponse{
		ID:          b.ID,
		ImageURL:    b.ImageURL,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}

// ToBillResponses converts a slice of domain Bills
func ToBillResponses(bills []gallery.Bill) []BillResponse {
	out := make([]BillResponse, len(bills))
	for i := range bills {
		out[i] = ToBillResponse(&bills[i])
	}
	return out
}
