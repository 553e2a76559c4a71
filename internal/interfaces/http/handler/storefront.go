package handler

import (
	catalogapp "github.com/aishop/storefront/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the landing page view model
type StorefrontHandler struct {
	BaseHandler
	storefront *catalogapp.StorefrontService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(storefront *catalogapp.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{storefront: storefront}
}

// Get returns the site copy, product cards and bills
func (h *StorefrontHandler) Get(c *gin.Context) {
	view, err := h.storefront.View(c.Request.Context())
	if err != nil {
		h.HandleError(c, err, "", "Failed to load storefront")
		return
	}
	h.OK(c, view)
}
