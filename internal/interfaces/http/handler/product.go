package handler

import (
	catalogapp "github.com/aishop/storefront/internal/application/catalog"
	"github.com/aishop/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

const productNotFound = "Product not found"

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List returns every product in display order
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err, "", "Failed to fetch products")
		return
	}
	h.OK(c, products)
}

// GetByID returns one product
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err, productNotFound, "Failed to fetch product")
		return
	}
	h.OK(c, product)
}

// Create adds a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err, "", "Failed to create product")
		return
	}
	h.Created(c, product)
}

// Update applies a partial update
func (h *ProductHandler) Update(c *gin.Context) {
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err, productNotFound, "Failed to update product")
		return
	}
	h.OK(c, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err, "", "Failed to delete product")
		return
	}
	h.Success(c)
}

// Reorder rewrites sort order from the position of each id.
// The body must carry orderedIds as an array; [] is accepted.
func (h *ProductHandler) Reorder(c *gin.Context) {
	var req catalogapp.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderedIDs == nil {
		h.BadRequest(c, "orderedIds must be an array")
		return
	}

	if err := h.productService.Reorder(c.Request.Context(), req.OrderedIDs); err != nil {
		h.HandleError(c, err, "", "Failed to reorder products")
		return
	}
	h.Success(c)
}
