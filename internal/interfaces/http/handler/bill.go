package handler

import (
	galleryapp "github.com/aishop/storefront/internal/application/gallery"
	"github.com/aishop/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BillHandler handles the bills gallery endpoints
type BillHandler struct {
	BaseHandler
	billService *galleryapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *galleryapp.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// List returns bills in creation order
func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.billService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err, "", "Failed to fetch bills")
		return
	}
	h.OK(c, bills)
}

// Create records a bill for an uploaded image
func (h *BillHandler) Create(c *gin.Context) {
	var req galleryapp.AddBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	bill, err := h.billService.Add(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err, "", "Failed to add bill")
		return
	}
	h.Created(c, bill)
}

// Delete removes a bill
func (h *BillHandler) Delete(c *gin.Context) {
	if err := h.billService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err, "", "Failed to delete bill")
		return
	}
	h.Success(c)
}
