package handler

import (
	"github.com/aishop/storefront/internal/application/media"
	"github.com/aishop/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// UploadFormField is the multipart field carrying the image
const UploadFormField = "file"

// UploadHandler accepts image uploads
type UploadHandler struct {
	BaseHandler
	uploadService *media.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *media.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload stores the multipart file and returns its URL
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(UploadFormField)
	if err != nil {
		h.BadRequest(c, "No file uploaded")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err, "", "Failed to upload file")
		return
	}
	defer file.Close()

	url, err := h.uploadService.Upload(c.Request.Context(), media.FileInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		h.HandleError(c, err, "", "Failed to upload file")
		return
	}

	h.OK(c, dto.UploadResponse{URL: url})
}
