package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoice-ocr/pkg/repository"
	"invoice-ocr/pkg/schemas"
)

const ocrResultNotFound = "OCR Result not found"

// CreateOCRResult handles POST /ocr_results
func (h *Handler) CreateOCRResult(c *gin.Context) {
	var req schemas.OCRResultCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	row, err := h.ocrResults.Create(c.Request.Context(), req.ToModel())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, schemas.NewOCRResultResponse(row))
}

// GetOCRResult handles GET /ocr_results/:id
func (h *Handler) GetOCRResult(c *gin.Context) {
	id, ok := parseID(c, ocrResultNotFound)
	if !ok {
		return
	}

	row, err := h.ocrResults.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		notFound(c, ocrResultNotFound)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, schemas.NewOCRResultResponse(row))
}
