package schemas

import (
	"time"

	"invoice-ocr/pkg/models"
)

// OCRResultCreate is the body of POST /ocr_results
type OCRResultCreate struct {
	Filename        *string `json:"filename" binding:"required"`
	ExtractedText   *string `json:"extracted_text" binding:"required"`
	ReferenceNumber *string `json:"reference_number"`
}

// ToModel builds the row to insert
func (r *OCRResultCreate) ToModel() *models.OCRResult {
	return &models.OCRResult{
		Filename:        deref(r.Filename),
		ExtractedText:   deref(r.ExtractedText),
		ReferenceNumber: r.ReferenceNumber,
	}
}

// OCRResultResponse is the projection of a stored OCRResult
type OCRResultResponse struct {
	ID              uint      `json:"id"`
	Filename        string    `json:"filename"`
	ExtractedText   string    `json:"extracted_text"`
	ReferenceNumber *string   `json:"reference_number"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewOCRResultResponse projects m into its response shape
func NewOCRResultResponse(m *models.OCRResult) OCRResultResponse {
	return OCRResultResponse{
		ID:              m.ID,
		Filename:        m.Filename,
		ExtractedText:   m.ExtractedText,
		ReferenceNumber: m.ReferenceNumber,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
