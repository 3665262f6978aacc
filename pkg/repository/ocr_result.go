package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoice-ocr/pkg/models"
)

// OCRResultRepository persists OCR results
type OCRResultRepository interface {
	Create(ctx context.Context, r *models.OCRResult) (*models.OCRResult, error)
	GetByID(ctx context.Context, id uint) (*models.OCRResult, error)
}

type ocrResultRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewOCRResultRepository creates a gorm-backed OCRResultRepository
func NewOCRResultRepository(db *gorm.DB, log *zap.Logger) OCRResultRepository {
	return &ocrResultRepository{db: db, log: log}
}

func (r *ocrResultRepository) Create(ctx context.Context, row *models.OCRResult) (*models.OCRResult, error) {
	err := createAndRefresh(r.db.WithContext(ctx), row, func(m *models.OCRResult) uint { return m.ID })
	if err != nil {
		r.log.Error("failed to create ocr result", zap.String("filename", row.Filename), zap.Error(err))
		return nil, fmt.Errorf("failed to create ocr result: %w", err)
	}
	return row, nil
}

func (r *ocrResultRepository) GetByID(ctx context.Context, id uint) (*models.OCRResult, error) {
	var row models.OCRResult
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, wrapLookupErr("ocr result", id, err)
	}
	return &row, nil
}
