package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoice-ocr/pkg/models"
)

// InvoiceItemRepository persists invoice items
type InvoiceItemRepository interface {
	Create(ctx context.Context, item *models.InvoiceItem) (*models.InvoiceItem, error)
	GetByID(ctx context.Context, id uint) (*models.InvoiceItem, error)
}

type invoiceItemRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewInvoiceItemRepository creates a gorm-backed InvoiceItemRepository
func NewInvoiceItemRepository(db *gorm.DB, log *zap.Logger) InvoiceItemRepository {
	return &invoiceItemRepository{db: db, log: log}
}

func (r *invoiceItemRepository) Create(ctx context.Context, item *models.InvoiceItem) (*models.InvoiceItem, error) {
	err := createAndRefresh(r.db.WithContext(ctx), item, func(m *models.InvoiceItem) uint { return m.ID })
	if err != nil {
		r.log.Error("failed to create invoice item",
			zap.Uint("ocr_result_id", item.OCRResultID),
			zap.String("reference_number", item.ReferenceNumber),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create invoice item: %w", err)
	}
	return item, nil
}

func (r *invoiceItemRepository) GetByID(ctx context.Context, id uint) (*models.InvoiceItem, error) {
	var item models.InvoiceItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, wrapLookupErr("invoice item", id, err)
	}
	return &item, nil
}
