package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DocumentType is the kind of source document an invoice item was read from
type DocumentType string

const (
	DocumentTypeFaktur  DocumentType = "faktur"
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeNota    DocumentType = "nota"
)

// Valid reports whether d is one of the declared document types
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentTypeFaktur, DocumentTypeInvoice, DocumentTypeNota:
		return true
	}
	return false
}

// PaymentType is how an invoice is settled
type PaymentType string

const (
	PaymentTypeCash     PaymentType = "tunai"
	PaymentTypeTransfer PaymentType = "transfer"
	PaymentTypeCredit   PaymentType = "kredit"
)

// Valid reports whether p is one of the stored payment types
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeTransfer, PaymentTypeCredit:
		return true
	}
	return false
}

// InvoiceItem is one line of an invoice, derived from an OCRResult.
// GrossPrice and NetAmount are supplied by the client; they are expected to
// match pricing.Calculate but are not recomputed.
type InvoiceItem struct {
	ID          uint       `gorm:"primaryKey"`
	OCRResultID uint       `gorm:"column:ocr_result_id;not null;index"`
	OCRResult   *OCRResult `gorm:"foreignKey:OCRResultID;constraint:OnDelete:CASCADE"`

	ReferenceNumber string `gorm:"index"`
	SupplierName    string `gorm:"index"`
	MasterItemCode  string `gorm:"index"`
	InvoiceItemCode string `gorm:"index"`
	MasterItemName  string
	InvoiceItemName string
	Unit            string
	Salesman        string

	Qty             float64 `gorm:"not null"`
	UnitPrice       float64 `gorm:"not null"`
	GrossPrice      float64 `gorm:"not null"`
	DiscountPercent float64 `gorm:"not null"`
	DiscountFlat    float64 `gorm:"not null"`
	NetAmount       float64 `gorm:"not null"`

	DueDate     *time.Time
	InvoiceDate *time.Time

	DocumentType DocumentType `gorm:"not null"`
	PaymentType  PaymentType  `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name used by gorm
func (InvoiceItem) TableName() string {
	return "invoice_items_from_ocr"
}

// BeforeSave rejects enum values the database types would not accept
func (i *InvoiceItem) BeforeSave(*gorm.DB) error {
	if !i.DocumentType.Valid() {
		return fmt.Errorf("invalid document type %q", i.DocumentType)
	}
	if !i.PaymentType.Valid() {
		return fmt.Errorf("invalid payment type %q", i.PaymentType)
	}
	return nil
}
