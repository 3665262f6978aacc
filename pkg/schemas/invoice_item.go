package schemas

import (
	"time"

	"invoice-ocr/pkg/models"
)

// InvoiceItemCreate is the body of POST /invoice_items
type InvoiceItemCreate struct {
	OCRResultID     *uint    `json:"ocr_result_id" binding:"required"`
	ReferenceNumber *string  `json:"reference_number" binding:"required"`
	SupplierName    *string  `json:"supplier_name"`
	MasterItemCode  *string  `json:"master_item_code" binding:"required"`
	InvoiceItemCode *string  `json:"invoice_item_code" binding:"required"`
	MasterItemName  *string  `json:"master_item_name" binding:"required"`
	InvoiceItemName *string  `json:"invoice_item_name" binding:"required"`
	Qty             *int     `json:"qty" binding:"required"`
	Unit            *string  `json:"unit" binding:"required"`
	UnitPrice       *float64 `json:"unit_price" binding:"required"`
	GrossPrice      *float64 `json:"gross_price" binding:"required"`
	DiscountPercent *float64 `json:"discount_percent"`
	DiscountFlat    *float64 `json:"discount_flat"`
	NetAmount       *float64 `json:"net_amount" binding:"required"`
	DueDate         *Date    `json:"due_date"`
	InvoiceDate     *Date    `json:"invoice_date" binding:"required"`
	DocumentType    *string  `json:"document_type" binding:"required,oneof=faktur invoice nota"`
	PaymentType     *string  `json:"payment_type" binding:"required,oneof=tunai cash transfer kredit credit"`
	Salesman        *string  `json:"salesman" binding:"required"`
}

// NormalizePaymentType maps the English aliases onto the stored values
func NormalizePaymentType(s string) models.PaymentType {
	switch s {
	case "cash":
		return models.PaymentTypeCash
	case "credit":
		return models.PaymentTypeCredit
	}
	return models.PaymentType(s)
}

// ToModel builds the row to insert. Discounts default to zero.
func (r *InvoiceItemCreate) ToModel() *models.InvoiceItem {
	return &models.InvoiceItem{
		OCRResultID:     deref(r.OCRResultID),
		ReferenceNumber: deref(r.ReferenceNumber),
		SupplierName:    deref(r.SupplierName),
		MasterItemCode:  deref(r.MasterItemCode),
		InvoiceItemCode: deref(r.InvoiceItemCode),
		MasterItemName:  deref(r.MasterItemName),
		InvoiceItemName: deref(r.InvoiceItemName),
		Qty:             float64(deref(r.Qty)),
		Unit:            deref(r.Unit),
		UnitPrice:       deref(r.UnitPrice),
		GrossPrice:      deref(r.GrossPrice),
		DiscountPercent: deref(r.DiscountPercent),
		DiscountFlat:    deref(r.DiscountFlat),
		NetAmount:       deref(r.NetAmount),
		DueDate:         r.DueDate.timePtr(),
		InvoiceDate:     r.InvoiceDate.timePtr(),
		DocumentType:    models.DocumentType(deref(r.DocumentType)),
		PaymentType:     NormalizePaymentType(deref(r.PaymentType)),
		Salesman:        deref(r.Salesman),
	}
}

// InvoiceItemResponse is the projection of a stored InvoiceItem
type InvoiceItemResponse struct {
	ID              uint                `json:"id"`
	OCRResultID     uint                `json:"ocr_result_id"`
	ReferenceNumber string              `json:"reference_number"`
	SupplierName    string              `json:"supplier_name"`
	MasterItemCode  string              `json:"master_item_code"`
	InvoiceItemCode string              `json:"invoice_item_code"`
	MasterItemName  string              `json:"master_item_name"`
	InvoiceItemName string              `json:"invoice_item_name"`
	Qty             float64             `json:"qty"`
	Unit            string              `json:"unit"`
	UnitPrice       float64             `json:"unit_price"`
	GrossPrice      float64             `json:"gross_price"`
	DiscountPercent float64             `json:"discount_percent"`
	DiscountFlat    float64             `json:"discount_flat"`
	NetAmount       float64             `json:"net_amount"`
	DueDate         *time.Time          `json:"due_date"`
	InvoiceDate     *time.Time          `json:"invoice_date"`
	DocumentType    models.DocumentType `json:"document_type"`
	PaymentType     models.PaymentType  `json:"payment_type"`
	Salesman        string              `json:"salesman"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// NewInvoiceItemResponse projects m into its response shape
func NewInvoiceItemResponse(m *models.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:              m.ID,
		OCRResultID:     m.OCRResultID,
		ReferenceNumber: m.ReferenceNumber,
		SupplierName:    m.SupplierName,
		MasterItemCode:  m.MasterItemCode,
		InvoiceItemCode: m.InvoiceItemCode,
		MasterItemName:  m.MasterItemName,
		InvoiceItemName: m.InvoiceItemName,
		Qty:             m.Qty,
		Unit:            m.Unit,
		UnitPrice:       m.UnitPrice,
		GrossPrice:      m.GrossPrice,
		DiscountPercent: m.DiscountPercent,
		DiscountFlat:    m.DiscountFlat,
		NetAmount:       m.NetAmount,
		DueDate:         m.DueDate,
		InvoiceDate:     m.InvoiceDate,
		DocumentType:    m.DocumentType,
		PaymentType:     m.PaymentType,
		Salesman:        m.Salesman,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
