package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoice-ocr/pkg/repository"
	"invoice-ocr/pkg/schemas"
)

const invoiceItemNotFound = "Invoice Item not found"

// CreateInvoiceItem handles POST /invoice_items.
// gross_price and net_amount are stored as sent.
func (h *Handler) CreateInvoiceItem(c *gin.Context) {
	var req schemas.InvoiceItemCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	row, err := h.invoiceItems.Create(c.Request.Context(), req.ToModel())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, schemas.NewInvoiceItemResponse(row))
}

// GetInvoiceItem handles GET /invoice_items/:id
func (h *Handler) GetInvoiceItem(c *gin.Context) {
	id, ok := parseID(c, invoiceItemNotFound)
	if !ok {
		return
	}

	row, err := h.invoiceItems.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		notFound(c, invoiceItemNotFound)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, schemas.NewInvoiceItemResponse(row))
}
