// Package handlers implements the HTTP API on top of gin.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"invoice-ocr/pkg/repository"
	"invoice-ocr/pkg/schemas"
	"invoice-ocr/pkg/services/ocr"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Relayer forwards uploaded files to the OCR webhook
type Relayer interface {
	Relay(ctx context.Context, files []ocr.File) (json.RawMessage, error)
}

// Handler holds the dependencies shared by all routes
type Handler struct {
	ocrResults   repository.OCRResultRepository
	invoiceItems repository.InvoiceItemRepository
	relay        Relayer
	db           Pinger
}

// New creates a Handler
func New(ocrResults repository.OCRResultRepository, invoiceItems repository.InvoiceItemRepository, relay Relayer, db Pinger) *Handler {
	return &Handler{
		ocrResults:   ocrResults,
		invoiceItems: invoiceItems,
		relay:        relay,
		db:           db,
	}
}

// Root answers GET /
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, schemas.RootResponse{Message: "Backend is running!"})
}

// Health answers GET /healthz
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusServiceUnavailable, CodeUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID reads the :id path parameter. ok is false once a response was written.
// Keys are int4 columns, so integers outside that range cannot match a row.
func parseID(c *gin.Context, notFoundMessage string) (uint, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		notFound(c, notFoundMessage)
		return 0, false
	}
	if err != nil {
		validationError(c, []schemas.FieldError{{Field: "id", Message: "must be an integer"}})
		return 0, false
	}
	if id <= 0 {
		notFound(c, notFoundMessage)
		return 0, false
	}
	return uint(id), true
}
