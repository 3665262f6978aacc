package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoice-ocr/pkg/logger"
	"invoice-ocr/pkg/metrics"
	"invoice-ocr/pkg/schemas"
)

// RouterConfig holds everything NewRouter wires together
type RouterConfig struct {
	Handler *Handler
	Logger  *zap.Logger
	// Metrics is optional; nil disables instrumentation and GET /metrics.
	Metrics         *metrics.Metrics
	MaxUploadMemory int64
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	schemas.SetupValidator()

	r := gin.New()
	if cfg.MaxUploadMemory > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadMemory
	}

	r.Use(RequestID())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(logger.Recovery(cfg.Logger, panicResponse))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	h := cfg.Handler
	r.GET("/", h.Root)
	r.GET("/healthz", h.Health)

	r.POST("/ocr_results", h.CreateOCRResult)
	r.GET("/ocr_results/:id", h.GetOCRResult)

	r.POST("/invoice_items", h.CreateInvoiceItem)
	r.GET("/invoice_items/:id", h.GetInvoiceItem)

	r.POST("/calculate", h.Calculate)
	r.POST("/upload", h.Upload)

	return r
}
