package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoice-ocr/pkg/schemas"
	"invoice-ocr/pkg/services/pricing"
)

// Calculate handles POST /calculate
func (h *Handler) Calculate(c *gin.Context) {
	var req schemas.PriceCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res := pricing.Calculate(*req.UnitPrice, *req.Qty, *req.DiscountPercent, *req.DiscountFlat)
	c.JSON(http.StatusOK, schemas.PriceCalculationResponse{
		GrossPrice: res.GrossPrice,
		NetAmount:  res.NetAmount,
	})
}
