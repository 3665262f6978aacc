package schemas

// PriceCalculationRequest is the body of POST /calculate
type PriceCalculationRequest struct {
	UnitPrice       *float64 `json:"unit_price" binding:"required"`
	Qty             *int     `json:"qty" binding:"required"`
	DiscountPercent *float64 `json:"discount_percent" binding:"required"`
	DiscountFlat    *float64 `json:"discount_flat" binding:"required"`
}

// PriceCalculationResponse is the result of POST /calculate
type PriceCalculationResponse struct {
	GrossPrice float64 `json:"gross_price"`
	NetAmount  float64 `json:"net_amount"`
}
