package pricing

// Result holds the prices derived for one invoice line
type Result struct {
	GrossPrice float64
	NetAmount  float64
}

// Calculate returns the gross price and the net amount after a percentage
// discount and then a flat discount. Inputs are not range checked and the
// result is not rounded.
func Calculate(unitPrice float64, qty int, discountPercent, discountFlat float64) Result {
	gross := unitPrice * float64(qty)
	// the conversion keeps the product rounded on its own (no fused multiply-add)
	net := gross - float64(gross*(discountPercent/100)) - discountFlat
	return Result{GrossPrice: gross, NetAmount: net}
}
