package orders

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/willowrootwellness/willowroot-backend/pkg/config"
)

// totalMismatchEpsilon is how far the client's displayed total may drift from
// the server-computed one before we log it. The mismatch never blocks the
// order either way.
const totalMismatchEpsilon = 0.01

// orderTotals holds the server-computed monetary breakdown, rounded to cents.
type orderTotals struct {
	Subtotal    float64
	ShippingFee float64
	Tax         float64
	Total       float64
}

// pricedLine is one validated line with its authoritative unit price.
type pricedLine struct {
	UnitPrice float64
	Quantity  int
}

// computeTotals re-derives the order's money from stored prices. Shipping is
// free at or above the threshold, a flat fee below it; tax applies to the
// subtotal only.
func computeTotals(cfg config.CheckoutConfig, lines []pricedLine) orderTotals {
	subtotal := decimal.Zero
	for _, line := range lines {
		unit := decimal.NewFromFloat(line.UnitPrice)
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	shipping := decimal.NewFromFloat(cfg.FlatShippingFee)
	if subtotal.GreaterThanOrEqual(decimal.NewFromFloat(cfg.FreeShippingThreshold)) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(decimal.NewFromFloat(cfg.TaxRate)).Round(2)
	total := subtotal.Add(shipping).Add(tax).Round(2)

	return orderTotals{
		Subtotal:    subtotal.InexactFloat64(),
		ShippingFee: shipping.InexactFloat64(),
		Tax:         tax.InexactFloat64(),
		Total:       total.InexactFloat64(),
	}
}

// totalsDisagree reports whether the client's total drifted past the epsilon.
func totalsDisagree(serverTotal, clientTotal float64) bool {
	return math.Abs(serverTotal-clientTotal) > totalMismatchEpsilon
}
