package compounds

import (
	"github.com/shopspring/decimal"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// Per-millilitre rates by tier. Decimal arithmetic here keeps the save-time
// price exact; the stored column is numeric(10,2).
var tierRatePerML = map[enums.CompoundTier]decimal.Decimal{
	enums.CompoundTierEssential: decimal.RequireFromString("0.18"),
	enums.CompoundTierSignature: decimal.RequireFromString("0.24"),
	enums.CompoundTierReserve:   decimal.RequireFromString("0.32"),
}

// Flat formulation fee by compound type. Practitioner blends carry the
// consult markup.
var typeFee = map[enums.CompoundType]decimal.Decimal{
	enums.CompoundTypeGuided:       decimal.Zero,
	enums.CompoundTypePractitioner: decimal.RequireFromString("5.00"),
	enums.CompoundTypeCustom:       decimal.RequireFromString("2.50"),
}

// ComputePrice derives the authoritative sale price of a blend from its tier,
// type, and bottle volume, rounded to cents.
func ComputePrice(tier enums.CompoundTier, compoundType enums.CompoundType, bottleVolumeML float64) (float64, bool) {
	rate, ok := tierRatePerML[tier]
	if !ok {
		return 0, false
	}
	fee, ok := typeFee[compoundType]
	if !ok {
		return 0, false
	}
	if bottleVolumeML <= 0 {
		return 0, false
	}

	volume := decimal.NewFromFloat(bottleVolumeML)
	price := rate.Mul(volume).Add(fee).Round(2)
	if !price.IsPositive() {
		return 0, false
	}
	value, _ := price.Float64()
	return value, true
}
