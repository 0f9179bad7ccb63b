package ledger

import (
	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

// CommissionModel prices the fee for one fill. The ledger calls through this
// policy for every fill, so venue-specific cost models can be swapped in
// without touching ledger logic.
type CommissionModel interface {
	Commission(fill common.Fill) fixed.Point
}

// SellTax models a sell-side transaction tax: a SELL pays Rate times the
// cost basis, a BUY pays nothing. The basis is the order's estimated cost
// when the fill comes from the replay's own synthetic venue (which fills at
// the estimate, without slippage), otherwise the externally reported
// per-unit cost times quantity.
type SellTax struct {
	Rate fixed.Point
}

// DefaultSellTaxRate follows the Korean equity market norm of 0.3%.
var DefaultSellTaxRate = fixed.FromInt64(3, 3)

func NewSellTax() SellTax {
	return SellTax{Rate: DefaultSellTaxRate}
}

func (m SellTax) Commission(fill common.Fill) fixed.Point {
	if fill.Direction != common.OrderSell {
		return fixed.Zero
	}

	basis := fill.EstimatedFillCost
	if fill.Venue != common.BacktestVenue {
		basis = fill.FillCost.MulInt64(fill.Quantity)
	}
	return m.Rate.Mul(basis)
}

// VenueReported trusts the fee the venue put on the fill.
type VenueReported struct{}

func (VenueReported) Commission(fill common.Fill) fixed.Point {
	return fill.Commission
}

// FreeOfCharge charges nothing; handy for frictionless what-if runs.
type FreeOfCharge struct{}

func (FreeOfCharge) Commission(common.Fill) fixed.Point {
	return fixed.Zero
}
