package common

import (
	"time"

	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

// BacktestVenue tags fills produced by the replay's own synthetic venue.
// Commission policies use it to tell simulated fills from external ones.
const BacktestVenue = "SANDBOX"

// Fill records an order executed at a venue. FillCost is the per-unit price
// the venue reports; EstimatedFillCost is carried over from the order so
// slippage and simulated commission bases can be derived. Commission is the
// venue-reported fee; a zero value means the ledger's commission policy
// decides (the sandbox venue never reports one).
type Fill struct {
	Symbol            string         `json:"symbol"`
	Venue             string         `json:"venue"`
	Quantity          int64          `json:"quantity"`
	Direction         OrderDirection `json:"direction"`
	FillCost          fixed.Point    `json:"fill_cost"`
	EstimatedFillCost fixed.Point    `json:"estimated_fill_cost"`
	Commission        fixed.Point    `json:"commission"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
