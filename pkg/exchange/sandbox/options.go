package sandbox

import (
	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

type Option func(*Executor)

// SlippageHandler adjusts the raw fill price for an order. The default
// executor fills at the unadjusted latest close.
type SlippageHandler func(order common.Order, price fixed.Point) fixed.Point

func WithSlippageHandler(handler SlippageHandler) Option {
	return func(e *Executor) {
		e.slippage = handler
	}
}

// WithVenue overrides the venue tag on produced fills. Anything other than
// the synthetic venue makes commission policies treat fills as external.
func WithVenue(venue string) Option {
	return func(e *Executor) {
		e.venue = venue
	}
}
