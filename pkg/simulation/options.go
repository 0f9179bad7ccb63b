package simulation

import (
	"time"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

type Option func(*Runner)

// Decorator wraps the installed handlers, outermost last. Both the monitor
// and telemetry middleware satisfy it.
type Decorator interface {
	WithMarket(bus.MarketEventHandler) bus.MarketEventHandler
	WithSignal(bus.SignalEventHandler) bus.SignalEventHandler
	WithOrder(bus.OrderEventHandler) bus.OrderEventHandler
	WithFill(bus.FillEventHandler) bus.FillEventHandler
}

func WithDecorators(decorators ...Decorator) Option {
	return func(r *Runner) {
		r.decorators = append(r.decorators, decorators...)
	}
}

// WithHeartbeat sleeps between calendar steps, pacing the replay for demo
// runs. Zero, the default, replays as fast as the loop turns.
func WithHeartbeat(d time.Duration) Option {
	return func(r *Runner) {
		r.heartbeat = d
	}
}

func WithPeriodsPerYear(factor fixed.Point) Option {
	return func(r *Runner) {
		r.periodsPerYear = factor
	}
}
