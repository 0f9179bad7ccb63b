package sandbox

import (
	"context"
	"fmt"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/market"
	"github.com/peter-kozarec/barsim/pkg/utility"
)

const executorComponentName = "exchange.sandbox.executor"

// Executor is the replay's simulated broker. Every order produces exactly one
// fill at the latest visible close, tagged with the synthetic venue so the
// ledger's commission policy knows the fill price equals the estimate. It
// never reports a commission of its own.
type Executor struct {
	router *bus.Router
	stream *market.Stream

	venue    string
	slippage SlippageHandler
}

func NewExecutor(router *bus.Router, stream *market.Stream, options ...Option) *Executor {
	e := &Executor{
		router: router,
		stream: stream,
		venue:  common.BacktestVenue,
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// Execute fills the order at the latest close of its symbol. An order for an
// unregistered symbol is fatal; the replay has no valid price for it.
func (e *Executor) Execute(_ context.Context, order common.Order) error {
	price, err := e.stream.LatestField(order.Symbol, common.FieldClose)
	if err != nil {
		return fmt.Errorf("unable to price order for %q: %w", order.Symbol, err)
	}

	if e.slippage != nil {
		price = e.slippage(order, price)
	}

	ts, err := e.stream.LatestBarTime(order.Symbol)
	if err != nil {
		return fmt.Errorf("unable to stamp fill for %q: %w", order.Symbol, err)
	}

	return e.router.Post(bus.FillEvent, common.Fill{
		Symbol:            order.Symbol,
		Venue:             e.venue,
		Quantity:          order.Quantity,
		Direction:         order.Direction,
		FillCost:          price,
		EstimatedFillCost: order.EstimatedFillCost,
		Source:            executorComponentName,
		ExecutionId:       utility.GetExecutionID(),
		TraceID:           utility.CreateTraceID(),
		TimeStamp:         ts,
	})
}
