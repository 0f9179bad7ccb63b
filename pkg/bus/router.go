package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/peter-kozarec/barsim/pkg/common"
)

type event struct {
	id   EventId
	data interface{}
}

// Router owns the shared FIFO event queue. It is constructed once per run and
// handed to every component that posts; a single caller drains it via RunLoop,
// so no locking discipline applies to handler state.
type Router struct {
	events chan event

	OnMarket MarketEventHandler
	OnSignal SignalEventHandler
	OnOrder  OrderEventHandler
	OnFill   FillEventHandler

	runTime       time.Duration
	postCount     uint64
	postFails     uint64
	dispatchCount uint64
	dispatchFails uint64
}

func NewRouter(eventCapacity int) *Router {
	return &Router{
		events: make(chan event, eventCapacity),
	}
}

func (r *Router) Post(id EventId, data interface{}) error {
	select {
	case r.events <- event{id, data}:
		r.postCount++
		return nil
	default:
		r.postFails++
		return errors.New("event capacity reached")
	}
}

// RunLoop drains the queue in strict arrival order, calling advance only when
// it is empty. Events enqueued while draining are dispatched before advance
// runs again, so every reaction to one bar settles before the next bar is
// revealed. It runs in the caller's goroutine and returns the first error
// from a handler, an unknown event, or advance itself.
func (r *Router) RunLoop(ctx context.Context, advance func(context.Context) error) error {

	r.runTime = 0
	r.dispatchCount = 0
	r.dispatchFails = 0
	r.postCount = 0
	r.postFails = 0

	start := time.Now()
	defer func() {
		r.runTime += time.Since(start)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			r.dispatchCount++
			if err := r.dispatch(ctx, ev); err != nil {
				r.dispatchFails++
				return fmt.Errorf("dispatch %s event: %w", ev.id, err)
			}
		default:
			if err := advance(ctx); err != nil {
				return err
			}
		}
	}
}

func (r *Router) Statistics() Statistics {
	return Statistics{
		RunTime:       r.runTime,
		PostCount:     r.postCount,
		PostFails:     r.postFails,
		DispatchCount: r.dispatchCount,
		DispatchFails: r.dispatchFails,
		Throughput:    float64(r.postCount) / r.runTime.Seconds(),
	}
}

func (r *Router) dispatch(ctx context.Context, ev event) error {
	switch ev.id {
	case MarketEvent:
		market, ok := ev.data.(common.Market)
		if !ok {
			return errors.New("invalid type assertion for market event")
		}
		if r.OnMarket == nil {
			slog.Debug("market handler is nil")
			return nil
		}
		return r.OnMarket(ctx, market)
	case SignalEvent:
		sig, ok := ev.data.(common.Signal)
		if !ok {
			return errors.New("invalid type assertion for signal event")
		}
		if r.OnSignal == nil {
			slog.Debug("signal handler is nil")
			return nil
		}
		return r.OnSignal(ctx, sig)
	case OrderEvent:
		order, ok := ev.data.(common.Order)
		if !ok {
			return errors.New("invalid type assertion for order event")
		}
		if r.OnOrder == nil {
			slog.Debug("order handler is nil")
			return nil
		}
		return r.OnOrder(ctx, order)
	case FillEvent:
		fill, ok := ev.data.(common.Fill)
		if !ok {
			return errors.New("invalid type assertion for fill event")
		}
		if r.OnFill == nil {
			slog.Debug("fill handler is nil")
			return nil
		}
		return r.OnFill(ctx, fill)
	default:
		return fmt.Errorf("unsupported event id: %v", ev.id)
	}
}
