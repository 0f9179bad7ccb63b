package simulation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/ledger"
	"github.com/peter-kozarec/barsim/pkg/market"
	"github.com/peter-kozarec/barsim/pkg/metrics"
	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

const runnerComponentName = "simulation"

// errStreamExhausted signals a normal end of data from the advance callback.
// It never escapes Run.
var errStreamExhausted = errors.New("stream exhausted")

type State uint8

const (
	StateRunning State = iota
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Strategy reacts to each revealed bar step, posting signals back to the queue.
type Strategy interface {
	CalcSignals(ctx context.Context, market common.Market) error
}

// ExecutionSink turns accepted orders into fills.
type ExecutionSink interface {
	Execute(ctx context.Context, order common.Order) error
}

// Portfolio tracks positions and holdings in reaction to the event flow.
type Portfolio interface {
	OnMarket(ctx context.Context, market common.Market) error
	OnSignal(ctx context.Context, signal common.Signal) error
	OnFill(ctx context.Context, fill common.Fill) error
}

// Result is everything a finished run produces.
type Result struct {
	Curve   *ledger.Curve
	Summary metrics.Summary

	MarketEvents uint64
	SignalEvents uint64
	OrderEvents  uint64
	FillEvents   uint64
}

// Runner wires a stream, strategy, portfolio and execution sink onto one
// router and drives them until the stream runs dry.
type Runner struct {
	router   *bus.Router
	stream   *market.Stream
	strategy Strategy
	book     Portfolio
	sink     ExecutionSink

	periodsPerYear fixed.Point
	heartbeat      time.Duration
	decorators     []Decorator

	state State

	marketEvents uint64
	signalEvents uint64
	orderEvents  uint64
	fillEvents   uint64
}

func NewRunner(router *bus.Router, stream *market.Stream, strategy Strategy, book Portfolio, sink ExecutionSink, options ...Option) *Runner {
	r := &Runner{
		router:         router,
		stream:         stream,
		strategy:       strategy,
		book:           book,
		sink:           sink,
		periodsPerYear: metrics.DailyPeriodsPerYear,
	}
	for _, option := range options {
		option(r)
	}
	r.installHandlers()
	return r
}

func (r *Runner) installHandlers() {
	onMarket := func(ctx context.Context, market common.Market) error {
		r.marketEvents++
		return bus.MergeHandlers(r.strategy.CalcSignals, r.book.OnMarket)(ctx, market)
	}
	onSignal := func(ctx context.Context, signal common.Signal) error {
		r.signalEvents++
		return r.book.OnSignal(ctx, signal)
	}
	onOrder := func(ctx context.Context, order common.Order) error {
		r.orderEvents++
		return r.sink.Execute(ctx, order)
	}
	onFill := func(ctx context.Context, fill common.Fill) error {
		r.fillEvents++
		return r.book.OnFill(ctx, fill)
	}

	for _, d := range r.decorators {
		onMarket = d.WithMarket(onMarket)
		onSignal = d.WithSignal(onSignal)
		onOrder = d.WithOrder(onOrder)
		onFill = d.WithFill(onFill)
	}

	r.router.OnMarket = onMarket
	r.router.OnSignal = onSignal
	r.router.OnOrder = onOrder
	r.router.OnFill = onFill
}

// Run drives the loop to completion. The queue is drained between calendar
// steps, so every reaction to one bar settles before the next one is posted.
// Any handler error aborts the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.state = StateRunning

	err := r.router.RunLoop(ctx, r.advance)
	if err != nil && !errors.Is(err, errStreamExhausted) {
		return nil, err
	}
	r.state = StateFinished

	curve := r.curve()
	result := &Result{
		Curve:        curve,
		MarketEvents: r.marketEvents,
		SignalEvents: r.signalEvents,
		OrderEvents:  r.orderEvents,
		FillEvents:   r.fillEvents,
	}
	if curve != nil {
		result.Summary = metrics.Summarize(curve.Returns(), curve.Equity(), r.periodsPerYear)
	}

	slog.Info("run finished",
		"market_events", r.marketEvents,
		"signal_events", r.signalEvents,
		"order_events", r.orderEvents,
		"fill_events", r.fillEvents)
	return result, nil
}

func (r *Runner) State() State {
	return r.state
}

func (r *Runner) advance(_ context.Context) error {
	if !r.stream.Advance() {
		return errStreamExhausted
	}

	if r.heartbeat > 0 {
		time.Sleep(r.heartbeat)
	}

	return r.router.Post(bus.MarketEvent, common.Market{
		Source:      runnerComponentName,
		ExecutionId: utility.GetExecutionID(),
		TraceID:     utility.CreateTraceID(),
		TimeStamp:   time.Now(),
	})
}

func (r *Runner) curve() *ledger.Curve {
	book, ok := r.book.(*ledger.Ledger)
	if !ok {
		return nil
	}
	return book.EquityCurve()
}
