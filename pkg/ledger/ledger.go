package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/market"
	"github.com/peter-kozarec/barsim/pkg/metrics"
	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

const ledgerComponentName = "ledger"

var (
	// ErrInvalidFillDirection is fatal: applying a fill with a direction
	// other than buy or sell would silently corrupt position state.
	ErrInvalidFillDirection = errors.New("fill direction must be buy or sell")

	// ErrNegativeCommission guards the commission >= 0 invariant against a
	// misbehaving commission policy.
	ErrNegativeCommission = errors.New("commission must not be negative")
)

// PositionsSnapshot is one appended row of the positions history: signed unit
// quantities per symbol at a timestamp. Rows are never mutated after append.
type PositionsSnapshot struct {
	TimeStamp  time.Time
	Quantities map[string]int64
}

// HoldingsSnapshot is one appended row of the holdings history: mark-to-market
// value per symbol plus cash, cumulative commission, and their total.
type HoldingsSnapshot struct {
	TimeStamp  time.Time
	Values     map[string]fixed.Point
	Cash       fixed.Point
	Commission fixed.Point
	TotalValue fixed.Point
}

// Ledger is the sole owner of position, cash, and holdings state. It converts
// signals into naive fixed-quantity orders and fills into position and cash
// deltas, snapshotting the current state once per market event.
type Ledger struct {
	router *bus.Router
	stream *market.Stream

	symbols        []string
	initialCapital fixed.Point
	commission     CommissionModel

	currentPositions map[string]int64
	currentValues    map[string]fixed.Point
	cash             fixed.Point
	commissionPaid   fixed.Point
	totalValue       fixed.Point

	positions []PositionsSnapshot
	holdings  []HoldingsSnapshot
}

type Option func(*Ledger)

func WithCommissionModel(model CommissionModel) Option {
	return func(l *Ledger) {
		l.commission = model
	}
}

// NewLedger seeds the histories with one initial row at start so that after n
// market events each history holds n+1 rows.
func NewLedger(router *bus.Router, stream *market.Stream, start time.Time, initialCapital fixed.Point, options ...Option) *Ledger {
	symbols := stream.Symbols()

	l := &Ledger{
		router:           router,
		stream:           stream,
		symbols:          symbols,
		initialCapital:   initialCapital,
		commission:       NewSellTax(),
		currentPositions: make(map[string]int64, len(symbols)),
		currentValues:    make(map[string]fixed.Point, len(symbols)),
		cash:             initialCapital,
		commissionPaid:   fixed.Zero,
		totalValue:       initialCapital,
	}

	for _, option := range options {
		option(l)
	}

	for _, symbol := range symbols {
		l.currentPositions[symbol] = 0
		l.currentValues[symbol] = fixed.Zero
	}

	l.positions = append(l.positions, PositionsSnapshot{
		TimeStamp:  start,
		Quantities: copyQuantities(l.currentPositions),
	})
	l.holdings = append(l.holdings, HoldingsSnapshot{
		TimeStamp:  start,
		Values:     copyValues(l.currentValues),
		Cash:       l.cash,
		Commission: l.commissionPaid,
		TotalValue: l.totalValue,
	})

	return l
}

// OnMarket marks every position at the latest close and appends one positions
// row and one holdings row. Snapshots are value copies, never aliases of the
// live maps.
func (l *Ledger) OnMarket(_ context.Context, _ common.Market) error {
	ts, err := l.latestTime()
	if err != nil {
		return err
	}

	values := make(map[string]fixed.Point, len(l.symbols))
	total := l.cash

	for _, symbol := range l.symbols {
		closePrice, err := l.stream.LatestField(symbol, common.FieldClose)
		if errors.Is(err, market.ErrNoDataYet) {
			values[symbol] = fixed.Zero
			continue
		}
		if err != nil {
			return err
		}

		markValue := closePrice.MulInt64(l.currentPositions[symbol])
		values[symbol] = markValue
		total = total.Add(markValue)
	}

	l.currentValues = values
	l.totalValue = total

	l.positions = append(l.positions, PositionsSnapshot{
		TimeStamp:  ts,
		Quantities: copyQuantities(l.currentPositions),
	})
	l.holdings = append(l.holdings, HoldingsSnapshot{
		TimeStamp:  ts,
		Values:     copyValues(values),
		Cash:       l.cash,
		Commission: l.commissionPaid,
		TotalValue: total,
	})

	return nil
}

// OnSignal sizes the signal into a naive fixed-quantity market order. Already
// consistent combinations (e.g. LONG while holding) produce no order.
func (l *Ledger) OnSignal(_ context.Context, signal common.Signal) error {
	currentQty, ok := l.currentPositions[signal.Symbol]
	if !ok {
		return fmt.Errorf("%w: %q", market.ErrUnknownSymbol, signal.Symbol)
	}

	const unitQuantity = int64(1)

	var (
		quantity  int64
		direction common.OrderDirection
	)

	switch {
	case signal.Direction == common.SignalLong && currentQty == 0:
		quantity, direction = unitQuantity, common.OrderBuy
	case signal.Direction == common.SignalShort && currentQty == 0:
		quantity, direction = unitQuantity, common.OrderSell
	case signal.Direction == common.SignalExit && currentQty > 0:
		quantity, direction = currentQty, common.OrderSell
	case signal.Direction == common.SignalExit && currentQty < 0:
		quantity, direction = -currentQty, common.OrderBuy
	default:
		return nil
	}

	return l.router.Post(bus.OrderEvent, common.Order{
		Symbol:            signal.Symbol,
		Kind:              common.OrderKindMarket,
		Quantity:          quantity,
		Direction:         direction,
		EstimatedFillCost: signal.ReferencePrice.MulInt64(quantity),
		Source:            ledgerComponentName,
		ExecutionId:       utility.GetExecutionID(),
		TraceID:           utility.CreateTraceID(),
		TimeStamp:         signal.TimeStamp,
	})
}

// OnFill applies the fill to current state. Cash and total value take the
// signed cost plus commission immediately; the next OnMarket reconciles the
// mark side of the move.
func (l *Ledger) OnFill(_ context.Context, fill common.Fill) error {
	var delta int64
	switch fill.Direction {
	case common.OrderBuy:
		delta = fill.Quantity
	case common.OrderSell:
		delta = -fill.Quantity
	default:
		return fmt.Errorf("%w: got %v for %q at %s",
			ErrInvalidFillDirection, fill.Direction, fill.Symbol, fill.TimeStamp)
	}

	if _, ok := l.currentPositions[fill.Symbol]; !ok {
		return fmt.Errorf("%w: %q", market.ErrUnknownSymbol, fill.Symbol)
	}

	commission := l.commission.Commission(fill)
	if commission.IsNeg() {
		return fmt.Errorf("%w: got %s for %q at %s",
			ErrNegativeCommission, commission, fill.Symbol, fill.TimeStamp)
	}

	cost := fill.FillCost.MulInt64(delta)

	l.currentPositions[fill.Symbol] += delta
	l.currentValues[fill.Symbol] = l.currentValues[fill.Symbol].Add(cost)
	l.cash = l.cash.Sub(cost).Sub(commission)
	l.commissionPaid = l.commissionPaid.Add(commission)
	l.totalValue = l.totalValue.Sub(cost).Sub(commission)

	return nil
}

// CurrentQuantity reports the live signed position for a symbol.
func (l *Ledger) CurrentQuantity(symbol string) (int64, error) {
	qty, ok := l.currentPositions[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q", market.ErrUnknownSymbol, symbol)
	}
	return qty, nil
}

// Positions returns the append-only positions history.
func (l *Ledger) Positions() []PositionsSnapshot {
	return l.positions
}

// Holdings returns the append-only holdings history.
func (l *Ledger) Holdings() []HoldingsSnapshot {
	return l.holdings
}

// Summary derives run statistics from the materialized equity curve.
func (l *Ledger) Summary(periodsPerYear fixed.Point) metrics.Summary {
	curve := l.EquityCurve()
	return metrics.Summarize(curve.Returns(), curve.Equity(), periodsPerYear)
}

func (l *Ledger) latestTime() (time.Time, error) {
	for _, symbol := range l.symbols {
		ts, err := l.stream.LatestBarTime(symbol)
		if errors.Is(err, market.ErrNoDataYet) {
			continue
		}
		if err != nil {
			return time.Time{}, err
		}
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("%w: no symbol has data", market.ErrNoDataYet)
}

func copyQuantities(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyValues(src map[string]fixed.Point) map[string]fixed.Point {
	dst := make(map[string]fixed.Point, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
