package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/data/memory"
	"github.com/peter-kozarec/barsim/pkg/ledger"
	"github.com/peter-kozarec/barsim/pkg/market"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return t0.AddDate(0, 0, n)
}

func bar(ts time.Time, close float64) common.Bar {
	p := fixed.FromFloat64(close)
	return common.Bar{
		TimeStamp: ts,
		Open:      p,
		High:      p,
		Low:       p,
		Close:     p,
		Volume:    fixed.FromInt64(100, 0),
	}
}

func newFixture(t *testing.T, closes ...float64) (*bus.Router, *market.Stream, *ledger.Ledger) {
	t.Helper()

	bars := make([]common.Bar, len(closes))
	for i, c := range closes {
		bars[i] = bar(day(i), c)
	}

	stream, err := market.NewStream(context.Background(), memory.Source{"ABC": bars}, "ABC")
	require.NoError(t, err)

	router := bus.NewRouter(32)
	book := ledger.NewLedger(router, stream, stream.StartTime(), fixed.FromInt64(1000, 0))
	return router, stream, book
}

func drainOrders(t *testing.T, router *bus.Router) []common.Order {
	t.Helper()

	var orders []common.Order
	router.OnOrder = func(_ context.Context, order common.Order) error {
		orders = append(orders, order)
		return nil
	}

	stop := func(context.Context) error { return context.Canceled }
	_ = router.RunLoop(context.Background(), stop)
	return orders
}

func signal(direction common.SignalDirection, price float64) common.Signal {
	return common.Signal{
		Symbol:         "ABC",
		Direction:      direction,
		Strength:       fixed.One,
		ReferencePrice: fixed.FromFloat64(price),
		TimeStamp:      t0,
	}
}

func fill(direction common.OrderDirection, qty int64, price float64) common.Fill {
	p := fixed.FromFloat64(price)
	return common.Fill{
		Symbol:            "ABC",
		Venue:             common.BacktestVenue,
		Quantity:          qty,
		Direction:         direction,
		FillCost:          p,
		EstimatedFillCost: p.MulInt64(qty),
		TimeStamp:         t0,
	}
}

func Test_LedgerInitialState(t *testing.T) {
	_, _, book := newFixture(t, 10)

	require.Len(t, book.Positions(), 1)
	require.Len(t, book.Holdings(), 1)

	initial := book.Holdings()[0]
	assert.True(t, initial.Cash.Eq(fixed.FromInt64(1000, 0)))
	assert.True(t, initial.TotalValue.Eq(fixed.FromInt64(1000, 0)))
	assert.True(t, initial.Commission.IsZero())
	assert.Equal(t, int64(0), book.Positions()[0].Quantities["ABC"])
}

func Test_LedgerSignalSizing(t *testing.T) {
	testCases := []struct {
		name      string
		holding   int64
		direction common.SignalDirection
		wantOrder bool
		wantQty   int64
		wantSide  common.OrderDirection
	}{
		{"long while flat buys one", 0, common.SignalLong, true, 1, common.OrderBuy},
		{"short while flat sells one", 0, common.SignalShort, true, 1, common.OrderSell},
		{"exit closes long", 3, common.SignalExit, true, 3, common.OrderSell},
		{"exit closes short", -2, common.SignalExit, true, 2, common.OrderBuy},
		{"long while long is a no-op", 1, common.SignalLong, false, 0, common.OrderBuy},
		{"short while short is a no-op", -1, common.SignalShort, false, 0, common.OrderBuy},
		{"exit while flat is a no-op", 0, common.SignalExit, false, 0, common.OrderBuy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, _, book := newFixture(t, 10)

			if tc.holding > 0 {
				require.NoError(t, book.OnFill(context.Background(), fill(common.OrderBuy, tc.holding, 10)))
			} else if tc.holding < 0 {
				require.NoError(t, book.OnFill(context.Background(), fill(common.OrderSell, -tc.holding, 10)))
			}

			require.NoError(t, book.OnSignal(context.Background(), signal(tc.direction, 10)))
			orders := drainOrders(t, router)

			if !tc.wantOrder {
				assert.Empty(t, orders)
				return
			}
			require.Len(t, orders, 1)
			assert.Equal(t, tc.wantQty, orders[0].Quantity)
			assert.Equal(t, tc.wantSide, orders[0].Direction)
			assert.Equal(t, common.OrderKindMarket, orders[0].Kind)
			assert.True(t, orders[0].EstimatedFillCost.Eq(fixed.FromInt64(10*tc.wantQty, 0)))
		})
	}
}

func Test_LedgerFillAccounting(t *testing.T) {
	_, _, book := newFixture(t, 10, 12, 8)

	// Buy one unit at 12: no commission on the buy side.
	require.NoError(t, book.OnFill(context.Background(), fill(common.OrderBuy, 1, 12)))

	qty, err := book.CurrentQuantity("ABC")
	require.NoError(t, err)
	assert.Equal(t, int64(1), qty)

	// Sell it at 8: commission 0.003 * 8 = 0.024 on the estimated basis.
	require.NoError(t, book.OnFill(context.Background(), fill(common.OrderSell, 1, 8)))

	qty, err = book.CurrentQuantity("ABC")
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}

func Test_LedgerCashConservation(t *testing.T) {
	_, stream, book := newFixture(t, 10, 12, 8)

	ctx := context.Background()
	stream.Advance()
	require.NoError(t, book.OnMarket(ctx, common.Market{}))

	stream.Advance()
	require.NoError(t, book.OnFill(ctx, fill(common.OrderBuy, 1, 12)))
	require.NoError(t, book.OnMarket(ctx, common.Market{}))

	stream.Advance()
	require.NoError(t, book.OnFill(ctx, fill(common.OrderSell, 1, 8)))
	require.NoError(t, book.OnMarket(ctx, common.Market{}))

	holdings := book.Holdings()
	require.Len(t, holdings, 4)

	last := holdings[len(holdings)-1]
	// 1000 - 12 + 8 - 0.024
	wantCash := fixed.MustFromString("995.976")
	assert.True(t, last.Cash.Eq(wantCash), "cash: got %s", last.Cash.String())
	assert.True(t, last.Commission.Eq(fixed.MustFromString("0.024")))

	// Flat position, so total value equals cash.
	assert.True(t, last.TotalValue.Eq(wantCash), "total: got %s", last.TotalValue.String())
	assert.True(t, last.Values["ABC"].IsZero())
}

func Test_LedgerHoldingsMarkToMarket(t *testing.T) {
	_, stream, book := newFixture(t, 10, 12)

	ctx := context.Background()
	stream.Advance()
	require.NoError(t, book.OnFill(ctx, fill(common.OrderBuy, 2, 10)))
	require.NoError(t, book.OnMarket(ctx, common.Market{}))

	stream.Advance()
	require.NoError(t, book.OnMarket(ctx, common.Market{}))

	holdings := book.Holdings()
	require.Len(t, holdings, 3)

	// After the second bar the two units are marked at 12.
	last := holdings[len(holdings)-1]
	assert.True(t, last.Values["ABC"].Eq(fixed.FromInt64(24, 0)))
	assert.True(t, last.Cash.Eq(fixed.FromInt64(980, 0)))
	assert.True(t, last.TotalValue.Eq(fixed.FromInt64(1004, 0)))
}

func Test_LedgerInvalidFillDirection(t *testing.T) {
	_, _, book := newFixture(t, 10)

	bad := fill(common.OrderBuy, 1, 10)
	bad.Direction = common.OrderDirection(99)

	err := book.OnFill(context.Background(), bad)
	assert.ErrorIs(t, err, ledger.ErrInvalidFillDirection)
}

func Test_LedgerUnknownSymbol(t *testing.T) {
	_, _, book := newFixture(t, 10)

	unknown := fill(common.OrderBuy, 1, 10)
	unknown.Symbol = "XYZ"
	assert.ErrorIs(t, book.OnFill(context.Background(), unknown), market.ErrUnknownSymbol)

	sig := signal(common.SignalLong, 10)
	sig.Symbol = "XYZ"
	assert.ErrorIs(t, book.OnSignal(context.Background(), sig), market.ErrUnknownSymbol)
}

func Test_LedgerSnapshotsAreCopies(t *testing.T) {
	_, stream, book := newFixture(t, 10, 12)

	ctx := context.Background()
	stream.Advance()
	require.NoError(t, book.OnMarket(ctx, common.Market{}))

	before := book.Positions()[1].Quantities["ABC"]

	stream.Advance()
	require.NoError(t, book.OnFill(ctx, fill(common.OrderBuy, 1, 12)))
	require.NoError(t, book.OnMarket(ctx, common.Market{}))

	// The earlier snapshot must not see the later fill.
	assert.Equal(t, before, book.Positions()[1].Quantities["ABC"])
	assert.Equal(t, int64(1), book.Positions()[2].Quantities["ABC"])
}

func Test_LedgerNegativeCommissionRejected(t *testing.T) {
	router := bus.NewRouter(8)
	stream, err := market.NewStream(context.Background(), memory.Source{"ABC": {bar(day(0), 10)}}, "ABC")
	require.NoError(t, err)

	book := ledger.NewLedger(router, stream, stream.StartTime(), fixed.FromInt64(1000, 0),
		ledger.WithCommissionModel(commissionFunc(func(common.Fill) fixed.Point {
			return fixed.NegOne
		})))

	err = book.OnFill(context.Background(), fill(common.OrderSell, 1, 10))
	assert.ErrorIs(t, err, ledger.ErrNegativeCommission)
}

type commissionFunc func(common.Fill) fixed.Point

func (f commissionFunc) Commission(fill common.Fill) fixed.Point { return f(fill) }
