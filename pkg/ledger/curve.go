package ledger

import (
	"time"

	"github.com/peter-kozarec/barsim/pkg/metrics"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

// Row is one step of the materialized equity curve table.
type Row struct {
	TimeStamp  time.Time
	Values     map[string]fixed.Point
	Cash       fixed.Point
	Commission fixed.Point
	TotalValue fixed.Point
	Return     fixed.Point
	Equity     fixed.Point
	Drawdown   fixed.Point
}

/// Curve is the time-indexed equity curve derived from the holdings history:
// per-step returns of total value and their cumulative product seeded at 1.0,
// with the drawdown column attached. The first row is the seeded baseline.
type Curve struct {
	Symbols []string
	Rows    []Row
}

// EquityCurve materializes the holdings history. Safe to call repeatedly; it
// reads the append-only snapshots and never mutates ledger state.
func (l *Ledger) EquityCurve() *Curve {
	curve := &Curve{
		Symbols: append([]string(nil), l.symbols...),
		Rows:    make([]Row, len(l.holdings)),
	}

	equity := fixed.One
	for i, snapshot := range l.holdings {
		row := Row{
			TimeStamp:  snapshot.TimeStamp,
			Values:     copyValues(snapshot.Values),
			Cash:       snapshot.Cash,
			Commission: snapshot.Commission,
			TotalValue: snapshot.TotalValue,
			Return:     fixed.Zero,
			Equity:     fixed.One,
		}

		if i > 0 {
			prevTotal := l.holdings[i-1].TotalValue
			row.Return = snapshot.TotalValue.Div(prevTotal).Sub(fixed.One)
			equity = equity.Mul(fixed.One.Add(row.Return))
			row.Equity = equity
		}

		curve.Rows[i] = row
	}

	drawdowns, _, _ := metrics.Drawdowns(curve.Equity())
	for i := range curve.Rows {
		curve.Rows[i].Drawdown = drawdowns[i]
	}

	return curve
}

// Returns is the per-step return column, baseline row excluded.
func (c *Curve) Returns() []fixed.Point {
	if len(c.Rows) <= 1 {
		return nil
	}
	returns := make([]fixed.Point, len(c.Rows)-1)
	for i, row := range c.Rows[1:] {
		returns[i] = row.Return
	}
	return returns
}

// Equity is the equity index column including the 1.0 baseline row.
func (c *Curve) Equity() []fixed.Point {
	equity := make([]fixed.Point, len(c.Rows))
	for i, row := range c.Rows {
		equity[i] = row.Equity
	}
	return equity
}
