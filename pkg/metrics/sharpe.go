package metrics

import (
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

// SharpeRatio is the zero-benchmark annualized variant:
// sqrt(periodsPerYear) * mean(returns) / stdev(returns).
// A flat or empty series yields zero rather than dividing by zero.
func SharpeRatio(returns []fixed.Point, periodsPerYear fixed.Point) fixed.Point {
	mean := fixed.Mean(returns)
	volatility := fixed.StdDev(returns, mean)
	if volatility.IsZero() {
		return fixed.Zero
	}
	return periodsPerYear.Sqrt().Mul(mean.Div(volatility))
}

// SharpeRatioPreset resolves the preset first; an unrecognized preset is a
// configuration error surfaced to the caller.
func SharpeRatioPreset(returns []fixed.Point, periods Periods) (fixed.Point, error) {
	factor, err := periods.Factor()
	if err != nil {
		return fixed.Point{}, err
	}
	return SharpeRatio(returns, factor), nil
}

// SortinoRatio penalizes downside deviation only, same annualization.
func SortinoRatio(returns []fixed.Point, periodsPerYear fixed.Point) fixed.Point {
	mean := fixed.Mean(returns)
	downside := fixed.DownsideDev(returns, fixed.Zero)
	if downside.IsZero() {
		return fixed.Zero
	}
	return periodsPerYear.Sqrt().Mul(mean.Div(downside))
}
