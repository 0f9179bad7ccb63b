package metrics

import (
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

// Drawdowns walks an equity index and returns the per-step drawdown series,
// its maximum, and the longest run of consecutive underwater steps. The seed
// row is hwm=0, drawdown=0, duration=0; from t>=1 the high-water mark is
// max(hwm[t-1], equity[t]) and drawdown[t] = hwm[t] - equity[t].
func Drawdowns(equity []fixed.Point) (series []fixed.Point, maxDrawdown fixed.Point, maxDuration int) {
	series = make([]fixed.Point, len(equity))
	if len(equity) == 0 {
		return series, fixed.Zero, 0
	}

	series[0] = fixed.Zero
	maxDrawdown = fixed.Zero

	hwm := fixed.Zero
	duration := 0

	for t := 1; t < len(equity); t++ {
		hwm = fixed.Max(hwm, equity[t])
		drawdown := hwm.Sub(equity[t])
		series[t] = drawdown

		if drawdown.IsZero() {
			duration = 0
		} else {
			duration++
		}

		if drawdown.Gt(maxDrawdown) {
			maxDrawdown = drawdown
		}
		if duration > maxDuration {
			maxDuration = duration
		}
	}
	return series, maxDrawdown, maxDuration
}
