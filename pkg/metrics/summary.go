package metrics

import (
	"log/slog"

	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

// Summary holds run-level statistics derived from a finished equity curve.
type Summary struct {
	TotalReturn         fixed.Point
	SharpeRatio         fixed.Point
	SortinoRatio        fixed.Point
	MaxDrawdown         fixed.Point
	MaxDrawdownDuration int
}

// Summarize computes the summary from per-step returns and the equity index.
// The equity slice includes the 1.0 baseline row; returns excludes it.
func Summarize(returns, equity []fixed.Point, periodsPerYear fixed.Point) Summary {
	summary := Summary{
		SharpeRatio:  SharpeRatio(returns, periodsPerYear),
		SortinoRatio: SortinoRatio(returns, periodsPerYear),
	}

	if len(equity) > 0 {
		summary.TotalReturn = equity[len(equity)-1].Sub(fixed.One)
	}

	_, summary.MaxDrawdown, summary.MaxDrawdownDuration = Drawdowns(equity)
	return summary
}

func (s Summary) Print() {
	slog.Info("summary statistics",
		"total_return", s.TotalReturn.Mul(fixed.Hundred).Rescale(2).String()+"%",
		"sharpe_ratio", s.SharpeRatio.Rescale(5),
		"sortino_ratio", s.SortinoRatio.Rescale(5),
		"max_drawdown", s.MaxDrawdown.Mul(fixed.Hundred).Rescale(2).String()+"%",
		"max_drawdown_duration", s.MaxDrawdownDuration)
}
