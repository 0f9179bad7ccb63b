package metrics

import (
	"errors"
	"fmt"

	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

// ErrUnknownPeriods reports an annualization preset outside the recognized
// set. Callers must pass a valid preset or an explicit numeric factor; there
// is no silent default.
var ErrUnknownPeriods = errors.New("unrecognized annualization preset")

// Periods names how many observations make up one bar step. The factors
// assume 252 trading days of 6.5 hours.
type Periods string

const (
	PeriodsDaily    Periods = "daily"
	PeriodsHourly   Periods = "hourly"
	PeriodsMinutely Periods = "minutely"
)

var (
	// DailyPeriodsPerYear is the default annualization factor.
	DailyPeriodsPerYear = fixed.FromInt64(252, 0)

	factorHourly   = fixed.FromInt64(16380, 1) // 252 * 6.5
	factorMinutely = fixed.FromInt64(98280, 0) // 252 * 6.5 * 60
)

// Factor resolves the preset to periods-per-year.
func (p Periods) Factor() (fixed.Point, error) {
	switch p {
	case PeriodsDaily:
		return DailyPeriodsPerYear, nil
	case PeriodsHourly:
		return factorHourly, nil
	case PeriodsMinutely:
		return factorMinutely, nil
	default:
		return fixed.Point{}, fmt.Errorf("%w: %q", ErrUnknownPeriods, string(p))
	}
}
