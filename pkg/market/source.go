package market

import (
	"context"

	"github.com/peter-kozarec/barsim/pkg/common"
)

// BarSource supplies the raw history for one symbol. Implementations must
// return bars deduplicated and monotonically non-decreasing in time; the
// stream validates ordering and rejects sources that violate it.
type BarSource interface {
	LoadBars(ctx context.Context, symbol string) ([]common.Bar, error)
}
