package memory

import (
	"context"
	"fmt"

	"github.com/peter-kozarec/barsim/pkg/common"
)

// Source serves bars straight from memory. Used by tests and small scripted
// replays where loading a data file is not worth it.
type Source map[string][]common.Bar

func (s Source) LoadBars(_ context.Context, symbol string) ([]common.Bar, error) {
	bars, ok := s[symbol]
	if !ok {
		return nil, fmt.Errorf("no bars held for symbol %q", symbol)
	}
	return bars, nil
}
