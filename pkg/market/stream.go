package market

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

var (
	// ErrUnknownSymbol reports a symbol that was never registered with the
	// stream. Distinct from ErrNoDataYet so misconfiguration is not confused
	// with a startup transient.
	ErrUnknownSymbol = errors.New("symbol is not registered with the stream")

	// ErrNoDataYet reports a look-back query before any bar for the symbol
	// has been revealed by Advance.
	ErrNoDataYet = errors.New("no bars revealed yet")
)

// Stream replays aligned history one calendar step at a time. All symbols
// share one sorted calendar built from the union of their native timestamps;
// gaps are padded forward from the symbol's last known bar, never backward.
// Look-back accessors only ever see bars already revealed by Advance, which
// is what structurally rules out look-ahead.
type Stream struct {
	symbols  []string
	calendar []time.Time

	// aligned[s][i] is the bar visible for s at calendar step i, nil before
	// the symbol's first native observation.
	aligned map[string][]*common.Bar
	visible map[string][]common.Bar

	cursor    int
	exhausted bool
}

// NewStream loads every symbol from the source and reindexes onto the shared
// calendar before the simulation starts.
func NewStream(ctx context.Context, source BarSource, symbols ...string) (*Stream, error) {
	if len(symbols) == 0 {
		return nil, errors.New("at least one symbol is required")
	}

	raw := make(map[string][]common.Bar, len(symbols))
	for _, symbol := range symbols {
		bars, err := source.LoadBars(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("unable to load bars for %q: %w", symbol, err)
		}
		for i := 1; i < len(bars); i++ {
			if bars[i].TimeStamp.Before(bars[i-1].TimeStamp) {
				return nil, fmt.Errorf("bars for %q are out of order at %s", symbol, bars[i].TimeStamp)
			}
		}
		raw[symbol] = bars
	}

	calendar := unionCalendar(raw)

	s := &Stream{
		symbols:  append([]string(nil), symbols...),
		calendar: calendar,
		aligned:  make(map[string][]*common.Bar, len(symbols)),
		visible:  make(map[string][]common.Bar, len(symbols)),
	}

	for _, symbol := range symbols {
		s.aligned[symbol] = alignToCalendar(raw[symbol], calendar)
		s.visible[symbol] = nil
	}

	return s, nil
}

func unionCalendar(raw map[string][]common.Bar) []time.Time {
	seen := make(map[int64]time.Time)
	for _, bars := range raw {
		for _, bar := range bars {
			seen[bar.TimeStamp.UnixNano()] = bar.TimeStamp
		}
	}

	calendar := make([]time.Time, 0, len(seen))
	for _, ts := range seen {
		calendar = append(calendar, ts)
	}
	sort.Slice(calendar, func(i, j int) bool { return calendar[i].Before(calendar[j]) })
	return calendar
}

// alignToCalendar pads each symbol forward: at every calendar step the visible
// bar is the latest native bar at or before that step, restamped to the step.
// Steps before the symbol's first native bar stay nil.
func alignToCalendar(bars []common.Bar, calendar []time.Time) []*common.Bar {
	aligned := make([]*common.Bar, len(calendar))

	idx := -1
	for i, ts := range calendar {
		for idx+1 < len(bars) && !bars[idx+1].TimeStamp.After(ts) {
			idx++
		}
		if idx < 0 {
			continue
		}
		bar := bars[idx]
		bar.TimeStamp = ts
		aligned[i] = &bar
	}
	return aligned
}

func (s *Stream) Symbols() []string {
	return s.symbols
}

// StartTime is the first calendar step, zero when the source had no bars.
func (s *Stream) StartTime() time.Time {
	if len(s.calendar) == 0 {
		return time.Time{}
	}
	return s.calendar[0]
}

// Advance reveals the next calendar step, appending one new bar to each
// symbol that has an observation there. It reports whether any data remained;
// once exhausted it keeps returning false.
func (s *Stream) Advance() bool {
	if s.exhausted {
		return false
	}
	if s.cursor >= len(s.calendar) {
		s.exhausted = true
		return false
	}

	for _, symbol := range s.symbols {
		if bar := s.aligned[symbol][s.cursor]; bar != nil {
			s.visible[symbol] = append(s.visible[symbol], *bar)
		}
	}
	s.cursor++
	return true
}

func (s *Stream) history(symbol string) ([]common.Bar, error) {
	bars, ok := s.visible[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoDataYet, symbol)
	}
	return bars, nil
}

// LatestBar returns the most recent bar revealed for the symbol.
func (s *Stream) LatestBar(symbol string) (common.Bar, error) {
	bars, err := s.history(symbol)
	if err != nil {
		return common.Bar{}, err
	}
	return bars[len(bars)-1], nil
}

// LatestBars returns up to n most recent bars, oldest first. Short history
// returns fewer than n, never an error.
func (s *Stream) LatestBars(symbol string, n int) ([]common.Bar, error) {
	bars, err := s.history(symbol)
	if err != nil {
		return nil, err
	}
	if n > len(bars) {
		n = len(bars)
	}
	out := make([]common.Bar, n)
	copy(out, bars[len(bars)-n:])
	return out, nil
}

func (s *Stream) LatestBarTime(symbol string) (time.Time, error) {
	bar, err := s.LatestBar(symbol)
	if err != nil {
		return time.Time{}, err
	}
	return bar.TimeStamp, nil
}

func (s *Stream) LatestField(symbol string, field common.Field) (fixed.Point, error) {
	bar, err := s.LatestBar(symbol)
	if err != nil {
		return fixed.Point{}, err
	}
	return bar.Field(field)
}

func (s *Stream) LatestFields(symbol string, field common.Field, n int) ([]fixed.Point, error) {
	bars, err := s.LatestBars(symbol, n)
	if err != nil {
		return nil, err
	}
	out := make([]fixed.Point, len(bars))
	for i, bar := range bars {
		if out[i], err = bar.Field(field); err != nil {
			return nil, err
		}
	}
	return out, nil
}
