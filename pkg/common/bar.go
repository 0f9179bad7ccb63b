package common

import (
	"fmt"
	"time"

	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

// Bar is one OHLCV observation for a symbol at one step of the shared calendar.
type Bar struct {
	Source      string              `json:"src,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
	Open        fixed.Point         `json:"open"`
	High        fixed.Point         `json:"high"`
	Low         fixed.Point         `json:"low"`
	Close       fixed.Point         `json:"close"`
	Volume      fixed.Point         `json:"volume"`
}

type Field int

const (
	FieldOpen Field = iota
	FieldHigh
	FieldLow
	FieldClose
	FieldVolume
)

func (f Field) String() string {
	switch f {
	case FieldOpen:
		return "open"
	case FieldHigh:
		return "high"
	case FieldLow:
		return "low"
	case FieldClose:
		return "close"
	case FieldVolume:
		return "volume"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Field selects one OHLCV value. An out-of-range selector is a configuration
// error surfaced to the caller, never a silent zero.
func (b Bar) Field(f Field) (fixed.Point, error) {
	switch f {
	case FieldOpen:
		return b.Open, nil
	case FieldHigh:
		return b.High, nil
	case FieldLow:
		return b.Low, nil
	case FieldClose:
		return b.Close, nil
	case FieldVolume:
		return b.Volume, nil
	default:
		return fixed.Point{}, fmt.Errorf("unknown bar field %q", f)
	}
}
