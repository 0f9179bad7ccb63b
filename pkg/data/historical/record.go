package historical

import (
	"time"

	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

const barReaderComponentName = "data.historical.reader"

// BinaryBar is the fixed-size on-disk record. Files are a flat sequence of
// these, sorted by TimeStamp.
type BinaryBar struct {
	TimeStamp int64 // unix nanoseconds
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    uint64
}

func (b BinaryBar) ToBar(symbol string, bar *common.Bar) {
	bar.Source = barReaderComponentName
	bar.Symbol = symbol
	bar.ExecutionId = utility.GetExecutionID()
	bar.TraceID = utility.CreateTraceID()
	bar.TimeStamp = time.Unix(0, b.TimeStamp).UTC()
	bar.Open = fixed.FromFloat64(b.Open)
	bar.High = fixed.FromFloat64(b.High)
	bar.Low = fixed.FromFloat64(b.Low)
	bar.Close = fixed.FromFloat64(b.Close)
	bar.Volume = fixed.FromUint64(b.Volume, 0)
}
