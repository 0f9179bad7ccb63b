package common

import (
	"fmt"
	"time"

	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

type SignalDirection int

const (
	SignalLong SignalDirection = iota
	SignalShort
	SignalExit
)

func (d SignalDirection) String() string {
	switch d {
	case SignalLong:
		return "long"
	case SignalShort:
		return "short"
	case SignalExit:
		return "exit"
	default:
		return fmt.Sprintf("signal_direction(%d)", int(d))
	}
}

// Signal is a strategy's intent for one symbol. ReferencePrice is the price
// observed at signal time and feeds the order's estimated fill cost. Strength
// scales intended size, mainly for multi-leg strategies.
type Signal struct {
	StrategyId     string          `json:"strategy_id"`
	Symbol         string          `json:"symbol"`
	Direction      SignalDirection `json:"direction"`
	Strength       fixed.Point     `json:"strength"`
	ReferencePrice fixed.Point     `json:"reference_price"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
