package common

import (
	"fmt"
	"time"

	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

type OrderKind int
type OrderDirection int

const (
	OrderKindMarket OrderKind = iota
	OrderKindLimit
)

const (
	OrderBuy OrderDirection = iota
	OrderSell
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindMarket:
		return "market"
	case OrderKindLimit:
		return "limit"
	default:
		return fmt.Sprintf("order_kind(%d)", int(k))
	}
}

func (d OrderDirection) String() string {
	switch d {
	case OrderBuy:
		return "buy"
	case OrderSell:
		return "sell"
	default:
		return fmt.Sprintf("order_direction(%d)", int(d))
	}
}

// Order instructs an execution sink to trade. Quantity is a non-negative
// unit count; EstimatedFillCost is reference price x quantity at signal time.
type Order struct {
	Symbol            string         `json:"symbol"`
	Kind              OrderKind      `json:"kind"`
	Quantity          int64          `json:"quantity"`
	Direction         OrderDirection `json:"direction"`
	EstimatedFillCost fixed.Point    `json:"estimated_fill_cost"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
