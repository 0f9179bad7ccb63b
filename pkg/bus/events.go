package bus

import "fmt"

// EventId closes the set of event kinds the queue can carry. The dispatcher
// matches exhaustively; an id outside this set aborts the run.
type EventId uint8

const (
	MarketEvent EventId = iota
	SignalEvent
	OrderEvent
	FillEvent
)

func (id EventId) String() string {
	switch id {
	case MarketEvent:
		return "market"
	case SignalEvent:
		return "signal"
	case OrderEvent:
		return "order"
	case FillEvent:
		return "fill"
	default:
		return fmt.Sprintf("event(%d)", uint8(id))
	}
}
