package bus

import (
	"context"

	"github.com/peter-kozarec/barsim/pkg/common"
)

// EventHandler reacts to one event. A returned error is fatal to the run;
// handlers never retry.
type EventHandler[T any] = func(context.Context, T) error

type MarketEventHandler = EventHandler[common.Market]
type SignalEventHandler = EventHandler[common.Signal]
type OrderEventHandler = EventHandler[common.Order]
type FillEventHandler = EventHandler[common.Fill]

func MergeHandlers[T any](handlers ...EventHandler[T]) EventHandler[T] {
	return func(ctx context.Context, event T) error {
		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				return err
			}
		}
		return nil
	}
}
