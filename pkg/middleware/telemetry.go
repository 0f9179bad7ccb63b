package middleware

import (
	"context"
	"log/slog"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/common"
)

// Telemetry counts events passing through the handlers it wraps.
type Telemetry struct {
	marketEventCount uint64
	signalEventCount uint64
	orderEventCount  uint64
	fillEventCount   uint64
}

func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

func (t *Telemetry) WithMarket(handler bus.MarketEventHandler) bus.MarketEventHandler {
	return func(ctx context.Context, market common.Market) error {
		t.marketEventCount++
		return handler(ctx, market)
	}
}

func (t *Telemetry) WithSignal(handler bus.SignalEventHandler) bus.SignalEventHandler {
	return func(ctx context.Context, signal common.Signal) error {
		t.signalEventCount++
		return handler(ctx, signal)
	}
}

func (t *Telemetry) WithOrder(handler bus.OrderEventHandler) bus.OrderEventHandler {
	return func(ctx context.Context, order common.Order) error {
		t.orderEventCount++
		return handler(ctx, order)
	}
}

func (t *Telemetry) WithFill(handler bus.FillEventHandler) bus.FillEventHandler {
	return func(ctx context.Context, fill common.Fill) error {
		t.fillEventCount++
		return handler(ctx, fill)
	}
}

func (t *Telemetry) MarketEventCount() uint64 { return t.marketEventCount }
func (t *Telemetry) SignalEventCount() uint64 { return t.signalEventCount }
func (t *Telemetry) OrderEventCount() uint64  { return t.orderEventCount }
func (t *Telemetry) FillEventCount() uint64   { return t.fillEventCount }

func (t *Telemetry) PrintStatistics() {
	slog.Info("telemetry",
		"market_events", t.marketEventCount,
		"signal_events", t.signalEventCount,
		"order_events", t.orderEventCount,
		"fill_events", t.fillEventCount)
}
