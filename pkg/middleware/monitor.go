package middleware

import (
	"context"
	"log/slog"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/common"
)

type MonitorFlags uint8

const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorMarkets
	MonitorSignals
	MonitorOrders
	MonitorFills
)

// Monitor logs events flowing through the handlers it wraps, gated by flags.
type Monitor struct {
	flags MonitorFlags
}

func NewMonitor(flags MonitorFlags) *Monitor {
	return &Monitor{
		flags: flags,
	}
}

func (m *Monitor) WithMarket(handler bus.MarketEventHandler) bus.MarketEventHandler {
	return func(ctx context.Context, market common.Market) error {
		if m.flags&MonitorMarkets != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "market", market)
		}
		return handler(ctx, market)
	}
}

func (m *Monitor) WithSignal(handler bus.SignalEventHandler) bus.SignalEventHandler {
	return func(ctx context.Context, signal common.Signal) error {
		if m.flags&MonitorSignals != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "signal", signal)
		}
		return handler(ctx, signal)
	}
}

func (m *Monitor) WithOrder(handler bus.OrderEventHandler) bus.OrderEventHandler {
	return func(ctx context.Context, order common.Order) error {
		if m.flags&MonitorOrders != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "order", order)
		}
		return handler(ctx, order)
	}
}

func (m *Monitor) WithFill(handler bus.FillEventHandler) bus.FillEventHandler {
	return func(ctx context.Context, fill common.Fill) error {
		if m.flags&MonitorFills != 0 || m.flags&MonitorAll != 0 {
			slog.Info("event", "fill", fill)
		}
		return handler(ctx, fill)
	}
}
