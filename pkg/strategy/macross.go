package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/market"
	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

const maCrossComponentName = "strategy.macross"

type positionState int

const (
	stateOut positionState = iota
	stateLong
)

// MACross is a simple moving-average cross strategy: go long when the short
// average crosses above the long average while flat, exit when it crosses
// back below while long. One signal per crossing, per symbol.
type MACross struct {
	router *bus.Router
	stream *market.Stream

	shortWindow int
	longWindow  int

	closes map[string]*fixed.RingBuffer
	states map[string]positionState
}

func NewMACross(router *bus.Router, stream *market.Stream, shortWindow, longWindow int) (*MACross, error) {
	if shortWindow <= 0 || longWindow <= 0 || shortWindow >= longWindow {
		return nil, fmt.Errorf("invalid windows: short %d must be positive and below long %d", shortWindow, longWindow)
	}

	m := &MACross{
		router:      router,
		stream:      stream,
		shortWindow: shortWindow,
		longWindow:  longWindow,
		closes:      make(map[string]*fixed.RingBuffer),
		states:      make(map[string]positionState),
	}

	for _, symbol := range stream.Symbols() {
		m.closes[symbol] = fixed.NewRingBuffer(longWindow)
		m.states[symbol] = stateOut
	}

	return m, nil
}

// CalcSignals reads the latest close per symbol and emits at most one signal
// per symbol per bar. Symbols with no data yet are skipped, not an error.
func (m *MACross) CalcSignals(_ context.Context, _ common.Market) error {
	for _, symbol := range m.stream.Symbols() {
		closePrice, err := m.stream.LatestField(symbol, common.FieldClose)
		if errors.Is(err, market.ErrNoDataYet) {
			continue
		}
		if err != nil {
			return err
		}

		buffer := m.closes[symbol]
		buffer.Add(closePrice)
		if buffer.Size() < 2 {
			continue
		}

		shortSMA := buffer.MeanLatest(m.shortWindow)
		longSMA := buffer.Mean()

		ts, err := m.stream.LatestBarTime(symbol)
		if err != nil {
			return err
		}

		switch {
		case shortSMA.Gt(longSMA) && m.states[symbol] == stateOut:
			if err := m.post(symbol, common.SignalLong, closePrice, ts); err != nil {
				return err
			}
			m.states[symbol] = stateLong
		case shortSMA.Lt(longSMA) && m.states[symbol] == stateLong:
			if err := m.post(symbol, common.SignalExit, closePrice, ts); err != nil {
				return err
			}
			m.states[symbol] = stateOut
		}
	}
	return nil
}

func (m *MACross) post(symbol string, direction common.SignalDirection, price fixed.Point, ts time.Time) error {
	return m.router.Post(bus.SignalEvent, common.Signal{
		StrategyId:     maCrossComponentName,
		Symbol:         symbol,
		Direction:      direction,
		Strength:       fixed.One,
		ReferencePrice: price,
		Source:         maCrossComponentName,
		ExecutionId:    utility.GetExecutionID(),
		TraceID:        utility.CreateTraceID(),
		TimeStamp:      ts,
	})
}
