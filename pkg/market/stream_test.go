package market_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/data/memory"
	"github.com/peter-kozarec/barsim/pkg/market"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return t0.AddDate(0, 0, n)
}

func bar(ts time.Time, close float64) common.Bar {
	p := fixed.FromFloat64(close)
	return common.Bar{
		TimeStamp: ts,
		Open:      p,
		High:      p,
		Low:       p,
		Close:     p,
		Volume:    fixed.FromInt64(100, 0),
	}
}

func Test_StreamAdvanceRevealsBars(t *testing.T) {
	source := memory.Source{
		"ABC": {bar(day(0), 10), bar(day(1), 11), bar(day(2), 12)},
	}

	stream, err := market.NewStream(context.Background(), source, "ABC")
	require.NoError(t, err)

	_, err = stream.LatestBar("ABC")
	assert.ErrorIs(t, err, market.ErrNoDataYet)

	require.True(t, stream.Advance())
	latest, err := stream.LatestBar("ABC")
	require.NoError(t, err)
	assert.True(t, latest.Close.Eq(fixed.FromInt64(10, 0)))

	require.True(t, stream.Advance())
	require.True(t, stream.Advance())
	assert.False(t, stream.Advance())

	latest, err = stream.LatestBar("ABC")
	require.NoError(t, err)
	assert.True(t, latest.Close.Eq(fixed.FromInt64(12, 0)))
}

func Test_StreamExhaustionIsIdempotent(t *testing.T) {
	source := memory.Source{"ABC": {bar(day(0), 10)}}

	stream, err := market.NewStream(context.Background(), source, "ABC")
	require.NoError(t, err)

	require.True(t, stream.Advance())
	for i := 0; i < 3; i++ {
		assert.False(t, stream.Advance())
	}

	// History stays intact after exhaustion.
	latest, err := stream.LatestBar("ABC")
	require.NoError(t, err)
	assert.True(t, latest.Close.Eq(fixed.FromInt64(10, 0)))
}

func Test_StreamForwardFill(t *testing.T) {
	// DEF has no native bar at day 1; its day 0 bar must be padded forward
	// and restamped to the calendar step.
	source := memory.Source{
		"ABC": {bar(day(0), 10), bar(day(1), 11), bar(day(2), 12)},
		"DEF": {bar(day(0), 20), bar(day(2), 22)},
	}

	stream, err := market.NewStream(context.Background(), source, "ABC", "DEF")
	require.NoError(t, err)

	require.True(t, stream.Advance())
	require.True(t, stream.Advance())

	padded, err := stream.LatestBar("DEF")
	require.NoError(t, err)
	assert.True(t, padded.Close.Eq(fixed.FromInt64(20, 0)))
	assert.Equal(t, day(1), padded.TimeStamp)

	require.True(t, stream.Advance())
	native, err := stream.LatestBar("DEF")
	require.NoError(t, err)
	assert.True(t, native.Close.Eq(fixed.FromInt64(22, 0)))
}

func Test_StreamNoBackwardFill(t *testing.T) {
	// DEF starts one step later than ABC; before its first native bar a
	// look-back must report no data rather than leak a future bar.
	source := memory.Source{
		"ABC": {bar(day(0), 10), bar(day(1), 11)},
		"DEF": {bar(day(1), 21)},
	}

	stream, err := market.NewStream(context.Background(), source, "ABC", "DEF")
	require.NoError(t, err)

	require.True(t, stream.Advance())
	_, err = stream.LatestBar("DEF")
	assert.ErrorIs(t, err, market.ErrNoDataYet)

	require.True(t, stream.Advance())
	latest, err := stream.LatestBar("DEF")
	require.NoError(t, err)
	assert.True(t, latest.Close.Eq(fixed.FromInt64(21, 0)))
}

func Test_StreamLatestBarsShortHistory(t *testing.T) {
	source := memory.Source{
		"ABC": {bar(day(0), 10), bar(day(1), 11), bar(day(2), 12)},
	}

	stream, err := market.NewStream(context.Background(), source, "ABC")
	require.NoError(t, err)

	require.True(t, stream.Advance())
	require.True(t, stream.Advance())

	bars, err := stream.LatestBars("ABC", 5)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Close.Eq(fixed.FromInt64(10, 0)))
	assert.True(t, bars[1].Close.Eq(fixed.FromInt64(11, 0)))
}

func Test_StreamLookBackIsStable(t *testing.T) {
	source := memory.Source{
		"ABC": {bar(day(0), 10), bar(day(1), 11), bar(day(2), 12)},
	}

	stream, err := market.NewStream(context.Background(), source, "ABC")
	require.NoError(t, err)

	require.True(t, stream.Advance())
	require.True(t, stream.Advance())

	before, err := stream.LatestFields("ABC", common.FieldClose, 2)
	require.NoError(t, err)

	require.True(t, stream.Advance())

	// Advancing must not rewrite bars already revealed.
	after, err := stream.LatestFields("ABC", common.FieldClose, 3)
	require.NoError(t, err)
	assert.True(t, after[0].Eq(before[0]))
	assert.True(t, after[1].Eq(before[1]))
}

func Test_StreamUnknownSymbol(t *testing.T) {
	source := memory.Source{"ABC": {bar(day(0), 10)}}

	stream, err := market.NewStream(context.Background(), source, "ABC")
	require.NoError(t, err)
	require.True(t, stream.Advance())

	_, err = stream.LatestBar("XYZ")
	assert.ErrorIs(t, err, market.ErrUnknownSymbol)
}

func Test_StreamRejectsOutOfOrderBars(t *testing.T) {
	source := memory.Source{
		"ABC": {bar(day(1), 11), bar(day(0), 10)},
	}

	_, err := market.NewStream(context.Background(), source, "ABC")
	assert.Error(t, err)
}

func Test_StreamStartTime(t *testing.T) {
	source := memory.Source{
		"ABC": {bar(day(1), 11)},
		"DEF": {bar(day(0), 20)},
	}

	stream, err := market.NewStream(context.Background(), source, "ABC", "DEF")
	require.NoError(t, err)
	assert.Equal(t, day(0), stream.StartTime())
}
