package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframeLabels_Bijective(t *testing.T) {
	for tf, label := range timeframeLabels {
		assert.Equal(t, label, TimeframeLabel(tf))
		assert.Equal(t, tf, TimeframeFromLabel(label))
	}
	assert.Equal(t, "1hour", TimeframeLabel("1h"))
	assert.Equal(t, "1month", TimeframeLabel("1M"))
	assert.Equal(t, "1min", TimeframeLabel("1m"))
	assert.Equal(t, "7h", TimeframeLabel("7h"))
	assert.Equal(t, "weird", TimeframeFromLabel("weird"))
	assert.True(t, IsKnownTimeframe("4h"))
	assert.False(t, IsKnownTimeframe("4hour"))
}

func TestSignalKey(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	s := Signal{Symbol: "BTCUSDT", Timeframe: "1h", AlertTime: time.Date(2024, 2, 3, 9, 5, 59, 0, loc)}
	assert.Equal(t, SignalKey{Symbol: "BTCUSDT", Timeframe: "1h", AlertTime: "2024-02-03 01:05"}, s.Key())
	assert.True(t, s.Key().Complete())
	assert.False(t, SignalKey{Symbol: "BTCUSDT", Timeframe: "1h"}.Complete())
}

func TestDirectionMapping(t *testing.T) {
	assert.Equal(t, DirShort, SignalGreen.Direction())
	assert.Equal(t, DirLong, SignalRed.Direction())
	assert.Equal(t, SignalGreen, SignalTypeFromDirection(DirShort))
	assert.Equal(t, SignalRed, SignalTypeFromDirection(DirLong))
}

func TestKLineValid(t *testing.T) {
	assert.True(t, KLine{Open: 1, High: 2, Low: 0.5, Close: 1}.Valid())
	assert.False(t, KLine{Open: 1, High: 2, Low: 0, Close: 1}.Valid())
}
