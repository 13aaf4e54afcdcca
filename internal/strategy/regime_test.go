package strategy

import (
	"testing"

	"regime-scanner/internal/model"
	"regime-scanner/pkg/ta"

	"github.com/stretchr/testify/assert"
)

func maRow(emaS, emaL, smaS, smaL float64) ta.IndicatorRow {
	return ta.IndicatorRow{EMAShort: emaS, EMALong: emaL, SMAShort: smaS, SMALong: smaL, Ready: true}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		row  ta.IndicatorRow
		want model.MarketState
	}{
		{"all bullish", maRow(12, 10, 11.5, 10.5), model.StateGreen},
		{"all bearish", maRow(8, 10, 8.5, 9.5), model.StateRed},
		{"ema short below sma long", maRow(10.4, 10, 11, 10.5), model.StateGrey},
		{"sma short below ema long", maRow(12, 11, 10.8, 10.5), model.StateGrey},
		{"equal values", maRow(10, 10, 10, 10), model.StateGrey},
		{"mixed", maRow(12, 10, 9, 10), model.StateGrey},
		{"warm-up row", ta.IndicatorRow{EMAShort: 12, EMALong: 10, SMAShort: 12, SMALong: 10}, model.StateUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.row))
		})
	}
}

func TestClassify_IndependentOfHistory(t *testing.T) {
	rows := []ta.IndicatorRow{
		maRow(8, 10, 8.5, 9.5),
		maRow(12, 10, 11.5, 10.5),
		maRow(12, 10, 11.5, 10.5),
		maRow(10, 10, 10, 10),
		maRow(12, 10, 11.5, 10.5),
	}
	ClassifyRows(rows)
	assert.Equal(t, model.StateGreen, rows[1].State)
	assert.Equal(t, rows[1].State, rows[2].State)
	assert.Equal(t, rows[1].State, rows[4].State)
	assert.Equal(t, model.StateRed, rows[0].State)
	assert.Equal(t, model.StateGrey, rows[3].State)
}
