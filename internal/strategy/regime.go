package strategy

import (
	"regime-scanner/internal/model"
	"regime-scanner/pkg/ta"
)

// Classify 只根据当前行的四条均线判断状态，与历史状态无关
func Classify(row ta.IndicatorRow) model.MarketState {
	if !row.Ready {
		return model.StateUnknown
	}
	emaS, emaL := row.EMAShort, row.EMALong
	smaS, smaL := row.SMAShort, row.SMALong

	switch {
	case emaS > emaL && smaS > smaL && emaS > smaL && smaS > emaL:
		return model.StateGreen
	case emaS < emaL && smaS < smaL && emaS < smaL && smaS < emaL:
		return model.StateRed
	default:
		return model.StateGrey
	}
}

// ClassifyRows 原地为每一行写入状态
func ClassifyRows(rows []ta.IndicatorRow) {
	for i := range rows {
		rows[i].State = Classify(rows[i])
	}
}
