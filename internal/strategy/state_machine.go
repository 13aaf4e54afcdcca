package strategy

import (
	"regime-scanner/internal/model"
	"regime-scanner/pkg/ta"

	"go.uber.org/zap"
)

// SetupTracker 是单个 (symbol, timeframe) 的状态机。
// Green 与 Red 两个 setup 相互独立，可以同时处于激活状态。
type SetupTracker struct {
	Symbol    string
	Timeframe string
	Green     Setup
	Red       Setup

	logger *zap.Logger
}

// NewSetupTracker 初始化状态机，两个 setup 均未激活
func NewSetupTracker(symbol, timeframe string, logger *zap.Logger) *SetupTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SetupTracker{
		Symbol:    symbol,
		Timeframe: timeframe,
		Green:     Setup{Type: model.SignalGreen},
		Red:       Setup{Type: model.SignalRed},
		logger:    logger,
	}
}

// Step 处理 rows[i]，先检测状态切换再推进两个 setup，返回本根 K 线触发的信号
func (t *SetupTracker) Step(rows []ta.IndicatorRow, i int) []model.Signal {
	if i < 1 || i >= len(rows) {
		return nil
	}
	cur, prev := rows[i], rows[i-1]
	if !cur.State.Known() || !prev.State.Known() {
		return nil
	}

	if cur.State == model.StateGreen && prev.State != model.StateGreen {
		lv := LevelsAtTransition(rows, i, model.SignalGreen)
		t.Green = NewSetup(model.SignalGreen, cur.StartTime, lv)
		t.logTransition(prev.State, cur.State, t.Green)
	}
	if cur.State == model.StateRed && prev.State != model.StateRed {
		lv := LevelsAtTransition(rows, i, model.SignalRed)
		t.Red = NewSetup(model.SignalRed, cur.StartTime, lv)
		t.logTransition(prev.State, cur.State, t.Red)
	}

	var signals []model.Signal
	var fired bool
	if t.Green, fired = t.Green.Advance(cur.KLine); fired {
		signals = append(signals, t.Green.signalFor(t.Symbol, t.Timeframe, cur.KLine))
	}
	if t.Red, fired = t.Red.Advance(cur.KLine); fired {
		signals = append(signals, t.Red.signalFor(t.Symbol, t.Timeframe, cur.KLine))
	}
	return signals
}

func (t *SetupTracker) logTransition(from, to model.MarketState, s Setup) {
	t.logger.Debug("State transition",
		zap.String("symbol", t.Symbol),
		zap.String("timeframe", t.Timeframe),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Time("at", s.TransitionTime),
		zap.Float64("resistance", s.Resistance),
		zap.Float64("stoploss", s.StopLoss),
	)
}

// TransitionStart 从 i-1 向前跳过连续的 Grey 行，返回区间起点。
// 前一行不是 Grey 时返回 i。
func TransitionStart(rows []ta.IndicatorRow, i int) int {
	s := i - 1
	for s >= 0 && rows[s].State == model.StateGrey {
		s--
	}
	return max(0, s+1)
}

// LevelsAtTransition 在 [TransitionStart, i] 区间上计算关键位。
// Green: resistance = 最低价, stoploss = 最高价；Red 相反。
func LevelsAtTransition(rows []ta.IndicatorRow, i int, t model.SignalType) Levels {
	start := TransitionStart(rows, i)
	minLow, maxHigh := rows[start].Low, rows[start].High
	for _, r := range rows[start+1 : i+1] {
		minLow = min(minLow, r.Low)
		maxHigh = max(maxHigh, r.High)
	}
	if t == model.SignalGreen {
		return Levels{Resistance: minLow, StopLoss: maxHigh}
	}
	return Levels{Resistance: maxHigh, StopLoss: minLow}
}
