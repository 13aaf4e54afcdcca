package strategy

import (
	"regime-scanner/internal/model"
	"regime-scanner/pkg/ta"

	"go.uber.org/zap"
)

// SignalGenerator 对一个 (symbol, timeframe) 的 K 线序列跑完整的
// 指标 -> 状态 -> setup 流程
type SignalGenerator struct {
	taClient *ta.TACalculator
	logger   *zap.Logger
}

// NewSignalGenerator 初始化信号生成器
func NewSignalGenerator(taClient *ta.TACalculator, logger *zap.Logger) *SignalGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignalGenerator{taClient: taClient, logger: logger}
}

// Generate 在整段 klines 上计算指标，只扫描最后 window 根 K 线。
// 数据不足以计算指标时返回 (nil, false)。
// window <= 0 或超过序列长度时扫描整段。
func (sg *SignalGenerator) Generate(symbol, timeframe string, klines []model.KLine, window int) ([]model.Signal, bool) {
	rows, ok := sg.taClient.Calculate(klines)
	if !ok {
		return nil, false
	}
	ClassifyRows(rows)

	if window > 0 && window < len(rows) {
		rows = rows[len(rows)-window:]
	}

	tracker := NewSetupTracker(symbol, timeframe, sg.logger)
	var signals []model.Signal
	for i := 1; i < len(rows); i++ {
		signals = append(signals, tracker.Step(rows, i)...)
	}
	return signals, true
}
