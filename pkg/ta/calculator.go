package ta

import (
	"regime-scanner/internal/model"

	"github.com/markcheno/go-talib"
	"go.uber.org/zap"
)

// IndicatorRow 是一根 K 线加上它的均线值和趋势状态
type IndicatorRow struct {
	model.KLine

	SMAShort float64
	SMALong  float64
	EMAShort float64
	EMALong  float64

	// Ready 为 false 表示 SMA 窗口尚未填满
	Ready bool
	State model.MarketState
}

// Periods 均线周期配置
type Periods struct {
	EMAShort int
	EMALong  int
	SMAShort int
	SMALong  int
}

// TACalculator 负责从 K 线序列计算均线，调用之间不保留状态
type TACalculator struct {
	Periods       Periods
	MinHistoryLen int // 计算指标所需的最小历史长度
	Logger        *zap.SugaredLogger
}

// NewTACalculator 初始化技术指标计算器
func NewTACalculator(periods Periods, logger *zap.SugaredLogger) *TACalculator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &TACalculator{
		Periods:       periods,
		MinHistoryLen: max(periods.EMAShort, periods.EMALong, periods.SMAShort, periods.SMALong),
		Logger:        logger,
	}
}

// Calculate 计算每根 K 线的 SMA/EMA。
// 历史长度不足时返回 (nil, false)，这不是错误。
func (tc *TACalculator) Calculate(klines []model.KLine) ([]IndicatorRow, bool) {
	if len(klines) == 0 || len(klines) < tc.MinHistoryLen {
		tc.Logger.Debugw("Not enough history for calculation", "len", len(klines), "min", tc.MinHistoryLen)
		return nil, false
	}

	closes := make([]float64, len(klines))
	for i, k := range klines {
		closes[i] = k.Close
	}

	smaShort := talib.Sma(closes, tc.Periods.SMAShort)
	smaLong := talib.Sma(closes, tc.Periods.SMALong)
	emaShort := EMA(closes, tc.Periods.EMAShort)
	emaLong := EMA(closes, tc.Periods.EMALong)

	// talib 在窗口未满的位置填 0
	warmup := max(tc.Periods.SMAShort, tc.Periods.SMALong) - 1

	rows := make([]IndicatorRow, len(klines))
	for i, k := range klines {
		rows[i] = IndicatorRow{
			KLine:    k,
			SMAShort: smaShort[i],
			SMALong:  smaLong[i],
			EMAShort: emaShort[i],
			EMALong:  emaLong[i],
			Ready:    i >= warmup,
		}
	}
	return rows, true
}

// EMA 使用非调整递推：ema[0] = x[0]，ema[t] = α·x[t] + (1-α)·ema[t-1]，α = 2/(span+1)
func EMA(series []float64, span int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = alpha*series[i] + (1-alpha)*out[i-1]
	}
	return out
}
